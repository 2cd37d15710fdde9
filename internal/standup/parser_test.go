package standup

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

func TestParseTodaySectionWithStatusMarkers(t *testing.T) {
	parsed := Parse("Today\n\n- Fix bug ✅\n- Write docs ❌\n")

	want := []model.Task{
		{Text: "Fix bug", Completed: true},
		{Text: "Write docs", Completed: false},
	}
	if !reflect.DeepEqual(parsed.Today, want) {
		t.Fatalf("expected today %+v, got %+v", want, parsed.Today)
	}
	if len(parsed.Yesterday) != 0 {
		t.Fatalf("expected no yesterday tasks, got %+v", parsed.Yesterday)
	}
}

func TestParseKeepsMarkdownLinks(t *testing.T) {
	parsed := Parse("Blockers\n\n- Waiting on [PR](http://x)\n")

	want := []string{"Waiting on [PR](http://x)"}
	if !reflect.DeepEqual(parsed.Blockers, want) {
		t.Fatalf("expected blockers %q, got %q", want, parsed.Blockers)
	}
}

func TestParseFullDocument(t *testing.T) {
	document := strings.Join([]string{
		"_October 13, 2026_",
		"",
		"## What I completed",
		"",
		"- Shipped [924](https://github.com/acme/app/pull/924) ✅",
		"* ❌ Review design doc",
		"• Pair with Sam",
		"",
		"### Working on",
		"- Release notes",
		"",
		"Blockers",
		"- ✅ Waiting on infra",
		"",
		"# Backlog",
		"- Tidy CI config",
		"- ",
	}, "\n")

	parsed := Parse(document)

	wantYesterday := []model.Task{
		{Text: "Shipped [924](https://github.com/acme/app/pull/924)", Completed: true},
		{Text: "Review design doc", Completed: false},
		{Text: "Pair with Sam", Completed: false},
	}
	if !reflect.DeepEqual(parsed.Yesterday, wantYesterday) {
		t.Fatalf("expected yesterday %+v, got %+v", wantYesterday, parsed.Yesterday)
	}
	if !reflect.DeepEqual(parsed.Today, []model.Task{{Text: "Release notes"}}) {
		t.Fatalf("unexpected today %+v", parsed.Today)
	}
	if !reflect.DeepEqual(parsed.Blockers, []string{"Waiting on infra"}) {
		t.Fatalf("unexpected blockers %q", parsed.Blockers)
	}
	if !reflect.DeepEqual(parsed.Backlog, []string{"Tidy CI config"}) {
		t.Fatalf("unexpected backlog %q", parsed.Backlog)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	parsed := Parse("")
	if len(parsed.Yesterday)+len(parsed.Today)+len(parsed.Blockers)+len(parsed.Backlog) != 0 {
		t.Fatalf("expected empty result, got %+v", parsed)
	}
	if parsed.Today == nil || parsed.Blockers == nil {
		t.Fatalf("expected empty lists rather than nil")
	}
}

func TestParseIgnoresPreambleBullets(t *testing.T) {
	parsed := Parse("- orphan bullet\n_date_\nToday\n- kept\n")
	if !reflect.DeepEqual(parsed.Today, []model.Task{{Text: "kept"}}) {
		t.Fatalf("unexpected today %+v", parsed.Today)
	}
}

// Stray free text after a heading is dropped; this is a known limitation.
func TestParseDropsStrayTextKnownLimitation(t *testing.T) {
	parsed := Parse("Today\nSome commentary about the day\n- real task\n")
	if !reflect.DeepEqual(parsed.Today, []model.Task{{Text: "real task"}}) {
		t.Fatalf("unexpected today %+v", parsed.Today)
	}
}

func TestParseTodayHeadingMustBeExact(t *testing.T) {
	parsed := Parse("Today's plan\n- lost\nToday\n- found\n")
	if !reflect.DeepEqual(parsed.Today, []model.Task{{Text: "found"}}) {
		t.Fatalf("unexpected today %+v", parsed.Today)
	}
}

func TestParseHandlesCRLF(t *testing.T) {
	parsed := Parse("Today\r\n- one ✅\r\n- two\r\n")
	want := []model.Task{{Text: "one", Completed: true}, {Text: "two"}}
	if !reflect.DeepEqual(parsed.Today, want) {
		t.Fatalf("expected %+v, got %+v", want, parsed.Today)
	}
}

func TestTasksAssignsPerParseIDs(t *testing.T) {
	parsed := model.ParsedStandup{
		Yesterday: []model.Task{{Text: "a"}},
		Today:     []model.Task{{Text: "b"}, {Text: "c", Completed: true}},
	}

	tasks := Tasks(parsed)
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []string{"yesterday-0", "today-0", "today-1"}) {
		t.Fatalf("unexpected ids %q", ids)
	}

	selected := DefaultSelection(tasks)
	if len(selected) != 2 || !selected["today-0"] || !selected["today-1"] {
		t.Fatalf("expected today tasks preselected, got %v", selected)
	}

	picked := Selected(tasks, selected)
	if !reflect.DeepEqual(picked, []model.Task{{Text: "b"}, {Text: "c", Completed: true}}) {
		t.Fatalf("unexpected selection %+v", picked)
	}
}

func TestItemsFlattensPlainSections(t *testing.T) {
	parsed := model.ParsedStandup{Backlog: []string{"x", "y"}}
	items := Items(parsed, model.SectionBacklog)
	want := []model.Task{{Text: "x"}, {Text: "y"}}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("expected %+v, got %+v", want, items)
	}
}

func TestParseGenerateRoundTrip(t *testing.T) {
	created := time.Date(2026, 10, 13, 9, 0, 0, 0, time.UTC)
	todos := []model.Todo{
		{ID: "1", Text: "Write tests", CreatedAt: created},
		{ID: "2", Text: "Review [12](https://github.com/o/r/pull/12)", CreatedAt: created},
		{ID: "3", Text: "Deploy", Completed: true, CreatedAt: created},
	}

	parsed := Parse(Generate(todos, created))

	wantYesterday := []model.Task{
		{Text: "Deploy", Completed: true},
		{Text: "Write tests"},
		{Text: "Review [12](https://github.com/o/r/pull/12)"},
	}
	if !reflect.DeepEqual(parsed.Yesterday, wantYesterday) {
		t.Fatalf("expected yesterday %+v, got %+v", wantYesterday, parsed.Yesterday)
	}
	wantToday := []model.Task{
		{Text: "Write tests"},
		{Text: "Review [12](https://github.com/o/r/pull/12)"},
	}
	if !reflect.DeepEqual(parsed.Today, wantToday) {
		t.Fatalf("expected today %+v, got %+v", wantToday, parsed.Today)
	}
	if !reflect.DeepEqual(parsed.Blockers, []string{"None"}) {
		t.Fatalf("expected placeholder blocker, got %q", parsed.Blockers)
	}
	if len(parsed.Backlog) != 0 {
		t.Fatalf("expected empty backlog, got %q", parsed.Backlog)
	}
}
