package standup

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

func TestClassifyHeadingPrecedence(t *testing.T) {
	cases := []struct {
		heading string
		want    model.Section
		ok      bool
	}{
		{heading: "Yesterday/Completed", want: model.SectionYesterday, ok: true},
		{heading: "## Yesterday", want: model.SectionYesterday, ok: true},
		{heading: "Completed yesterday, blockers tomorrow", want: model.SectionYesterday, ok: true},
		{heading: "TODAY", want: model.SectionToday, ok: true},
		{heading: "### What I'm working on", want: model.SectionToday, ok: true},
		{heading: "Blockers", want: model.SectionBlockers, ok: true},
		{heading: "#Blocker backlog", want: model.SectionBlockers, ok: true},
		{heading: "Backlog", want: model.SectionBacklog, ok: true},
		{heading: "Notes", ok: false},
		{heading: "Today and tomorrow", ok: false},
	}

	for _, tc := range cases {
		got, ok := ClassifyHeading(tc.heading)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ClassifyHeading(%q) = %q, %v; want %q, %v", tc.heading, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassifyStoresLinesVerbatim(t *testing.T) {
	lines := []string{
		"intro text",
		"- before any heading",
		"Yesterday",
		"",
		"  - indented item ✅",
		"Unknown heading",
		"- still yesterday",
		"Backlog",
		"* later",
	}

	sections := Classify(lines)

	if !reflect.DeepEqual(sections[model.SectionYesterday], []string{"  - indented item ✅", "- still yesterday"}) {
		t.Fatalf("unexpected yesterday lines %q", sections[model.SectionYesterday])
	}
	if !reflect.DeepEqual(sections[model.SectionBacklog], []string{"* later"}) {
		t.Fatalf("unexpected backlog lines %q", sections[model.SectionBacklog])
	}
	if _, ok := sections[model.SectionToday]; ok {
		t.Fatalf("expected no today lines")
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	document := "Preamble\n## Yesterday\n- a ✅\n- b ❌\n\nToday\n- c\nBlockers\n- d\n"
	first := Classify(strings.Split(document, "\n"))

	var rebuilt []string
	headings := map[model.Section]string{
		model.SectionYesterday: "Yesterday",
		model.SectionToday:     "Today",
		model.SectionBlockers:  "Blockers",
		model.SectionBacklog:   "Backlog",
	}
	for _, section := range model.Sections {
		lines, ok := first[section]
		if !ok {
			continue
		}
		rebuilt = append(rebuilt, headings[section])
		rebuilt = append(rebuilt, lines...)
	}

	second := Classify(rebuilt)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected %q, got %q", first, second)
	}
}

func TestPromoteHeadings(t *testing.T) {
	in := "_January 5, 2026_\n\nYesterday\n\n- a ✅\n# Today\nNotes\nBlockers\n"
	want := "_January 5, 2026_\n\n## Yesterday\n\n- a ✅\n# Today\nNotes\n## Blockers\n"
	if got := PromoteHeadings(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := Parse(PromoteHeadings(in)); len(got.Yesterday) != 1 {
		t.Fatalf("expected promoted document to parse the same, got %+v", got)
	}
}
