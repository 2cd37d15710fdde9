package todo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

func TestImportSkipsCaseInsensitiveDuplicates(t *testing.T) {
	persister := &memPersister{}
	store := newTestStore(t, persister)
	ctx := context.Background()
	existing := store.Add(ctx, "Fix bug")
	store.Toggle(ctx, existing.ID)
	saves := persister.saves

	added, err := store.Import(ctx, model.ParsedStandup{
		Today: []model.Task{{Text: "  fix BUG "}},
	}, model.SectionToday)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected nothing imported, got %d", added)
	}
	if persister.saves != saves {
		t.Fatalf("expected no write for an empty import")
	}
	if got := texts(store.Todos()); !reflect.DeepEqual(got, []string{"Fix bug"}) {
		t.Fatalf("unexpected todos %q", got)
	}
}

func TestImportMergeOrder(t *testing.T) {
	store := newTestStore(t, &memPersister{})
	ctx := context.Background()
	oldDone := store.Add(ctx, "old done")
	store.Add(ctx, "old open")
	store.Toggle(ctx, oldDone.ID)

	parsed := model.ParsedStandup{
		Yesterday: []model.Task{{Text: "new done", Completed: true}, {Text: "carry over"}},
		Today:     []model.Task{{Text: "plan"}, {Text: "Carry Over"}},
		Blockers:  []string{"waiting on review"},
		Backlog:   []string{"someday"},
	}

	added, err := store.Import(ctx, parsed, model.SectionBlockers, model.SectionToday, model.SectionYesterday)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 4 {
		t.Fatalf("expected 4 imported, got %d", added)
	}

	todos := store.Todos()
	assertPartitioned(t, todos)
	want := []string{"old open", "carry over", "plan", "waiting on review", "old done", "new done"}
	if got := texts(todos); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	newDone := todos[len(todos)-1]
	if newDone.CompletedAt == nil || !newDone.CompletedAt.Equal(fixedNow) {
		t.Fatalf("expected completedAt on imported completed todo")
	}
	if todos[1].CompletedAt != nil {
		t.Fatalf("expected no completedAt on imported incomplete todo")
	}
}

func TestImportNeverDuplicatesExistingText(t *testing.T) {
	store := newTestStore(t, &memPersister{})
	ctx := context.Background()
	store.Add(ctx, "alpha")
	store.Add(ctx, "beta")

	parsed := model.ParsedStandup{
		Today:   []model.Task{{Text: "ALPHA"}, {Text: "gamma"}, {Text: "beta "}},
		Backlog: []string{"Gamma", "delta"},
	}
	if _, err := store.Import(ctx, parsed, model.Sections...); err != nil {
		t.Fatalf("import: %v", err)
	}

	seen := map[string]bool{}
	for _, todo := range store.Todos() {
		key := normalizeText(todo.Text)
		if seen[key] {
			t.Fatalf("duplicate todo %q after import", todo.Text)
		}
		seen[key] = true
	}
	if got := texts(store.Todos()); !reflect.DeepEqual(got, []string{"alpha", "beta", "gamma", "delta"}) {
		t.Fatalf("unexpected todos %q", got)
	}
}

func TestImportWithNoSectionsIsNoop(t *testing.T) {
	persister := &memPersister{}
	store := newTestStore(t, persister)

	added, err := store.Import(context.Background(), model.ParsedStandup{Today: []model.Task{{Text: "x"}}})
	if err != nil || added != 0 {
		t.Fatalf("expected no-op, got %d, %v", added, err)
	}
	if persister.saves != 0 {
		t.Fatalf("expected no writes, got %d", persister.saves)
	}
}

func TestImportReturnsSaveError(t *testing.T) {
	persister := &memPersister{saveErr: errors.New("locked")}
	store := newTestStore(t, persister)

	added, err := store.ImportTasks(context.Background(), []model.Task{{Text: "x"}})
	if err == nil {
		t.Fatalf("expected save error to propagate")
	}
	if added != 1 {
		t.Fatalf("expected count of merged todos, got %d", added)
	}
}
