package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/db"
	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/todo"
)

var fixedNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, files map[string]string) (*Server, *todo.Store) {
	t.Helper()

	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	resolver := archive.NewResolver(archive.NewDir(dir), nil)
	store := todo.NewStore(db.NewStore(conn), todo.WithClock(func() time.Time { return fixedNow }))
	server := NewServer(store, resolver, nil)
	server.SetClock(func() time.Time { return fixedNow })
	return server, store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsTodosAndArchive(t *testing.T) {
	server, store := newTestServer(t, map[string]string{
		"2024-01-09.md": "Yesterday\n- a ✅\n",
	})
	ctx := context.Background()
	store.Add(ctx, "write report")
	done := store.Add(ctx, "ship fix")
	store.Toggle(ctx, done.ID)

	rec := do(t, server.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"write report", `class="done">ship fix`, `href="/standups/2024-01-09"`, "_January 10, 2024_"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected index to contain %q:\n%s", want, body)
		}
	}

	if rec := do(t, server.Handler(), http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestStandupRawAndRendered(t *testing.T) {
	content := "_January 9, 2024_\n\nYesterday\n\n- a ✅\n"
	server, _ := newTestServer(t, map[string]string{"2024-01-09.md": content})
	h := server.Handler()

	raw := do(t, h, http.MethodGet, "/standups/2024-01-09.md", "")
	if raw.Code != http.StatusOK || raw.Body.String() != content {
		t.Fatalf("unexpected raw response %d %q", raw.Code, raw.Body.String())
	}
	if ct := raw.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("unexpected content type %q", ct)
	}

	rendered := do(t, h, http.MethodGet, "/standups/2024-01-09", "")
	if rendered.Code != http.StatusOK || !strings.Contains(rendered.Body.String(), "<h2>Yesterday</h2>") {
		t.Fatalf("unexpected rendered response %d:\n%s", rendered.Code, rendered.Body.String())
	}

	if rec := do(t, h, http.MethodGet, "/standups/2024-01-08.md", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing date, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/standups/notadate.md", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestAPITodos(t *testing.T) {
	server, store := newTestServer(t, nil)
	h := server.Handler()

	created := do(t, h, http.MethodPost, "/api/todos", `{"text":"review https://github.com/acme/app/pull/7"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", created.Code, created.Body.String())
	}
	var todoItem model.Todo
	if err := json.Unmarshal(created.Body.Bytes(), &todoItem); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if todoItem.Text != "review [7](https://github.com/acme/app/pull/7)" {
		t.Fatalf("unexpected text %q", todoItem.Text)
	}

	if rec := do(t, h, http.MethodPost, "/api/todos", `{"text":"  "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank text, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/todos", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	list := do(t, h, http.MethodGet, "/api/todos", "")
	var todos []model.Todo
	if err := json.Unmarshal(list.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != store.Todos()[0].ID {
		t.Fatalf("unexpected list %+v", todos)
	}
}

func TestAPIStandup(t *testing.T) {
	server, _ := newTestServer(t, nil)
	rec := do(t, server.Handler(), http.MethodGet, "/api/standup", "")

	var payload struct {
		Date     string `json:"date"`
		Filename string `json:"filename"`
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Date != "2024-01-10" || payload.Filename != "2024-01-10.md" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if !strings.Contains(payload.Markdown, "- No tasks planned") {
		t.Fatalf("unexpected markdown %q", payload.Markdown)
	}
}

func TestAPIParse(t *testing.T) {
	server, _ := newTestServer(t, nil)
	h := server.Handler()

	rec := do(t, h, http.MethodPost, "/api/parse", "Yesterday\n- done ✅\nToday\n- next\nBlockers\n- none yet\n")
	body, _ := io.ReadAll(rec.Body)
	var parsed model.ParsedStandup
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(parsed.Yesterday) != 1 || !parsed.Yesterday[0].Completed || parsed.Yesterday[0].Text != "done" {
		t.Fatalf("unexpected yesterday %+v", parsed.Yesterday)
	}
	if len(parsed.Today) != 1 || parsed.Today[0].Text != "next" {
		t.Fatalf("unexpected today %+v", parsed.Today)
	}
	if len(parsed.Blockers) != 1 || parsed.Blockers[0] != "none yet" {
		t.Fatalf("unexpected blockers %+v", parsed.Blockers)
	}

	if rec := do(t, h, http.MethodGet, "/api/parse", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
