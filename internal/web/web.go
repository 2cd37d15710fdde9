package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/markdown"
	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/Joseda-hg/lazystandup/internal/todo"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	indexTemplate   = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))
	standupTemplate = template.Must(template.ParseFS(templateFS, "templates/standup.tmpl"))
)

const maxParseBody = 1 << 20

type Server struct {
	todos    *todo.Store
	resolver *archive.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(todos *todo.Store, resolver *archive.Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{todos: todos, resolver: resolver, logger: logger, now: time.Now}
}

// SetClock overrides the time used to pick today's date.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/standups/", s.standupHandler)
	mux.HandleFunc("/api/todos", s.apiTodosHandler)
	mux.HandleFunc("/api/standup", s.apiStandupHandler)
	mux.HandleFunc("/api/parse", s.apiParseHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		Dates      []string
		Incomplete []model.Todo
		Completed  []model.Todo
		Preview    string
	}{
		Dates:      s.resolver.Available(r.Context(), s.now(), archive.IndexDays),
		Incomplete: s.todos.Incomplete(),
		Completed:  s.todos.Completed(),
		Preview:    s.todos.Generate(),
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

// standupHandler serves /standups/<date>.md as stored and /standups/<date>
// rendered to HTML.
func (s *Server) standupHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/standups/"), "/")
	raw := strings.HasSuffix(name, ".md")
	date := strings.TrimSuffix(name, ".md")
	if _, err := standup.ParseISODate(date); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q", date))
		return
	}

	doc, err := s.resolver.Fetch(r.Context(), date)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Warn("fetch standup", "date", date, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	if raw {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(doc.Content))
		return
	}

	body, err := markdown.HTML(doc.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := struct {
		Date     string
		Filename string
		Body     template.HTML
	}{Date: date, Filename: doc.Filename, Body: template.HTML(body)}

	if err := standupTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiTodosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.todos.Todos())
	case http.MethodPost:
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if strings.TrimSpace(payload.Text) == "" {
			writeError(w, http.StatusBadRequest, fmt.Errorf("text is required"))
			return
		}
		created := s.todos.Add(r.Context(), payload.Text)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiStandupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	today := s.now()
	writeJSON(w, struct {
		Date     string `json:"date"`
		Filename string `json:"filename"`
		Markdown string `json:"markdown"`
	}{
		Date:     standup.ISODate(today),
		Filename: standup.Filename(standup.ISODate(today)),
		Markdown: s.todos.Generate(),
	})
}

func (s *Server) apiParseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxParseBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, standup.Parse(string(body)))
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
