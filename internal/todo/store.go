// Package todo owns the working todo list and reconciles it with standup
// documents.
package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/google/uuid"
)

// Persister stores the serialized todo list. LoadTodos reports found=false
// when nothing has been saved yet.
type Persister interface {
	LoadTodos(ctx context.Context) (todos []model.Todo, found bool, err error)
	SaveTodos(ctx context.Context, todos []model.Todo) error
}

// ErrNoSink is returned by SaveAndArchive when no archive is configured.
var ErrNoSink = errors.New("no standup archive configured")

// Resolver finds the most recent standup document.
type Resolver interface {
	Latest(ctx context.Context, today, yesterday string) (archive.Document, error)
}

type Store struct {
	mu    sync.Mutex
	todos []model.Todo

	persister Persister
	resolver  Resolver
	sink      archive.Sink
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	nextSub     int
	subscribers map[int]func([]model.Todo)
	changed     bool
}

type Option func(*Store)

func WithResolver(resolver Resolver) Option {
	return func(s *Store) { s.resolver = resolver }
}

func WithSink(sink archive.Sink) Option {
	return func(s *Store) { s.sink = sink }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func NewStore(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister:   persister,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
		subscribers: make(map[int]func([]model.Todo)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive a copy of the list after every change.
func (s *Store) Subscribe(fn func([]model.Todo)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTodos(s.todos)
}

func (s *Store) Completed() []model.Todo {
	return filterTodos(s.Todos(), true)
}

func (s *Store) Incomplete() []model.Todo {
	return filterTodos(s.Todos(), false)
}

func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index := s.indexOf(id); index >= 0 {
		return s.todos[index], true
	}
	return model.Todo{}, false
}

// Load restores the saved list. Without a saved list it bootstraps from the
// latest standup document; a corrupt record yields an empty list.
func (s *Store) Load(ctx context.Context) {
	todos, found, err := s.persister.LoadTodos(ctx)
	if err != nil {
		s.logger.Error("load todos: failed to read saved list", "error", err)
		s.mu.Lock()
		defer s.unlock()
		s.todos = []model.Todo{}
		s.notifyLocked()
		return
	}
	if !found {
		s.LoadFromLatestDocument(ctx)
		return
	}

	s.mu.Lock()
	defer s.unlock()
	s.todos = cloneTodos(todos)
	s.notifyLocked()
}

// Reload replaces the list with the tasks of the latest standup document.
// Tasks are not deduplicated, so an open todo listed under both Yesterday
// and Today comes back twice.
func (s *Store) Reload(ctx context.Context) {
	s.LoadFromLatestDocument(ctx)
}

// LoadFromLatestDocument replaces the list with every Yesterday and Today
// task from the most recent document, or an empty list when none exists.
func (s *Store) LoadFromLatestDocument(ctx context.Context) {
	s.mu.Lock()
	defer s.unlock()

	if s.resolver == nil {
		s.todos = []model.Todo{}
		s.saveLocked(ctx)
		return
	}

	now := s.now()
	doc, err := s.resolver.Latest(ctx, standup.ISODate(now), standup.ISODate(standup.PreviousDay(now)))
	if err != nil {
		if !errors.Is(err, archive.ErrNotFound) {
			s.logger.Error("load from latest standup: unexpected error", "error", err)
		}
		s.todos = []model.Todo{}
		s.saveLocked(ctx)
		return
	}

	parsed := standup.Parse(doc.Content)
	tasks := append(append([]model.Task(nil), parsed.Yesterday...), parsed.Today...)
	todos := make([]model.Todo, 0, len(tasks))
	for _, task := range tasks {
		todos = append(todos, s.newTodo(task, now))
	}

	s.todos = partition(todos)
	s.logger.Info("loaded todos from standup", "file", doc.Filename, "count", len(s.todos))
	s.saveLocked(ctx)
}

func (s *Store) Add(ctx context.Context, text string) model.Todo {
	s.mu.Lock()
	defer s.unlock()

	todo := model.Todo{
		ID:        s.newID(),
		Text:      AnnotateURLs(text),
		CreatedAt: s.now(),
	}

	index := len(s.todos)
	for i, existing := range s.todos {
		if existing.Completed {
			index = i
			break
		}
	}
	s.todos = append(s.todos, model.Todo{})
	copy(s.todos[index+1:], s.todos[index:])
	s.todos[index] = todo

	s.saveLocked(ctx)
	return todo
}

func (s *Store) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.unlock()

	index := s.indexOf(id)
	if index < 0 {
		return false
	}
	todo := &s.todos[index]
	todo.Completed = !todo.Completed
	if todo.Completed {
		completedAt := s.now()
		todo.CompletedAt = &completedAt
	} else {
		todo.CompletedAt = nil
	}

	s.todos = partition(s.todos)
	s.saveLocked(ctx)
	return true
}

func (s *Store) Update(ctx context.Context, id, text string) bool {
	s.mu.Lock()
	defer s.unlock()

	index := s.indexOf(id)
	if index < 0 {
		return false
	}
	s.todos[index].Text = AnnotateURLs(text)
	s.saveLocked(ctx)
	return true
}

func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.unlock()

	index := s.indexOf(id)
	if index < 0 {
		return false
	}
	s.todos = append(s.todos[:index], s.todos[index+1:]...)
	s.saveLocked(ctx)
	return true
}

// Reorder moves activeID to the position currently held by overID. It is a
// no-op when either id is unknown.
func (s *Store) Reorder(ctx context.Context, activeID, overID string) bool {
	s.mu.Lock()
	defer s.unlock()

	from := s.indexOf(activeID)
	to := s.indexOf(overID)
	if from < 0 || to < 0 {
		return false
	}

	moved := s.todos[from]
	todos := append(cloneTodos(s.todos[:from]), s.todos[from+1:]...)
	todos = append(todos[:to], append([]model.Todo{moved}, todos[to:]...)...)
	s.todos = todos

	s.saveLocked(ctx)
	return true
}

// Generate renders the current list as today's standup document.
func (s *Store) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return standup.Generate(s.todos, s.now())
}

// SaveAndArchive exports markdown as today's document and drops completed
// todos from the working list.
func (s *Store) SaveAndArchive(ctx context.Context, markdown string) (string, error) {
	s.mu.Lock()
	defer s.unlock()

	if s.sink == nil {
		return "", ErrNoSink
	}
	filename := standup.Filename(standup.ISODate(s.now()))
	if err := s.sink.Put(ctx, filename, []byte(markdown)); err != nil {
		return "", fmt.Errorf("export %s: %w", filename, err)
	}

	s.todos = filterTodos(s.todos, false)
	s.saveLocked(ctx)
	return filename, nil
}

func (s *Store) newTodo(task model.Task, now time.Time) model.Todo {
	todo := model.Todo{
		ID:        s.newID(),
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: now,
	}
	if task.Completed {
		completedAt := now
		todo.CompletedAt = &completedAt
	}
	return todo
}

func (s *Store) indexOf(id string) int {
	for i, todo := range s.todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := s.persister.SaveTodos(ctx, s.todos); err != nil {
		s.logger.Error("save todos: failed to write list", "error", err)
	}
	s.notifyLocked()
}

func (s *Store) notifyLocked() {
	s.changed = true
}

// unlock releases the store and then delivers pending change notifications,
// so subscribers may call back into the store.
func (s *Store) unlock() {
	if !s.changed {
		s.mu.Unlock()
		return
	}
	s.changed = false
	snapshot := cloneTodos(s.todos)
	fns := make([]func([]model.Todo), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cloneTodos(snapshot))
	}
}

// partition moves completed todos after incomplete ones, keeping the
// relative order inside each group.
func partition(todos []model.Todo) []model.Todo {
	return append(filterTodos(todos, false), filterTodos(todos, true)...)
}

func filterTodos(todos []model.Todo, completed bool) []model.Todo {
	result := make([]model.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.Completed == completed {
			result = append(result, todo)
		}
	}
	return result
}

func cloneTodos(todos []model.Todo) []model.Todo {
	return append([]model.Todo{}, todos...)
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
