package todo

import (
	"context"
	"fmt"

	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
)

// Import merges the items of the chosen sections into the list. Sections
// are read in document order regardless of argument order.
func (s *Store) Import(ctx context.Context, parsed model.ParsedStandup, sections ...model.Section) (int, error) {
	selected := make(map[model.Section]bool, len(sections))
	for _, section := range sections {
		selected[section] = true
	}

	var tasks []model.Task
	for _, section := range model.Sections {
		if selected[section] {
			tasks = append(tasks, standup.Items(parsed, section)...)
		}
	}
	return s.ImportTasks(ctx, tasks)
}

// ImportTasks adds tasks whose trimmed, case-folded text is not already in
// the list. New incomplete todos go after the existing incomplete ones and
// new completed todos after the existing completed ones. When nothing
// survives the list is left untouched and nothing is written.
func (s *Store) ImportTasks(ctx context.Context, tasks []model.Task) (int, error) {
	s.mu.Lock()
	defer s.unlock()

	seen := make(map[string]struct{}, len(s.todos)+len(tasks))
	for _, todo := range s.todos {
		seen[normalizeText(todo.Text)] = struct{}{}
	}

	now := s.now()
	var added []model.Todo
	for _, task := range tasks {
		key := normalizeText(task.Text)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		added = append(added, s.newTodo(task, now))
	}
	if len(added) == 0 {
		return 0, nil
	}

	merged := make([]model.Todo, 0, len(s.todos)+len(added))
	merged = append(merged, filterTodos(s.todos, false)...)
	merged = append(merged, filterTodos(added, false)...)
	merged = append(merged, filterTodos(s.todos, true)...)
	merged = append(merged, filterTodos(added, true)...)
	s.todos = merged
	s.notifyLocked()

	if err := s.persister.SaveTodos(ctx, s.todos); err != nil {
		return len(added), fmt.Errorf("save imported todos: %w", err)
	}
	return len(added), nil
}
