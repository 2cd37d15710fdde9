// Package standup reads and writes daily standup documents.
//
// A document is a list of free-form headings (Yesterday, Today, Blockers,
// Backlog) each followed by markdown bullets. Yesterday and Today bullets
// carry a ✅ or ❌ completion marker.
package standup

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

// Parse converts a standup document into its sections. It never fails; a
// missing section yields an empty list.
func Parse(document string) model.ParsedStandup {
	sections := Classify(strings.Split(document, "\n"))

	return model.ParsedStandup{
		Yesterday: ExtractTasks(sections[model.SectionYesterday]),
		Today:     ExtractTasks(sections[model.SectionToday]),
		Blockers:  ExtractItems(sections[model.SectionBlockers]),
		Backlog:   ExtractItems(sections[model.SectionBacklog]),
	}
}

// Tasks flattens Yesterday then Today into selectable tasks.
func Tasks(parsed model.ParsedStandup) []model.StandupTask {
	tasks := make([]model.StandupTask, 0, len(parsed.Yesterday)+len(parsed.Today))
	for index, task := range parsed.Yesterday {
		tasks = append(tasks, newStandupTask(model.SectionYesterday, index, task))
	}
	for index, task := range parsed.Today {
		tasks = append(tasks, newStandupTask(model.SectionToday, index, task))
	}
	return tasks
}

func newStandupTask(source model.Section, index int, task model.Task) model.StandupTask {
	return model.StandupTask{
		ID:     fmt.Sprintf("%s-%d", source, index),
		Source: source,
		Task:   task,
	}
}

// DefaultSelection returns the ids of every Today task.
func DefaultSelection(tasks []model.StandupTask) map[string]bool {
	selected := make(map[string]bool)
	for _, task := range tasks {
		if task.Source == model.SectionToday {
			selected[task.ID] = true
		}
	}
	return selected
}

// Selected returns the tasks whose ids are selected, in order.
func Selected(tasks []model.StandupTask, selected map[string]bool) []model.Task {
	result := make([]model.Task, 0, len(selected))
	for _, task := range tasks {
		if selected[task.ID] {
			result = append(result, task.Task)
		}
	}
	return result
}

// Items returns the section's entries as tasks. Blockers and Backlog items
// are never completed.
func Items(parsed model.ParsedStandup, section model.Section) []model.Task {
	switch section {
	case model.SectionYesterday:
		return append([]model.Task(nil), parsed.Yesterday...)
	case model.SectionToday:
		return append([]model.Task(nil), parsed.Today...)
	case model.SectionBlockers:
		return plainTasks(parsed.Blockers)
	case model.SectionBacklog:
		return plainTasks(parsed.Backlog)
	default:
		return nil
	}
}

func plainTasks(items []string) []model.Task {
	tasks := make([]model.Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, model.Task{Text: item})
	}
	return tasks
}
