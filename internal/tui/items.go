package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/jesseduffield/gocui"
)

// importState is the pending selection of tasks from a standup document.
type importState struct {
	filename string
	tasks    []model.StandupTask
	selected map[string]bool
	index    int
}

func formatTodo(item model.Todo) string {
	mark := "[ ]"
	if item.Completed {
		mark = "[x]"
	}
	return mark + " " + item.Text
}

func formatImportTask(task model.StandupTask, selected bool) string {
	mark := "[ ]"
	if selected {
		mark = "[x]"
	}
	status := ""
	if task.Completed {
		status = " (done)"
	}
	return fmt.Sprintf("%s %-9s %s%s", mark, task.Source, task.Text, status)
}

func (u *UI) startImport(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.resolver == nil {
		u.status = "no standup source configured"
		return nil
	}

	doc, err := latestDocument(context.Background(), u.resolver, u.now())
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			u.status = "no standup found for today or yesterday"
		} else {
			u.status = err.Error()
		}
		return nil
	}

	tasks := standup.Tasks(standup.Parse(doc.Content))
	if len(tasks) == 0 {
		u.status = "no tasks in " + doc.Filename
		return nil
	}
	u.importing = &importState{
		filename: doc.Filename,
		tasks:    tasks,
		selected: standup.DefaultSelection(tasks),
	}
	return nil
}

func (u *UI) showImport(gui *gocui.Gui) error {
	if u.importing == nil {
		return nil
	}
	view, err := u.centeredView(gui, viewImport, 60, min(len(u.importing.tasks)+1, 20))
	if err != nil {
		return err
	}
	view.Title = "Import from " + u.importing.filename
	view.Highlight = true
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.Clear()
	for _, task := range u.importing.tasks {
		fmt.Fprintln(view, formatImportTask(task, u.importing.selected[task.ID]))
	}
	view.SetCursor(0, u.importing.index)
	_, _ = gui.SetCurrentView(viewImport)
	return nil
}

func (u *UI) importDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.importing != nil {
		u.importing.index = clamp(u.importing.index+1, len(u.importing.tasks))
	}
	return nil
}

func (u *UI) importUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.importing != nil {
		u.importing.index = clamp(u.importing.index-1, len(u.importing.tasks))
	}
	return nil
}

func (u *UI) importToggle(_ *gocui.Gui, _ *gocui.View) error {
	if u.importing == nil || len(u.importing.tasks) == 0 {
		return nil
	}
	id := u.importing.tasks[u.importing.index].ID
	u.importing.selected[id] = !u.importing.selected[id]
	return nil
}

func (u *UI) submitImport(gui *gocui.Gui, _ *gocui.View) error {
	if u.importing == nil {
		return nil
	}
	state := u.importing
	u.importing = nil
	u.closeOverlay(gui, viewImport)

	added, err := u.todos.ImportTasks(context.Background(), standup.Selected(state.tasks, state.selected))
	if err != nil {
		u.status = err.Error()
	} else {
		u.status = fmt.Sprintf("imported %d todos from %s", added, state.filename)
	}
	u.refresh()
	return nil
}

func (u *UI) cancelImport(gui *gocui.Gui, _ *gocui.View) error {
	u.importing = nil
	u.closeOverlay(gui, viewImport)
	return nil
}
