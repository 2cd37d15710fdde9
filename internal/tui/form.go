package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/jesseduffield/gocui"
)

type formState struct {
	todoID string
	value  string
}

type formEditor struct {
	ui *UI
}

func newFormState(item *model.Todo) *formState {
	if item == nil {
		return &formState{}
	}
	return &formState{todoID: item.ID, value: item.Text}
}

func (u *UI) addTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = newFormState(nil)
	return nil
}

func (u *UI) editTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	u.form = newFormState(selected)
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}
	view, err := u.centeredView(gui, viewForm, 60, 2)
	if err != nil {
		return err
	}
	view.Title = "New Todo"
	if u.form.todoID != "" {
		view.Title = "Edit Todo"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	text := strings.TrimSpace(u.form.value)
	if text == "" {
		u.status = "todo text is required"
		return nil
	}

	ctx := context.Background()
	if u.form.todoID == "" {
		u.todos.Add(ctx, text)
	} else if !u.todos.Update(ctx, u.form.todoID, text) {
		u.status = fmt.Sprintf("todo %s no longer exists", u.form.todoID)
	}

	u.form = nil
	u.closeOverlay(gui, viewForm)
	u.refresh()
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	u.closeOverlay(gui, viewForm)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	fmt.Fprintf(view, "> %s", u.form.value)
	view.SetCursor(len([]rune(u.form.value))+2, 0)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	ui.form.value = editValue(ui.form.value, key, ch, mod)
	ui.renderForm(view)
	return true
}

func editValue(value string, key gocui.Key, ch rune, mod gocui.Modifier) string {
	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(value)
		if len(runes) > 0 {
			value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		value += " "
	case gocui.KeyCtrlU:
		value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		value += string(ch)
	}
	return value
}
