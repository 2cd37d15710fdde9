package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/markdown"
	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/Joseda-hg/lazystandup/internal/todo"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewPending = "pending"
	viewDone    = "done"
	viewPreview = "preview"
	viewForm    = "form"
	viewImport  = "import"
	viewHelp    = "help"
)

type UI struct {
	todos    *todo.Store
	resolver todo.Resolver
	now      func() time.Time

	pending []model.Todo
	done    []model.Todo

	selectedPending int
	selectedDone    int
	focus           string

	form         *formState
	formEditor   *formEditor
	importing    *importState
	helpActive   bool
	status       string
	previewWidth int
}

func newUI(todos *todo.Store, resolver todo.Resolver) *UI {
	ui := &UI{
		todos:    todos,
		resolver: resolver,
		now:      time.Now,
		focus:    viewPending,
	}
	ui.formEditor = &formEditor{ui: ui}
	ui.refresh()
	return ui
}

// Run shows the todo list until the user quits. now picks today's date;
// nil means time.Now.
func Run(todos *todo.Store, resolver todo.Resolver, now func() time.Time) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(todos, resolver)
	if now != nil {
		ui.now = now
	}
	gui.Mouse = true

	unsubscribe := todos.Subscribe(func([]model.Todo) {
		gui.Update(func(*gocui.Gui) error {
			ui.refresh()
			return nil
		})
	})
	defer unsubscribe()

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

type binding struct {
	view    string
	key     any
	handler func(*gocui.Gui, *gocui.View) error
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	bindings := []binding{
		{"", gocui.KeyCtrlC, u.quit},
		{"", 'q', u.quit},
		{"", 'r', u.reload},
		{"", 'a', u.addTodo},
		{"", 'e', u.editTodo},
		{"", 'd', u.deleteTodo},
		{"", 'x', u.toggleDone},
		{"", 'J', u.moveTodoDown},
		{"", 'K', u.moveTodoUp},
		{"", 'i', u.startImport},
		{"", 'S', u.saveStandup},
		{"", '?', u.toggleHelp},
		{"", gocui.KeyTab, u.switchFocus},
		{"", '1', u.focusPending},
		{"", '2', u.focusDone},
		{viewForm, gocui.KeyEnter, u.submitForm},
		{viewForm, gocui.KeyEsc, u.cancelForm},
		{viewImport, gocui.KeyArrowDown, u.importDown},
		{viewImport, 'j', u.importDown},
		{viewImport, gocui.KeyArrowUp, u.importUp},
		{viewImport, 'k', u.importUp},
		{viewImport, gocui.KeySpace, u.importToggle},
		{viewImport, gocui.KeyEnter, u.submitImport},
		{viewImport, gocui.KeyEsc, u.cancelImport},
		{viewHelp, gocui.KeyEsc, u.closeHelp},
		{viewHelp, 'q', u.closeHelp},
		{viewHelp, '?', u.closeHelp},
		{viewPreview, gocui.MouseWheelUp, u.scrollUp},
		{viewPreview, gocui.MouseWheelDown, u.scrollDown},
	}
	for _, name := range []string{viewPending, viewDone} {
		bindings = append(bindings,
			binding{name, gocui.KeyArrowDown, u.moveDown},
			binding{name, 'j', u.moveDown},
			binding{name, gocui.KeyArrowUp, u.moveUp},
			binding{name, 'k', u.moveUp},
		)
	}

	for _, b := range bindings {
		if err := gui.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}

	for _, name := range []string{viewPending, viewDone} {
		viewName := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewName, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, viewName, opts)
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-1, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	l := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX1 := l.leftWidth - 1
	rightX0 := min(leftX1+1, maxX-1)
	pendingY1 := min(bodyTop+l.pendingHeight-1, max(bodyBottom-3, bodyTop+1))

	pendingView, err := gui.SetView(viewPending, 0, bodyTop, leftX1, pendingY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		pendingView.Title = "1 Pending"
	}
	applyViewStyle(pendingView, u.focus == viewPending, true)
	renderTodoList(pendingView, u.pending, u.selectedPending, u.focus == viewPending)

	doneView, err := gui.SetView(viewDone, 0, pendingY1+1, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		doneView.Title = "2 Done"
	}
	applyViewStyle(doneView, u.focus == viewDone, true)
	renderTodoList(doneView, u.done, u.selectedDone, u.focus == viewDone)

	previewView, err := gui.SetView(viewPreview, rightX0, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		previewView.Title = "Next Standup"
		previewView.Wrap = true
	}
	applyViewStyle(previewView, false, false)
	u.previewWidth = maxX - rightX0 - 2
	u.renderPreview(previewView)

	if err := u.layoutOverlays(gui); err != nil {
		return err
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil
	return nil
}

func (u *UI) layoutOverlays(gui *gocui.Gui) error {
	overlays := []struct {
		name   string
		active bool
		show   func(*gocui.Gui) error
	}{
		{viewForm, u.form != nil, u.showForm},
		{viewImport, u.importing != nil, u.showImport},
		{viewHelp, u.helpActive, u.showHelp},
	}
	for _, overlay := range overlays {
		if !overlay.active {
			_ = gui.DeleteView(overlay.name)
			continue
		}
		if err := overlay.show(gui); err != nil {
			return err
		}
	}
	return nil
}

type layout struct {
	leftWidth     int
	pendingHeight int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width-2, 20)
	safeHeight := max(height, 8)

	leftWidth := safeWidth / 2
	if leftWidth < 26 {
		leftWidth = min(26, safeWidth)
	}

	pendingHeight := int(float64(safeHeight) * 0.6)
	if pendingHeight < 4 {
		pendingHeight = 4
	}
	return layout{leftWidth: leftWidth, pendingHeight: pendingHeight}
}

// refresh copies the store's lists and keeps selections in range.
func (u *UI) refresh() {
	u.pending = u.todos.Incomplete()
	u.done = u.todos.Completed()
	u.selectedPending = clamp(u.selectedPending, len(u.pending))
	u.selectedDone = clamp(u.selectedDone, len(u.done))
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	today := u.now()
	fmt.Fprintf(view, "LazyStandup | %s | %d pending | %d done", standup.DisplayDate(today), len(u.pending), len(u.done))
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | e edit | d delete | x done | J/K move | i import | S save | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderPreview(view *gocui.View) {
	view.Clear()
	fmt.Fprint(view, markdown.Terminal(max(u.previewWidth, 20), u.todos.Generate()))
}

func renderTodoList(view *gocui.View, todos []model.Todo, selected int, focused bool) {
	view.Clear()
	for i, item := range todos {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTodo(item))
	}
	if focused && len(todos) > 0 {
		view.SetCursor(0, min(selected, len(todos)-1))
	}
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)

	switch viewName {
	case viewPending:
		u.selectedPending = clamp(row, len(u.pending))
	case viewDone:
		u.selectedDone = clamp(row, len(u.done))
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) scrollUp(_ *gocui.Gui, view *gocui.View) error {
	if view != nil {
		view.ScrollUp(1)
	}
	return nil
}

func (u *UI) scrollDown(_ *gocui.Gui, view *gocui.View) error {
	if view != nil {
		view.ScrollDown(1)
	}
	return nil
}

func (u *UI) selectedTodo() *model.Todo {
	switch u.focus {
	case viewPending:
		if u.selectedPending >= 0 && u.selectedPending < len(u.pending) {
			return &u.pending[u.selectedPending]
		}
	case viewDone:
		if u.selectedDone >= 0 && u.selectedDone < len(u.done) {
			return &u.done[u.selectedDone]
		}
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.focus == viewPending {
		return u.setFocus(gui, viewDone)
	}
	return u.setFocus(gui, viewPending)
}

func (u *UI) focusPending(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewPending)
}

func (u *UI) focusDone(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewDone)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	u.setCurrentView(gui, name)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewPending:
		u.selectedPending = clamp(u.selectedPending+1, len(u.pending))
	case viewDone:
		u.selectedDone = clamp(u.selectedDone+1, len(u.done))
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewPending:
		u.selectedPending = clamp(u.selectedPending-1, len(u.pending))
	case viewDone:
		u.selectedDone = clamp(u.selectedDone-1, len(u.done))
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.todos.Reload(context.Background())
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) toggleDone(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	u.todos.Toggle(context.Background(), selected.ID)
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) deleteTodo(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTodo()
	if selected == nil {
		return nil
	}
	u.todos.Delete(context.Background(), selected.ID)
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) moveTodoDown(_ *gocui.Gui, _ *gocui.View) error {
	return u.moveTodo(1)
}

func (u *UI) moveTodoUp(_ *gocui.Gui, _ *gocui.View) error {
	return u.moveTodo(-1)
}

// moveTodo swaps the selected todo with its neighbour in the focused list.
func (u *UI) moveTodo(delta int) error {
	if u.inputActive() {
		return nil
	}
	list, selected := u.pending, &u.selectedPending
	if u.focus == viewDone {
		list, selected = u.done, &u.selectedDone
	}
	target := *selected + delta
	if *selected < 0 || *selected >= len(list) || target < 0 || target >= len(list) {
		return nil
	}
	if u.todos.Reorder(context.Background(), list[*selected].ID, list[target].ID) {
		*selected = target
	}
	u.refresh()
	return nil
}

func (u *UI) saveStandup(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	filename, err := u.todos.SaveAndArchive(context.Background(), u.todos.Generate())
	if err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = "saved " + filename
	u.refresh()
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	u.closeOverlay(gui, viewHelp)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	view, err := u.centeredView(gui, viewHelp, 60, 14)
	if err != nil {
		return err
	}
	view.Title = "Help"
	view.Wrap = true
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) centeredView(gui *gocui.Gui, name string, minWidth, height int) (*gocui.View, error) {
	maxX, maxY := gui.Size()
	width := max(minWidth, maxX/2)
	x0 := max((maxX-width)/2, 0)
	y0 := max((maxY-height)/2, 0)
	view, err := gui.SetView(name, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return nil, err
	}
	return view, nil
}

func (u *UI) closeOverlay(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(name)
	_, _ = gui.SetCurrentView(u.focus)
}

func (u *UI) setCurrentView(gui *gocui.Gui, name string) {
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.importing != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab or 1/2 switch between Pending and Done",
		"  j/k or arrows move selection | mouse click selects",
		"",
		"Todos:",
		"  a add | e edit | d delete | x toggle done",
		"  J/K move the selected todo down/up",
		"",
		"Standups:",
		"  i import from the latest standup (space toggles, enter imports)",
		"  S save the preview as today's standup and clear done todos",
		"  r reload from disk",
		"",
		"  ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}

func clamp(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func latestDocument(ctx context.Context, resolver todo.Resolver, now time.Time) (archive.Document, error) {
	return resolver.Latest(ctx, standup.ISODate(now), standup.ISODate(standup.PreviousDay(now)))
}
