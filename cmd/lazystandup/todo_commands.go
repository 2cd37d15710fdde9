package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Joseda-hg/lazystandup/internal/model"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/Joseda-hg/lazystandup/internal/todo"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List todos, pending first",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a pending todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <todo>",
	Short: "Flip a todo between pending and done",
	Long:  "A todo is named by its position in 'list', its id, or a unique id prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var editCmd = &cobra.Command{
	Use:   "edit <todo> <text>",
	Short: "Replace a todo's text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm <todo>",
	Short:   "Delete a todo",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var moveCmd = &cobra.Command{
	Use:   "move <todo> <over>",
	Short: "Move a todo to the position of another",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge tasks from the latest standup into the list",
	Long: `Merge tasks from today's standup, or yesterday's when today has none.
Only Today is imported unless --section is given. Tasks already on the
list (same text, ignoring case) are skipped.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Replace the list with every task of the latest standup",
	Args:  cobra.NoArgs,
	RunE:  runReload,
}

var importSections []string

func init() {
	rootCmd.AddCommand(listCmd, addCmd, toggleCmd, editCmd, rmCmd, moveCmd, importCmd, reloadCmd)
	importCmd.Flags().StringSliceVar(&importSections, "section", []string{string(model.SectionToday)}, "sections to import (yesterday, today, blockers, backlog)")
	setFlagAliases(importCmd.Flags(), map[string]string{"sections": "section"})
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	todos := a.todos.Todos()
	if len(todos) == 0 {
		fmt.Fprintln(out, "no todos")
		return nil
	}
	for i, item := range todos {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		fmt.Fprintf(out, "%d. [%s] %s  (%s)\n", i+1, mark, item.Text, item.ID)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("todo text is required")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	created := a.todos.Add(cmd.Context(), text)
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", created.Text)
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := resolveTodoID(a.todos, args[0])
	if err != nil {
		return err
	}
	a.todos.Toggle(cmd.Context(), id)
	item, _ := a.todos.Get(id)
	state := "pending"
	if item.Completed {
		state = "done"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, item.Text)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("todo text is required")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := resolveTodoID(a.todos, args[0])
	if err != nil {
		return err
	}
	a.todos.Update(cmd.Context(), id, text)
	item, _ := a.todos.Get(id)
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", item.Text)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := resolveTodoID(a.todos, args[0])
	if err != nil {
		return err
	}
	item, _ := a.todos.Get(id)
	a.todos.Delete(cmd.Context(), id)
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", item.Text)
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	activeID, err := resolveTodoID(a.todos, args[0])
	if err != nil {
		return err
	}
	overID, err := resolveTodoID(a.todos, args[1])
	if err != nil {
		return err
	}
	a.todos.Reorder(cmd.Context(), activeID, overID)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	sections := make([]model.Section, 0, len(importSections))
	for _, name := range importSections {
		section, ok := model.ParseSection(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return fmt.Errorf("unknown section %q", name)
		}
		sections = append(sections, section)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.latest(cmd.Context())
	if err != nil {
		return fmt.Errorf("no standup for today or yesterday: %w", err)
	}

	added, err := a.todos.Import(cmd.Context(), standup.Parse(doc.Content), sections...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d todos from %s\n", added, doc.Filename)
	return nil
}

func runReload(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.todos.Reload(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d todos\n", len(a.todos.Todos()))
	return nil
}

// resolveTodoID accepts a 1-based list position, a full id or a unique id
// prefix.
func resolveTodoID(store *todo.Store, ref string) (string, error) {
	todos := store.Todos()
	if position, err := strconv.Atoi(ref); err == nil {
		if position < 1 || position > len(todos) {
			return "", fmt.Errorf("no todo at position %d", position)
		}
		return todos[position-1].ID, nil
	}

	var matches []string
	for _, item := range todos {
		if item.ID == ref {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no todo matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d todos", ref, len(matches))
	}
}
