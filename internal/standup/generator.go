package standup

import (
	"strings"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

// Generate renders todos as a standup document dated date. Completed and
// incomplete todos both go under Yesterday; incomplete ones are carried
// over to Today. Blockers and Backlog are always placeholders.
func Generate(todos []model.Todo, date time.Time) string {
	var completed, incomplete []model.Todo
	for _, todo := range todos {
		if todo.Completed {
			completed = append(completed, todo)
		} else {
			incomplete = append(incomplete, todo)
		}
	}

	var b strings.Builder
	b.WriteString("_" + DisplayDate(date) + "_\n\n")

	b.WriteString("Yesterday\n\n")
	for _, todo := range completed {
		b.WriteString("- " + todo.Text + " " + markComplete + "\n")
	}
	for _, todo := range incomplete {
		b.WriteString("- " + todo.Text + " " + markIncomplete + "\n")
	}
	if len(todos) == 0 {
		b.WriteString("- No tasks\n")
	}
	b.WriteString("\n")

	b.WriteString("Today\n\n")
	for _, todo := range incomplete {
		b.WriteString("- " + todo.Text + "\n")
	}
	if len(incomplete) == 0 {
		b.WriteString("- No tasks planned\n")
	}
	b.WriteString("\n")

	b.WriteString("Blockers\n\n")
	b.WriteString("- None\n\n")

	b.WriteString("Backlog\n\n")
	b.WriteString("- \n")

	return b.String()
}
