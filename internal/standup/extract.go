package standup

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

const (
	markComplete   = "✅"
	markIncomplete = "❌"
)

// ParseStatusMarker strips the completion emoji from a bullet's text.
// ✅ is checked before ❌ and only the first occurrence of the matched
// emoji is removed, so a line carrying both keeps the other one.
func ParseStatusMarker(text string) (string, bool) {
	completed := false
	switch {
	case strings.Contains(text, markComplete):
		completed = true
		text = removeFirstMark(text, markComplete)
	case strings.Contains(text, markIncomplete):
		text = removeFirstMark(text, markIncomplete)
	}
	text = strings.TrimSpace(text)

	for _, mark := range []string{markComplete, markIncomplete} {
		if strings.HasPrefix(text, mark) {
			text = strings.TrimSpace(text[len(mark):])
			break
		}
	}

	return text, completed
}

// removeFirstMark drops the first mark and the whitespace that follows it.
func removeFirstMark(text, mark string) string {
	index := strings.Index(text, mark)
	if index < 0 {
		return text
	}
	rest := strings.TrimLeftFunc(text[index+len(mark):], unicode.IsSpace)
	return text[:index] + rest
}

// bulletText returns the text after the list marker, or false when the line
// is not a bullet.
func bulletText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !hasBulletMarker(trimmed) {
		return "", false
	}
	_, size := utf8.DecodeRuneInString(trimmed)
	return strings.TrimLeftFunc(trimmed[size:], unicode.IsSpace), true
}

// ExtractTasks reads status-bearing bullets from Yesterday/Today lines.
func ExtractTasks(lines []string) []model.Task {
	tasks := []model.Task{}
	for _, line := range lines {
		text, ok := bulletText(line)
		if !ok {
			continue
		}
		clean, completed := ParseStatusMarker(text)
		if clean == "" {
			continue
		}
		tasks = append(tasks, model.Task{Text: clean, Completed: completed})
	}
	return tasks
}

// ExtractItems reads plain bullets from Blockers/Backlog lines.
func ExtractItems(lines []string) []string {
	items := []string{}
	for _, line := range lines {
		text, ok := bulletText(line)
		if !ok {
			continue
		}
		clean, _ := ParseStatusMarker(text)
		if clean == "" {
			continue
		}
		items = append(items, clean)
	}
	return items
}
