package standup

import (
	"strings"
	"unicode"

	"github.com/Joseda-hg/lazystandup/internal/model"
)

type headingRule struct {
	match   func(heading string) bool
	section model.Section
}

// headingRules is checked in order; the first match wins. Headings are
// lower-cased with leading '#' markers removed before matching.
var headingRules = []headingRule{
	{match: containsAny("yesterday", "completed"), section: model.SectionYesterday},
	{match: func(h string) bool { return h == "today" || strings.Contains(h, "working on") }, section: model.SectionToday},
	{match: containsAny("blocker"), section: model.SectionBlockers},
	{match: containsAny("backlog"), section: model.SectionBacklog},
}

func containsAny(keywords ...string) func(string) bool {
	return func(heading string) bool {
		for _, keyword := range keywords {
			if strings.Contains(heading, keyword) {
				return true
			}
		}
		return false
	}
}

// Classify assigns document lines to sections. Lines before the first
// recognized heading, blank lines and unrecognized headings are dropped.
// Stored lines are kept verbatim.
func Classify(lines []string) map[model.Section][]string {
	result := make(map[model.Section][]string, len(model.Sections))
	var current model.Section

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isHeadingCandidate(trimmed) {
			if section, ok := ClassifyHeading(trimmed); ok {
				current = section
			}
			continue
		}

		if current != "" {
			result[current] = append(result[current], line)
		}
	}

	return result
}

// ClassifyHeading reports which section a heading line opens.
func ClassifyHeading(heading string) (model.Section, bool) {
	normalized := normalizeHeading(heading)
	for _, rule := range headingRules {
		if rule.match(normalized) {
			return rule.section, true
		}
	}
	return "", false
}

func normalizeHeading(heading string) string {
	lower := strings.ToLower(strings.TrimSpace(heading))
	if strings.HasPrefix(lower, "#") {
		lower = strings.TrimLeftFunc(strings.TrimLeft(lower, "#"), unicode.IsSpace)
	}
	return lower
}

func isHeadingCandidate(trimmed string) bool {
	return !hasBulletMarker(trimmed) && !strings.HasPrefix(trimmed, "_")
}

func hasBulletMarker(trimmed string) bool {
	return strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "•")
}

// PromoteHeadings rewrites plain section headings as "## " markdown
// headings so the document renders with structure. Other lines are kept.
func PromoteHeadings(document string) string {
	lines := strings.Split(document, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isHeadingCandidate(trimmed) || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if _, ok := ClassifyHeading(trimmed); ok {
			lines[i] = "## " + trimmed
		}
	}
	return strings.Join(lines, "\n")
}
