package model

import "time"

type Section string

const (
	SectionYesterday Section = "yesterday"
	SectionToday     Section = "today"
	SectionBlockers  Section = "blockers"
	SectionBacklog   Section = "backlog"
)

// Sections lists every section in document order.
var Sections = []Section{SectionYesterday, SectionToday, SectionBlockers, SectionBacklog}

func ParseSection(value string) (Section, bool) {
	for _, section := range Sections {
		if string(section) == value {
			return section, true
		}
	}
	return "", false
}

type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type ParsedStandup struct {
	Yesterday []Task   `json:"yesterday"`
	Today     []Task   `json:"today"`
	Blockers  []string `json:"blockers"`
	Backlog   []string `json:"backlog"`
}

// StandupTask is a selectable Yesterday/Today task. ID is only meaningful
// within the parse result it was built from.
type StandupTask struct {
	ID     string  `json:"id"`
	Source Section `json:"source"`
	Task
}

type Todo struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
