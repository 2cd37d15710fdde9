package standup

import (
	"strings"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "January 2, 2006"
)

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(isoLayout)
}

func DisplayDate(t time.Time) string {
	return t.Format(displayLayout)
}

// Filename is the archive name of the document for an ISO date.
func Filename(isoDate string) string {
	return isoDate + ".md"
}

func ParseISODate(value string) (time.Time, error) {
	return time.ParseInLocation(isoLayout, strings.TrimSpace(value), time.Local)
}

// PreviousDay returns the calendar day before t.
func PreviousDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}
