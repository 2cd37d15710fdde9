package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/standup"
)

// IndexDays is how far back Available looks by default.
const IndexDays = 30

type Document struct {
	Content  string
	Filename string
}

type Resolver struct {
	source Source
	logger *slog.Logger
}

func NewResolver(source Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Latest returns today's document, falling back to yesterday's. Errors for
// a single date are logged and treated as absence; ErrNotFound is returned
// when neither date resolves.
func (r *Resolver) Latest(ctx context.Context, today, yesterday string) (Document, error) {
	for _, date := range []string{today, yesterday} {
		doc, err := r.Fetch(ctx, date)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("fetch standup document failed", "date", date, "error", err)
		}
	}
	return Document{}, ErrNotFound
}

// Fetch looks up a single date.
func (r *Resolver) Fetch(ctx context.Context, date string) (Document, error) {
	filename := standup.Filename(date)
	data, err := r.source.Get(ctx, filename)
	if err != nil {
		return Document{}, err
	}
	if looksLikeHTML(data) {
		return Document{}, fmt.Errorf("%s: fallback page: %w", filename, ErrNotFound)
	}
	return Document{Content: string(data), Filename: filename}, nil
}

// Available returns the ISO dates with a document among today and the
// previous days-1 days, newest first.
func (r *Resolver) Available(ctx context.Context, today time.Time, days int) []string {
	if days <= 0 {
		days = IndexDays
	}
	dates := []string{}
	for i := 0; i < days; i++ {
		if ctx.Err() != nil {
			break
		}
		date := standup.ISODate(today.AddDate(0, 0, -i))
		if _, err := r.Fetch(ctx, date); err != nil {
			if !errors.Is(err, ErrNotFound) {
				r.logger.Debug("probe standup document failed", "date", date, "error", err)
			}
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// looksLikeHTML catches static servers that answer unknown paths with an
// index page instead of a 404.
func looksLikeHTML(data []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimSpace(data))
	return bytes.HasPrefix(trimmed, []byte("<!doctype")) || bytes.HasPrefix(trimmed, []byte("<html"))
}
