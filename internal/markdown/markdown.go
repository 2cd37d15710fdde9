// Package markdown renders standup documents for terminals and browsers.
package markdown

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}

	htmlConverter = goldmark.New(goldmark.WithExtensions(extension.Linkify))
)

// Terminal formats a standup document for terminal output. When rendering
// fails the promoted markdown is returned unchanged.
func Terminal(width int, document string) string {
	value := standup.PromoteHeadings(strings.ReplaceAll(document, "\r\n", "\n"))
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	r := termRenderer(width)
	if r == nil {
		return value
	}
	rendered, err := safeRender(r, value)
	if err != nil {
		return value
	}
	return strings.TrimRight(rendered, "\n")
}

// HTML converts a standup document to an HTML fragment.
func HTML(document string) (string, error) {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(standup.PromoteHeadings(document)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func safeRender(r renderer, value string) (out string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			out, err = "", errRenderPanic
		}
	}()
	return r.Render(value)
}

var errRenderPanic = errors.New("markdown renderer panicked")

func termRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
