// Package render converts page markdown into the HTML stored alongside it.
package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/notelace/notelace-server/internal/model"
)

// Markdown renders CommonMark with the common extensions (tables,
// strikethrough, autolinks) enabled.
type Markdown struct {
	md goldmark.Markdown
}

var _ model.Renderer = (*Markdown)(nil)

// NewMarkdown creates a Markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts markdown source to HTML.
func (r *Markdown) Render(markdown string) (string, error) {
	var buf strings.Builder
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
