package model

// Renderer converts markdown source into HTML for storage in a page row.
type Renderer interface {
	Render(markdown string) (string, error)
}
