package model

// PageKey identifies a page by its composite (owner, filename) key.
type PageKey struct {
	Owner    string
	Filename string
}

// Page is a stored page row. Date is Unix seconds and is refreshed on every
// update, matching the creation/update semantics of the page table.
type Page struct {
	Owner    string
	Filename string
	Title    string
	Markdown string
	HTML     string
	Date     int64
}

// Key returns the composite key of the page.
func (p Page) Key() PageKey {
	return PageKey{Owner: p.Owner, Filename: p.Filename}
}

// PageRef is a listing entry: enough to link to a page without its body.
type PageRef struct {
	Owner    string
	Filename string
	Title    string
}

// Profile is the public view of a user: who can edit their pages and what
// pages they own.
type Profile struct {
	Name          string
	Collaborators []string
	Pages         []PageRef
}

// ValidFilename reports whether name is 1-120 chars of [A-Za-z0-9_-].
func ValidFilename(name string) bool {
	return validName(name, 1, 120)
}
