package model

import "slices"

// User is the aggregate stored per username. It is a plain value: storage
// hands out copies, mutations happen on the copy, and the copy is written
// back inside the same transaction that read it.
type User struct {
	Name          string
	PasswordHash  [32]byte
	Collaborators []string // sorted, unique
	OwnedFiles    []string // sorted, unique; mirrors existing page rows
}

// NewUser creates a user with no collaborators and no pages.
func NewUser(name string, passwordHash [32]byte) User {
	return User{Name: name, PasswordHash: passwordHash}
}

// CanEdit reports whether actor may mutate this user's pages. The check is
// always against the owner's collaborator set, never the actor's.
func (u User) CanEdit(actor string) bool {
	return actor == u.Name || u.HasCollaborator(actor)
}

// HasCollaborator reports whether name is in the collaborator set.
func (u User) HasCollaborator(name string) bool {
	_, ok := slices.BinarySearch(u.Collaborators, name)
	return ok
}

// AddCollaborator inserts name into the collaborator set.
func (u *User) AddCollaborator(name string) {
	u.Collaborators = insertSorted(u.Collaborators, name)
}

// OwnsFile reports whether filename is in the owned-files set.
func (u User) OwnsFile(filename string) bool {
	_, ok := slices.BinarySearch(u.OwnedFiles, filename)
	return ok
}

// AddFile inserts filename into the owned-files set. Idempotent.
func (u *User) AddFile(filename string) {
	u.OwnedFiles = insertSorted(u.OwnedFiles, filename)
}

// RemoveFile removes filename from the owned-files set.
func (u *User) RemoveFile(filename string) {
	if i, ok := slices.BinarySearch(u.OwnedFiles, filename); ok {
		u.OwnedFiles = slices.Delete(u.OwnedFiles, i, i+1)
	}
}

func insertSorted(set []string, v string) []string {
	i, ok := slices.BinarySearch(set, v)
	if ok {
		return set
	}
	return slices.Insert(set, i, v)
}

// ValidUsername reports whether name is 3-24 chars of [A-Za-z0-9_-].
func ValidUsername(name string) bool {
	return validName(name, 3, 24)
}

func validName(name string, min, max int) bool {
	if len(name) < min || len(name) > max {
		return false
	}
	for _, c := range []byte(name) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
