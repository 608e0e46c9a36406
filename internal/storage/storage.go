// Package storage defines the transactional entity store contract: two
// tables (users, pages) with snapshot-isolated reads and serialized write
// transactions. Every mutation that touches both tables must run inside one
// write transaction so the owned-files set and the page table can never be
// observed out of step.
package storage

import (
	"context"
	"errors"

	"github.com/notelace/notelace-server/internal/model"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Store runs transactions over the users and pages tables. View runs fn
// against a consistent read snapshot; Update runs fn in an exclusive write
// transaction that commits only if fn returns nil and aborts without residue
// otherwise.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the operation set available inside a transaction. Mutating calls
// fail when invoked from a read-only transaction. Records are exchanged by
// value: a Get hands out a copy, and a Put replaces the stored record with
// the caller's copy.
type Tx interface {
	GetUser(name string) (model.User, error)
	PutUser(user model.User) error

	GetPage(key model.PageKey) (model.Page, error)
	PutPage(page model.Page) error
	DeletePage(key model.PageKey) error

	// NextPage returns the first page strictly after key in (owner, filename)
	// order, crossing owner boundaries. ok is false past the last page.
	NextPage(after model.PageKey) (page model.Page, ok bool, err error)

	// Pages iterates all pages in key order until fn returns false.
	Pages(fn func(page model.Page) bool) error
}
