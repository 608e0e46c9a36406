// Package bbolt provides the BoltDB-backed entity store. Bolt gives exactly
// the transaction model the core needs: one writer at a time, MVCC snapshot
// readers, and byte-ordered buckets for the composite-key range scan.
package bbolt

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/storage"
)

var (
	usersBucket = []byte("users")
	pagesBucket = []byte("pages")
)

// keySep separates owner from filename in page keys. It sorts below every
// byte legal in a name, so byte order over the joined key equals tuple order
// over (owner, filename).
const keySep = 0x00

// Store is a bbolt-backed storage.Store.
type Store struct {
	db *bbolt.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) the database file at path and ensures both table
// buckets exist.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{usersBucket, pagesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// View runs fn against a read snapshot.
func (s *Store) View(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&tx{btx: btx})
	})
}

// Update runs fn in the single write transaction. A non-nil return from fn
// rolls everything back; commit happens only on success.
func (s *Store) Update(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&tx{btx: btx})
	})
}

type tx struct {
	btx *bbolt.Tx
}

func (t *tx) GetUser(name string) (model.User, error) {
	raw := t.btx.Bucket(usersBucket).Get([]byte(name))
	if raw == nil {
		return model.User{}, storage.ErrNotFound
	}
	user, err := decodeUser(name, raw)
	if err != nil {
		return model.User{}, fmt.Errorf("decode user %q: %w", name, err)
	}
	return user, nil
}

func (t *tx) PutUser(user model.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user %q: %w", user.Name, err)
	}
	return t.btx.Bucket(usersBucket).Put([]byte(user.Name), raw)
}

func (t *tx) GetPage(key model.PageKey) (model.Page, error) {
	raw := t.btx.Bucket(pagesBucket).Get(pageKey(key))
	if raw == nil {
		return model.Page{}, storage.ErrNotFound
	}
	page, err := decodePage(key, raw)
	if err != nil {
		return model.Page{}, fmt.Errorf("decode page %s/%s: %w", key.Owner, key.Filename, err)
	}
	return page, nil
}

func (t *tx) PutPage(page model.Page) error {
	raw, err := encodePage(page)
	if err != nil {
		return fmt.Errorf("encode page %s/%s: %w", page.Owner, page.Filename, err)
	}
	return t.btx.Bucket(pagesBucket).Put(pageKey(page.Key()), raw)
}

func (t *tx) DeletePage(key model.PageKey) error {
	return t.btx.Bucket(pagesBucket).Delete(pageKey(key))
}

func (t *tx) NextPage(after model.PageKey) (model.Page, bool, error) {
	c := t.btx.Bucket(pagesBucket).Cursor()
	seek := pageKey(after)

	k, v := c.Seek(seek)
	if k != nil && bytes.Equal(k, seek) {
		k, v = c.Next()
	}
	if k == nil {
		return model.Page{}, false, nil
	}

	key, err := splitPageKey(k)
	if err != nil {
		return model.Page{}, false, err
	}
	page, err := decodePage(key, v)
	if err != nil {
		return model.Page{}, false, fmt.Errorf("decode page %s/%s: %w", key.Owner, key.Filename, err)
	}
	return page, true, nil
}

func (t *tx) Pages(fn func(page model.Page) bool) error {
	c := t.btx.Bucket(pagesBucket).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		key, err := splitPageKey(k)
		if err != nil {
			return err
		}
		page, err := decodePage(key, v)
		if err != nil {
			return fmt.Errorf("decode page %s/%s: %w", key.Owner, key.Filename, err)
		}
		if !fn(page) {
			return nil
		}
	}
	return nil
}

func pageKey(key model.PageKey) []byte {
	k := make([]byte, 0, len(key.Owner)+1+len(key.Filename))
	k = append(k, key.Owner...)
	k = append(k, keySep)
	k = append(k, key.Filename...)
	return k
}

func splitPageKey(k []byte) (model.PageKey, error) {
	i := bytes.IndexByte(k, keySep)
	if i < 0 {
		return model.PageKey{}, fmt.Errorf("malformed page key %q", k)
	}
	return model.PageKey{Owner: string(k[:i]), Filename: string(k[i+1:])}, nil
}
