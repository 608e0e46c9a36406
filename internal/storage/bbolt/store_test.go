package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_UserRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	user := model.NewUser("alice", [32]byte{1, 2, 3})
	user.AddCollaborator("bob")
	user.AddFile("notes")

	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		return tx.PutUser(user)
	}))

	var got model.User
	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		var err error
		got, err = tx.GetUser("alice")
		return err
	}))
	assert.Equal(t, user, got)

	err := s.View(ctx, func(tx storage.Tx) error {
		_, err := tx.GetUser("nobody")
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_PageRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	page := model.Page{
		Owner:    "alice",
		Filename: "notes",
		Title:    "Notes",
		Markdown: "# hi",
		HTML:     "<h1>hi</h1>",
		Date:     1700000000,
	}

	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		return tx.PutPage(page)
	}))

	var got model.Page
	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		var err error
		got, err = tx.GetPage(page.Key())
		return err
	}))
	assert.Equal(t, page, got)

	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		return tx.DeletePage(page.Key())
	}))
	err := s.View(ctx, func(tx storage.Tx) error {
		_, err := tx.GetPage(page.Key())
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpdateAbortLeavesNoResidue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx storage.Tx) error {
		require.NoError(t, tx.PutUser(model.NewUser("alice", [32]byte{})))
		require.NoError(t, tx.PutPage(model.Page{Owner: "alice", Filename: "notes"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		_, err := tx.GetUser("alice")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = tx.GetPage(model.PageKey{Owner: "alice", Filename: "notes"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	}))
}

func TestStore_NextPageOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// "a-b" contains a legal name byte below '/'; tuple order must still
	// place all of "a"'s pages before any of "a-b"'s.
	keys := []model.PageKey{
		{Owner: "a", Filename: "x"},
		{Owner: "a", Filename: "y"},
		{Owner: "a-b", Filename: "m"},
		{Owner: "b", Filename: "a"},
	}
	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		for _, k := range keys {
			if err := tx.PutPage(model.Page{Owner: k.Owner, Filename: k.Filename}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		cur := keys[0]
		for _, want := range keys[1:] {
			next, ok, err := tx.NextPage(cur)
			require.NoError(t, err)
			require.True(t, ok, "expected a page after %v", cur)
			assert.Equal(t, want, next.Key())
			cur = next.Key()
		}

		_, ok, err := tx.NextPage(cur)
		require.NoError(t, err)
		assert.False(t, ok, "no page after the last key")
		return nil
	}))
}

func TestStore_NextPageSkipsMissingSeed(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		return tx.PutPage(model.Page{Owner: "bob", Filename: "z"})
	}))

	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		next, ok, err := tx.NextPage(model.PageKey{Owner: "alice", Filename: "a"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.PageKey{Owner: "bob", Filename: "z"}, next.Key())
		return nil
	}))
}

func TestStore_PagesIteration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		for _, k := range []model.PageKey{
			{Owner: "alice", Filename: "a"},
			{Owner: "alice", Filename: "b"},
			{Owner: "bob", Filename: "c"},
		} {
			if err := tx.PutPage(model.Page{Owner: k.Owner, Filename: k.Filename, Title: k.Filename}); err != nil {
				return err
			}
		}
		return nil
	}))

	var seen []model.PageKey
	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		return tx.Pages(func(p model.Page) bool {
			seen = append(seen, p.Key())
			return true
		})
	}))
	assert.Equal(t, []model.PageKey{
		{Owner: "alice", Filename: "a"},
		{Owner: "alice", Filename: "b"},
		{Owner: "bob", Filename: "c"},
	}, seen)

	// Early stop.
	count := 0
	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		return tx.Pages(func(model.Page) bool {
			count++
			return false
		})
	}))
	assert.Equal(t, 1, count)
}

func TestStore_CancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Update(ctx, func(tx storage.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	err = s.View(ctx, func(tx storage.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Durability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, func(tx storage.Tx) error {
		return tx.PutUser(model.NewUser("alice", [32]byte{9}))
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.View(ctx, func(tx storage.Tx) error {
		got, err := tx.GetUser("alice")
		require.NoError(t, err)
		assert.Equal(t, [32]byte{9}, got.PasswordHash)
		return nil
	}))
}
