package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notelace/notelace-server/internal/credential"
	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/render"
	"github.com/notelace/notelace-server/internal/storage/bbolt"
	"github.com/notelace/notelace-server/internal/token"
)

type fixture struct {
	store *bbolt.Store
	auth  *Auth
	page  *Page
	user  *User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := bbolt.Open(t.TempDir() + "/notelace.db")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	log := logger.New(0)
	auth := NewAuth(
		store,
		token.NewCodec([]byte("session-secret")),
		token.NewCodec([]byte("invite-secret")),
		credential.NewHasher([]byte("password-secret")),
		"https://notes.example/",
		log,
	)
	return &fixture{
		store: store,
		auth:  auth,
		page:  NewPage(store, render.NewMarkdown(), log),
		user:  NewUser(store, log),
	}
}

// signUpRoot creates a user through a fresh root invite.
func (f *fixture) signUpRoot(t *testing.T, username, password string) {
	t.Helper()
	require.NoError(t, f.auth.SignUp(context.Background(), username, password, f.auth.IssueRootInvite()))
}

func (f *fixture) collaborators(t *testing.T, username string) []string {
	t.Helper()
	profile, err := f.user.Profile(context.Background(), username)
	require.NoError(t, err)
	return profile.Collaborators
}
