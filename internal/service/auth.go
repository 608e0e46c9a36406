package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notelace/notelace-server/internal/credential"
	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/storage"
	"github.com/notelace/notelace-server/internal/token"
)

// Token lifetimes. Session tokens are long-lived bearer cookies; invite
// tokens are capabilities, either the short bootstrap invite printed at
// startup or the durable links users hand out.
const (
	SessionTTL    = 10324800 * time.Second // ~119 days
	InviteTTL     = 7 * 24 * time.Hour
	RootInviteTTL = 15 * time.Minute
)

// Auth implements sign-up, sign-in, credential updates, and the invite
// protocol that builds the collaboration graph.
type Auth struct {
	store    storage.Store
	sessions *token.Codec
	invites  *token.Codec
	hasher   *credential.Hasher
	baseURL  string
	logger   *logger.Logger
}

// NewAuth creates the auth service. The session codec is keyed with the
// per-process random secret; the invite codec and hasher with configured
// secrets so invites and credentials survive restarts.
func NewAuth(
	store storage.Store,
	sessions *token.Codec,
	invites *token.Codec,
	hasher *credential.Hasher,
	baseURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		store:    store,
		sessions: sessions,
		invites:  invites,
		hasher:   hasher,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// SignUp creates a user from an invite capability. A non-root inviter gains
// the new user as a collaborator and vice versa (the one symmetric edge in
// the graph); everything happens in a single write transaction.
func (a *Auth) SignUp(ctx context.Context, username, password, inviteToken string) error {
	inviter, ok := a.invites.Verify(inviteToken)
	if !ok {
		return model.ErrInvalidInvite
	}
	if !model.ValidUsername(username) {
		return model.ErrInvalidUsername
	}

	user := model.NewUser(username, a.hasher.Hash(password))

	err := a.store.Update(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(username); err == nil {
			return model.ErrUserExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check username: %w", err)
		}

		if inviter != "" {
			inviterUser, err := tx.GetUser(inviter)
			if errors.Is(err, storage.ErrNotFound) {
				return model.ErrInvalidInvite
			}
			if err != nil {
				return fmt.Errorf("get inviter: %w", err)
			}
			inviterUser.AddCollaborator(username)
			if err := tx.PutUser(inviterUser); err != nil {
				return fmt.Errorf("update inviter: %w", err)
			}
			user.AddCollaborator(inviter)
		}

		return tx.PutUser(user)
	})
	if err != nil {
		return err
	}

	a.logger.Info("auth service: user signed up", "user", username, "inviter", inviter)
	return nil
}

// SignIn verifies the user's password. The caller issues the session token
// on success.
func (a *Auth) SignIn(ctx context.Context, username, password string) error {
	var user model.User
	err := a.store.View(ctx, func(tx storage.Tx) error {
		var err error
		user, err = tx.GetUser(username)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	return a.hasher.Verify(user.PasswordHash, password)
}

// UpdatePassword replaces the stored credential after re-verifying the old
// password, all inside one write transaction.
func (a *Auth) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	err := a.store.Update(ctx, func(tx storage.Tx) error {
		user, err := tx.GetUser(username)
		if errors.Is(err, storage.ErrNotFound) {
			return model.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		user.PasswordHash, err = a.hasher.Update(user.PasswordHash, oldPassword, newPassword)
		if err != nil {
			return err
		}
		return tx.PutUser(user)
	})
	if err != nil {
		return err
	}

	a.logger.Info("auth service: password updated", "user", username)
	return nil
}

// LinkCollaborator resolves an invite link visited by an authenticated user.
// Visiting your own invite (or a root invite) grants nothing and resolves to
// your own profile. Otherwise the visitor is added to the inviter's
// collaborator set only; the inverse edge is not created, so the visitor can
// edit the inviter's pages but not the other way around.
func (a *Auth) LinkCollaborator(ctx context.Context, visitor, inviteToken string) (string, error) {
	inviter, ok := a.invites.Verify(inviteToken)
	if !ok {
		return "", model.ErrInvalidInvite
	}
	if inviter == "" || inviter == visitor {
		return a.ProfileLocator(visitor), nil
	}

	err := a.store.Update(ctx, func(tx storage.Tx) error {
		inviterUser, err := tx.GetUser(inviter)
		if errors.Is(err, storage.ErrNotFound) {
			return model.ErrInvalidInvite
		}
		if err != nil {
			return fmt.Errorf("get inviter: %w", err)
		}
		inviterUser.AddCollaborator(visitor)
		return tx.PutUser(inviterUser)
	})
	if err != nil {
		return "", err
	}

	a.logger.Info("auth service: collaborator linked", "inviter", inviter, "collaborator", visitor)
	return a.ProfileLocator(inviter), nil
}

// IssueSession creates a session token for username.
func (a *Auth) IssueSession(username string) string {
	return a.sessions.Issue(username, SessionTTL)
}

// ExpireSession creates an already-expired session token. Sending it to the
// client overwrites any stored session with a credential that fails the
// expiry check.
func (a *Auth) ExpireSession() string {
	return a.sessions.Issue("", -time.Second)
}

// VerifySession resolves a session token to its username. The empty subject
// is reserved for invites and never names a session.
func (a *Auth) VerifySession(tok string) (string, bool) {
	username, ok := a.sessions.Verify(tok)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// IssueInvite creates a durable invite capability naming subject as the
// inviter. Invites are not stored and cannot be revoked; they expire.
func (a *Auth) IssueInvite(subject string) string {
	return a.invites.Issue(subject, InviteTTL)
}

// IssueRootInvite creates the short-lived bootstrap invite with no inviter,
// letting the first user join an empty instance.
func (a *Auth) IssueRootInvite() string {
	return a.invites.Issue("", RootInviteTTL)
}

// ProfileLocator returns the canonical locator of a user's profile.
func (a *Auth) ProfileLocator(username string) string {
	return a.baseURL + "@" + username
}
