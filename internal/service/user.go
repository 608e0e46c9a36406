package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/storage"
)

// User serves public profile reads.
type User struct {
	store  storage.Store
	logger *logger.Logger
}

// NewUser creates the user service.
func NewUser(store storage.Store, logger *logger.Logger) *User {
	return &User{store: store, logger: logger}
}

// Profile returns a user's collaborators and owned pages with their titles,
// read from a single snapshot.
func (s *User) Profile(ctx context.Context, username string) (model.Profile, error) {
	var profile model.Profile
	err := s.store.View(ctx, func(tx storage.Tx) error {
		user, err := tx.GetUser(username)
		if errors.Is(err, storage.ErrNotFound) {
			return model.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		profile = model.Profile{
			Name:          user.Name,
			Collaborators: user.Collaborators,
		}
		for _, filename := range user.OwnedFiles {
			page, err := tx.GetPage(model.PageKey{Owner: username, Filename: filename})
			if err != nil {
				// The owned-files set mirrors the page table; a miss here is
				// a consistency fault, not a user error.
				continue
			}
			profile.Pages = append(profile.Pages, model.PageRef{
				Owner:    username,
				Filename: filename,
				Title:    page.Title,
			})
		}
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}
