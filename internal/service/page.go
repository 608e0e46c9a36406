package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/storage"
)

// placeholderTitle is the title of a freshly created page.
const placeholderTitle = "Untitled"

// Page implements permission-checked page mutations. Every mutation touches
// the page row and the owner's owned-files set in the same write transaction
// so the two can never diverge.
type Page struct {
	store    storage.Store
	renderer model.Renderer
	logger   *logger.Logger
	now      func() time.Time
}

// NewPage creates the page service.
func NewPage(store storage.Store, renderer model.Renderer, logger *logger.Logger) *Page {
	return &Page{
		store:    store,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Create inserts an empty page under owner. actor must be the owner or one
// of the owner's collaborators.
func (s *Page) Create(ctx context.Context, actor, owner, filename string) error {
	if actor == "" {
		return model.ErrPermissionDenied
	}
	if !model.ValidFilename(filename) {
		return model.ErrInvalidFilename
	}

	html, err := s.renderer.Render("")
	if err != nil {
		return err
	}
	page := model.Page{
		Owner:    owner,
		Filename: filename,
		Title:    placeholderTitle,
		HTML:     html,
		Date:     s.now().Unix(),
	}

	err = s.store.Update(ctx, func(tx storage.Tx) error {
		ownerUser, err := s.ownerForEdit(tx, owner, actor)
		if err != nil {
			return err
		}

		if _, err := tx.GetPage(page.Key()); err == nil {
			return model.ErrPageAlreadyExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check page: %w", err)
		}

		ownerUser.AddFile(filename)
		if err := tx.PutUser(ownerUser); err != nil {
			return fmt.Errorf("update owner: %w", err)
		}
		return tx.PutPage(page)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page service: page created", "owner", owner, "file", filename, "actor", actor)
	return nil
}

// Update replaces a page's content, re-rendering the HTML and refreshing the
// timestamp. Re-inserting the filename into the owner's set is idempotent.
func (s *Page) Update(ctx context.Context, actor, owner, filename, title, markdown string) error {
	if actor == "" {
		return model.ErrPermissionDenied
	}

	html, err := s.renderer.Render(markdown)
	if err != nil {
		return err
	}
	page := model.Page{
		Owner:    owner,
		Filename: filename,
		Title:    title,
		Markdown: markdown,
		HTML:     html,
		Date:     s.now().Unix(),
	}

	err = s.store.Update(ctx, func(tx storage.Tx) error {
		ownerUser, err := s.ownerForEdit(tx, owner, actor)
		if err != nil {
			return err
		}

		if _, err := tx.GetPage(page.Key()); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return model.ErrPageNotFound
			}
			return fmt.Errorf("get page: %w", err)
		}

		ownerUser.AddFile(filename)
		if err := tx.PutUser(ownerUser); err != nil {
			return fmt.Errorf("update owner: %w", err)
		}
		return tx.PutPage(page)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page service: page updated", "owner", owner, "file", filename, "actor", actor)
	return nil
}

// Delete removes a page row and its owned-files entry atomically. Deleting a
// page that does not exist reports ErrPageNotFound.
func (s *Page) Delete(ctx context.Context, actor, owner, filename string) error {
	if actor == "" {
		return model.ErrPermissionDenied
	}

	key := model.PageKey{Owner: owner, Filename: filename}
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		ownerUser, err := s.ownerForEdit(tx, owner, actor)
		if err != nil {
			return err
		}

		if _, err := tx.GetPage(key); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return model.ErrPageNotFound
			}
			return fmt.Errorf("get page: %w", err)
		}

		ownerUser.RemoveFile(filename)
		if err := tx.PutUser(ownerUser); err != nil {
			return fmt.Errorf("update owner: %w", err)
		}
		return tx.DeletePage(key)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page service: page deleted", "owner", owner, "file", filename, "actor", actor)
	return nil
}

// Get reads a page and, when one exists, a reference to the next page in
// (owner, filename) order, for "next page" navigation.
func (s *Page) Get(ctx context.Context, owner, filename string) (model.Page, *model.PageRef, error) {
	var (
		page model.Page
		next *model.PageRef
	)
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		page, err = tx.GetPage(model.PageKey{Owner: owner, Filename: filename})
		if errors.Is(err, storage.ErrNotFound) {
			return model.ErrPageNotFound
		}
		if err != nil {
			return fmt.Errorf("get page: %w", err)
		}

		nextPage, ok, err := tx.NextPage(page.Key())
		if err != nil {
			return fmt.Errorf("scan next page: %w", err)
		}
		if ok {
			next = &model.PageRef{Owner: nextPage.Owner, Filename: nextPage.Filename, Title: nextPage.Title}
		}
		return nil
	})
	if err != nil {
		return model.Page{}, nil, err
	}
	return page, next, nil
}

// List returns every page as a listing reference, in key order. One read
// snapshot serves the whole listing.
func (s *Page) List(ctx context.Context) ([]model.PageRef, error) {
	var refs []model.PageRef
	err := s.store.View(ctx, func(tx storage.Tx) error {
		return tx.Pages(func(p model.Page) bool {
			refs = append(refs, model.PageRef{Owner: p.Owner, Filename: p.Filename, Title: p.Title})
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return refs, nil
}

func (s *Page) ownerForEdit(tx storage.Tx, owner, actor string) (model.User, error) {
	ownerUser, err := tx.GetUser(owner)
	if errors.Is(err, storage.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get owner: %w", err)
	}
	if !ownerUser.CanEdit(actor) {
		return model.User{}, model.ErrPermissionDenied
	}
	return ownerUser, nil
}
