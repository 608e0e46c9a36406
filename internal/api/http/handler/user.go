package handler

import (
	"context"
	"net/http"

	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
)

// UserService defines profile reads.
type UserService interface {
	Profile(ctx context.Context, username string) (model.Profile, error)
}

// User handles HTTP endpoints for public user profiles.
type User struct {
	userService UserService
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, logger *logger.Logger) *User {
	return &User{userService: userService, logger: logger}
}

type userProfileResponse struct {
	Name          string            `json:"name"`
	Collaborators []string          `json:"collaborators"`
	Pages         []pageRefResponse `json:"pages"`
}

// Profile returns a user's collaborators and owned pages.
func (h *User) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := h.userService.Profile(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := userProfileResponse{
		Name:          profile.Name,
		Collaborators: profile.Collaborators,
		Pages:         make([]pageRefResponse, 0, len(profile.Pages)),
	}
	if resp.Collaborators == nil {
		resp.Collaborators = []string{}
	}
	for _, ref := range profile.Pages {
		resp.Pages = append(resp.Pages, pageRefResponse{
			Owner:    ref.Owner,
			Filename: ref.Filename,
			Title:    ref.Title,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
