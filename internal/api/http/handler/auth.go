package handler

import (
	"context"
	"net/http"

	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "session"

// AuthService defines account and invite operations.
type AuthService interface {
	SignUp(ctx context.Context, username, password, inviteToken string) error
	SignIn(ctx context.Context, username, password string) error
	UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error
	LinkCollaborator(ctx context.Context, visitor, inviteToken string) (string, error)
	IssueSession(username string) string
	ExpireSession() string
	IssueInvite(subject string) string
	ProfileLocator(username string) string
}

// Auth handles HTTP endpoints for accounts, sessions and invites.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	cookiePath     string
	cookieSecure   bool
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler. cookiePath scopes the session cookie;
// cookieSecure marks it Secure when the server terminates TLS.
func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	cookiePath string,
	cookieSecure bool,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		cookiePath:     cookiePath,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Invite   string `json:"invite"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type profileResponse struct {
	Profile string `json:"profile"`
}

type inviteResponse struct {
	Token string `json:"token"`
}

// SignUp creates an account from an invite and opens a session.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.authService.SignUp(r.Context(), req.Username, req.Password, req.Invite); err != nil {
		h.logger.Error("Auth handler: sign-up failed", "user", req.Username, "error", err.Error())
		writeError(w, err)
		return
	}

	h.setSession(w, h.authService.IssueSession(req.Username))
	writeJSON(w, http.StatusCreated, profileResponse{
		Profile: h.authService.ProfileLocator(req.Username),
	})
}

// SignIn verifies credentials and opens a session.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.authService.SignIn(r.Context(), req.Username, req.Password); err != nil {
		h.logger.Error("Auth handler: sign-in failed", "user", req.Username, "error", err.Error())
		writeError(w, err)
		return
	}

	h.setSession(w, h.authService.IssueSession(req.Username))
	w.WriteHeader(http.StatusNoContent)
}

// SignOut overwrites the session cookie with an already-expired token. The
// server keeps no session state, so there is nothing else to revoke.
func (h *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	h.setSession(w, h.authService.ExpireSession())
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePassword replaces the signed-in user's password.
func (h *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	username, _ := h.contextManager.GetUsernameFromContext(r.Context())

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), username, req.OldPassword, req.NewPassword); err != nil {
		h.logger.Error("Auth handler: password update failed", "user", username, "error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateInvite issues a durable invite token naming the signed-in user as
// the inviter.
func (h *Auth) CreateInvite(w http.ResponseWriter, r *http.Request) {
	username, _ := h.contextManager.GetUsernameFromContext(r.Context())

	writeJSON(w, http.StatusOK, inviteResponse{
		Token: h.authService.IssueInvite(username),
	})
}

// VisitInvite resolves an invite visited by the signed-in user, linking them
// as the inviter's collaborator.
func (h *Auth) VisitInvite(w http.ResponseWriter, r *http.Request) {
	username, _ := h.contextManager.GetUsernameFromContext(r.Context())

	locator, err := h.authService.LinkCollaborator(r.Context(), username, r.PathValue("token"))
	if err != nil {
		h.logger.Error("Auth handler: invite visit failed", "user", username, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Profile: locator})
}

func (h *Auth) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     h.cookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
