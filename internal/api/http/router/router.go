package router

import (
	"net/http"

	"github.com/notelace/notelace-server/internal/api/http/handler"
	"github.com/notelace/notelace-server/internal/api/http/middleware"
	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/service"
)

// Router wires handlers and middleware into the HTTP mux.
type Router struct {
	authService    *service.Auth
	pageService    *service.Page
	userService    *service.User
	contextManager model.ContextManager
	cookiePath     string
	cookieSecure   bool
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	pageService *service.Page,
	userService *service.User,
	contextManager model.ContextManager,
	cookiePath string,
	cookieSecure bool,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		pageService:    pageService,
		userService:    userService,
		contextManager: contextManager,
		cookiePath:     cookiePath,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

// Register builds the route table. Reads (pages, profiles, the home listing)
// are public; every mutation and invite operation requires a session cookie.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.cookiePath, r.cookieSecure, r.logger)
	pageHandler := handler.NewPage(r.pageService, r.contextManager, r.logger)
	userHandler := handler.NewUser(r.userService, r.logger)

	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)
	logging := middleware.NewLogging(r.logger)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/signout", authHandler.SignOut)
	mux.Handle("PUT /api/password", authenticate.Require(http.HandlerFunc(authHandler.UpdatePassword)))

	mux.Handle("GET /api/invite", authenticate.Require(http.HandlerFunc(authHandler.CreateInvite)))
	mux.Handle("POST /api/invite/{token}", authenticate.Require(http.HandlerFunc(authHandler.VisitInvite)))

	mux.HandleFunc("GET /api/users/{username}", userHandler.Profile)

	mux.HandleFunc("GET /api/pages", pageHandler.List)
	mux.HandleFunc("GET /api/pages/{owner}/{filename}", pageHandler.Get)
	mux.Handle("POST /api/pages/{owner}/{filename}", authenticate.Require(http.HandlerFunc(pageHandler.Create)))
	mux.Handle("PUT /api/pages/{owner}/{filename}", authenticate.Require(http.HandlerFunc(pageHandler.Update)))
	mux.Handle("DELETE /api/pages/{owner}/{filename}", authenticate.Require(http.HandlerFunc(pageHandler.Delete)))

	return logging.Handle(mux)
}
