package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/notelace/notelace-server/internal/api/http/httpctx"
	"github.com/notelace/notelace-server/internal/api/http/router"
	"github.com/notelace/notelace-server/internal/config"
	"github.com/notelace/notelace-server/internal/credential"
	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
	"github.com/notelace/notelace-server/internal/render"
	"github.com/notelace/notelace-server/internal/server"
	"github.com/notelace/notelace-server/internal/service"
	"github.com/notelace/notelace-server/internal/storage/bbolt"
	"github.com/notelace/notelace-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := bbolt.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", "error", err, "path", cfg.Database.Path)
	}
	defer store.Close()

	// Sessions are signed with a fresh random secret so every session dies
	// with the process. Invite and password secrets come from config and
	// survive restarts.
	sessionSecret := make([]byte, 32)
	if _, err := rand.Read(sessionSecret); err != nil {
		logger.Fatal("failed to generate session secret", "error", err)
	}

	authService := service.NewAuth(
		store,
		token.NewCodec(sessionSecret),
		token.NewCodec([]byte(cfg.Secret.Invite)),
		credential.NewHasher([]byte(cfg.Secret.Password)),
		cfg.Site.BaseURL,
		logger.With("component", "auth"),
	)
	pageService := service.NewPage(store, render.NewMarkdown(), logger.With("component", "page"))
	userService := service.NewUser(store, logger.With("component", "user"))

	r := router.New(
		authService,
		pageService,
		userService,
		httpctx.NewManager(),
		cfg.Site.CookiePath,
		cfg.HTTP.EnableHTTPS,
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "site", cfg.Site.Title)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	// Bootstrap invite for an empty instance; anyone holding it can create
	// the first account within its short lifetime.
	logger.Info("root invite issued", "token", authService.IssueRootInvite())

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
