package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	adapthttp "phishguard/internal/adapter/http"
	"phishguard/internal/adapter/memory"
	"phishguard/internal/adapter/postgres"
	"phishguard/internal/app"
	"phishguard/internal/config"
	"phishguard/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	cfg := config.Load()

	var users domain.UserRepository
	var sessions domain.SessionRepository
	var closer io.Closer

	if cfg.UseMemory {
		log.Println("using in-memory store; data will not survive a restart")
		m := memory.New()
		users = m
		sessions = memory.NewSessionRepo(m)
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required (or set MEMORY=1)")
		}
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		users = db
		sessions = postgres.NewSessionRepo(db)
		closer = db
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	authSvc := app.NewAuthService(users, sessions).WithSessionTTL(cfg.SessionTTL)
	registerSvc := app.NewRegisterService(users)
	profileSvc := app.NewProfileService(users)

	srv := adapthttp.New(authSvc, registerSvc, profileSvc, cfg.WebDir)
	if cfg.ForwardAuth {
		srv = srv.WithForwardAuth()
	}
	if cfg.OIDCEnabled() {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
		if err != nil {
			log.Fatalf("oidc provider: %v", err)
		}
		srv = srv.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDCClientID,
				ClientSecret: cfg.OIDCClientSecret,
				RedirectURL:  cfg.OIDCRedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
		})
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
