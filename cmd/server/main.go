// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package main is the entry point for the Handloom marketplace server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML file,
//     environment variables), validated before anything else starts
//  2. Logging: zerolog, JSON by default
//  3. Resource store: BadgerDB for users, products, and profiles
//  4. Policy decision point: Casbin enforcer loaded exactly once; a
//     load failure is fatal, the process must not serve without a
//     policy table
//  5. Object storage (optional): S3 client for media uploads
//  6. HTTP server: chi route tree with authentication, the policy
//     gate, rate limiting, and Prometheus metrics
//
// Shutdown is graceful on SIGINT and SIGTERM: the listener stops
// accepting connections, in-flight requests get the configured
// timeout to finish, then the database closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/handloom-labs/handloom/internal/api"
	"github.com/handloom-labs/handloom/internal/audit"
	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/authz"
	"github.com/handloom-labs/handloom/internal/config"
	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/objstore"
	"github.com/handloom-labs/handloom/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger: config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("storage_enabled", cfg.Storage.Enabled).
		Msg("Configuration loaded")

	st, err := store.Open(store.Options{
		Path:     cfg.Database.Path,
		InMemory: cfg.Database.InMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open resource store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing resource store")
		}
	}()

	// Force the one-time policy load now. Serving without a loaded
	// table is not an option, and failing here beats failing on the
	// first authorized request.
	provider := authz.DefaultProvider(&cfg.Security.Casbin)
	enforcer, err := provider.Get()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load policy table")
	}
	logging.Info().Int("rules", len(enforcer.Policy())).Msg("Policy table loaded")

	tokens, err := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	var media objstore.Store
	if cfg.Storage.Enabled {
		s3store, err := objstore.New(objstore.Config{
			Bucket:     cfg.Storage.Bucket,
			Region:     cfg.Storage.Region,
			Endpoint:   cfg.Storage.Endpoint,
			PresignTTL: cfg.Storage.PresignTTL,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		media = s3store
		logging.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage enabled")
	} else {
		logging.Info().Msg("Object storage disabled - media uploads unavailable")
	}

	recorder := audit.NewLogRecorder()
	handler := api.NewHandler(st.Users, st.Products, st.Profiles, tokens, media, recorder)
	authn := auth.NewAuthenticator(tokens, recorder)
	guard := authz.NewGuard(enforcer, authz.DefaultBypasses(), recorder)
	router := api.NewRouter(handler, authn, guard, enforcer, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("Server error")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}
