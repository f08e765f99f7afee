// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/authz"
	"github.com/handloom-labs/handloom/internal/config"
	"github.com/handloom-labs/handloom/internal/middleware"
)

// loginRateLimit is the budget for credential attempts per client IP.
const (
	loginRateLimit  = 5
	loginRateWindow = 5 * time.Minute
)

// Router assembles the HTTP surface: public auth endpoints, the
// protected resource routes behind the authenticator and the gate,
// and observability endpoints.
type Router struct {
	handler  *Handler
	authn    *auth.Authenticator
	guard    *authz.Guard
	policies PolicyReader
	security config.SecurityConfig
}

// NewRouter wires the route tree dependencies. policies backs the
// admin policy-inspection endpoint.
func NewRouter(handler *Handler, authn *auth.Authenticator, guard *authz.Guard, policies PolicyReader, security config.SecurityConfig) *Router {
	return &Router{
		handler:  handler,
		authn:    authn,
		guard:    guard,
		policies: policies,
		security: security,
	}
}

// Setup builds the chi route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if !rt.security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(rt.security.RateLimitReqs, rt.security.RateLimitWindow))
	}

	// Observability. Unauthenticated: liveness probes and the scraper
	// do not carry bearer tokens.
	r.Get("/api/health", rt.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Account endpoints. Public, with a strict per-IP budget on login
	// to slow credential stuffing.
	loginLimiter := middleware.NewIPRateLimiter(loginRateLimit, loginRateWindow)
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Post("/register", rt.handler.Register)
		r.With(loginLimiter.Middleware).Post("/login", rt.handler.Login)
	})

	// Everything else sits behind the authenticator and the gate, in
	// that order: the gate reads the Subject the authenticator attaches.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.authn.Middleware)
		r.Use(rt.guard.Middleware)

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", rt.handler.ProductList)
			r.Post("/", rt.handler.ProductCreate)
			r.Get("/{id}", rt.handler.ProductGet)
			r.Put("/{id}", rt.handler.ProductUpdate)
			r.Delete("/{id}", rt.handler.ProductDelete)
		})

		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", rt.handler.ProfileSelf)
			r.Post("/", rt.handler.ProfileUpsert)
		})

		r.Route("/api/profiles", func(r chi.Router) {
			r.Get("/{userID}", rt.handler.ProfileGet)
			r.Put("/{userID}", rt.handler.ProfileUpdate)
		})

		r.Post("/api/media/upload", rt.handler.MediaUpload)

		r.Get("/api/admin/policies", AdminPolicies(rt.policies))
	})

	return r
}
