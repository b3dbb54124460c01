// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package server exposes the blocked-domain and unblock flows over a small
// local HTTP API, plus Prometheus metrics.
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/blocked?window=24h&limit=500
//	GET  /api/rules
//	POST /api/unblock/preview   {"domains": ["www.netflix.com"]}
//	POST /api/unblock           {"domains": ["www.netflix.com"]}
//	POST /api/verify            {"domains": ["www.netflix.com"]}
package server

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/probe"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

const requestTimeout = 60 * time.Second

// Prober verifies domains over DNS. [*probe.Prober] implements it.
type Prober interface {
	Check(ctx context.Context, domains ...string) ([]probe.Result, error)
	FlushCache()
}

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on /api routes.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithLogger sets the logger. By default the server logs nothing.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRegistry registers the server's collectors with reg and serves reg
// on /metrics. By default a private registry is used.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.reg = reg
		}
	}
}

// WithProber enables POST /api/verify.
func WithProber(p Prober) Option {
	return func(s *Server) {
		s.prober = p
	}
}

// Server is the HTTP front end.
type Server struct {
	svc      *service.Service
	serverID string
	token    string
	prober   Prober
	log      *logrus.Logger
	reg      *prometheus.Registry

	requests   *prometheus.CounterVec
	rulesAdded prometheus.Counter
}

// New creates a [Server] operating on the DNS server profile serverID.
func New(svc *service.Service, serverID string, opts ...Option) *Server {
	s := &Server{svc: svc, serverID: serverID}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}

	s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dnsunblock_api_requests_total",
		Help: "HTTP API requests by route and status code.",
	}, []string{"endpoint", "code"})
	s.rulesAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dnsunblock_rules_added_total",
		Help: "Whitelist rules appended through the API.",
	})
	s.reg.MustRegister(s.requests, s.rulesAdded)
	return s
}

// Registry returns the registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.reg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Use(s.instrument, s.auth)
		api.Get("/blocked", s.blocked)
		api.Get("/rules", s.rules)
		api.Post("/unblock/preview", s.preview)
		api.Post("/unblock", s.unblock)
		api.Post("/verify", s.verify)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http api listening")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     status,
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("api request")
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		want := "Bearer " + s.token
		if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(want)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
