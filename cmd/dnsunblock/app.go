// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/config"
	"github.com/H0llyW00dzZ/dnsunblock/src/credstore"
	"github.com/H0llyW00dzZ/dnsunblock/src/probe"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	creds   credstore.Store
	closers []io.Closer
	reg     *prometheus.Registry
	client  *adguard.Client
	svc     *service.Service
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	serverID   string
	logLevel   string
}

func newApp(ctx context.Context, g globalFlags, stderr io.Writer) (*app, error) {
	path := g.configPath
	optional := path == ""
	if optional {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}
	if g.serverID != "" {
		cfg.ServerID = g.serverID
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		log: cfg.Logger(stderr),
		reg: prometheus.NewRegistry(),
	}

	if a.creds, err = a.openCredentials(ctx); err != nil {
		return nil, err
	}

	a.client = adguard.New(
		adguard.WithBaseURL(cfg.API.BaseURL),
		adguard.WithTimeout(cfg.API.Timeout),
		adguard.WithCredentials(a.creds),
		adguard.WithLogger(a.log),
		adguard.WithMetrics(adguard.NewMetrics(a.reg)),
	)
	a.svc = service.New(a.client,
		service.WithAnalyzer(cfg.Analyzer()),
		service.WithDeviceTTL(cfg.Devices.CacheTTL),
		service.WithDefaults(cfg.Query.Window, cfg.Query.Limit),
		service.WithLogger(a.log),
	)
	return a, nil
}

// openCredentials layers an in-memory store over the SQLite file when one
// is configured. Tokens from config or environment seed the durable store
// only while it is empty, so a refreshed token is not overwritten by a
// stale one on the next run.
func (a *app) openCredentials(ctx context.Context) (credstore.Store, error) {
	seed := credstore.Token{
		AccessToken:  a.cfg.API.AccessToken,
		RefreshToken: a.cfg.API.RefreshToken,
	}

	if a.cfg.Credentials.Path == "" {
		return credstore.NewMemory(seed), nil
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.Credentials.Path), 0o700); err != nil {
		return nil, err
	}
	db, err := credstore.OpenSQLite(a.cfg.Credentials.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db)

	if !seed.Empty() {
		if _, err := db.Current(ctx); errors.Is(err, credstore.ErrNoToken) {
			if err := db.Replace(ctx, seed); err != nil {
				return nil, err
			}
			a.log.WithField("path", a.cfg.Credentials.Path).Debug("credentials seeded")
		}
	}
	return credstore.NewLayered(credstore.NewMemory(credstore.Token{}), db), nil
}

func (a *app) prober() *probe.Prober {
	return probe.New(
		probe.WithResolvers(a.cfg.Resolvers()),
		probe.WithTimeout(a.cfg.Probe.Timeout),
		probe.WithLogger(a.log),
	)
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
