// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package service wires the pure domain logic of package unblock to the
// provider API. It implements the two user-facing flows: listing recently
// blocked root domains, and whitelisting a set of domains after the user
// confirmed the summary.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/ttlcache"
	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

const (
	defaultWindow    = 24 * time.Hour
	defaultLimit     = 500
	defaultDeviceTTL = 6 * time.Hour

	// deviceCacheKey scopes the device list to the account the gateway
	// is authenticated as.
	deviceCacheKey = "account"
)

// Gateway is the subset of the provider API the service uses.
// [*adguard.Client] implements it.
type Gateway interface {
	QueryLogAll(ctx context.Context, p adguard.QueryLogParams, maxItems int) ([]adguard.QueryLogItem, error)
	DNSServer(ctx context.Context, id string) (adguard.DNSServer, error)
	UpdateUserRules(ctx context.Context, id string, rules adguard.UserRulesSettings) error
	Devices(ctx context.Context) ([]adguard.Device, error)
}

// Service runs the blocked-domain and unblock flows.
type Service struct {
	gw       Gateway
	analyzer *unblock.Analyzer
	log      *logrus.Logger
	now      func() time.Time

	defaultWindow time.Duration
	defaultLimit  int

	deviceTTL time.Duration
	devices   *ttlcache.Cache[string, map[string]string]

	mu      sync.Mutex
	servers map[string]*sync.Mutex
}

// New creates a [Service] on top of gw.
func New(gw Gateway, opts ...Option) *Service {
	s := &Service{
		gw:            gw,
		analyzer:      unblock.NewAnalyzer(),
		now:           time.Now,
		defaultWindow: defaultWindow,
		defaultLimit:  defaultLimit,
		deviceTTL:     defaultDeviceTTL,
		servers:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}
	s.devices = ttlcache.New[string, map[string]string](s.deviceTTL, ttlcache.WithClock(s.now))
	return s
}

// Analyzer returns the analyzer the service uses.
func (s *Service) Analyzer() *unblock.Analyzer {
	return s.analyzer
}

// serverLock returns the mutex serializing mutations of one server.
func (s *Service) serverLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.servers[id]
	if !ok {
		m = &sync.Mutex{}
		s.servers[id] = m
	}
	return m
}

// Rules returns the current user rule settings of a DNS server.
func (s *Service) Rules(ctx context.Context, serverID string) (adguard.UserRulesSettings, error) {
	if serverID == "" {
		return adguard.UserRulesSettings{}, ErrMissingServerID
	}
	srv, err := s.gw.DNSServer(ctx, serverID)
	if err != nil {
		return adguard.UserRulesSettings{}, err
	}
	return srv.Settings.UserRulesSettings, nil
}
