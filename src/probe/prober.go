// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/ttlcache"
)

// Default configuration values.
const (
	defaultTimeout     = 5 * time.Second
	defaultRetries     = 2
	defaultCacheTTL    = 30 * time.Second
	defaultConcurrency = 16
	defaultEDNS0Size   = 1232
)

// DefaultResolvers are the public AdGuard DNS resolvers. They apply the
// provider's default filter, not an account's user rules; configure the
// account's personal resolver with [PersonalResolver] to verify an unblock.
var DefaultResolvers = []Resolver{
	{Address: "94.140.14.14", QueryType: "A"},
	{Address: "94.140.15.15", QueryType: "A"},
}

// PersonalResolver returns the DNS-over-TLS endpoint of an AdGuard DNS
// server profile.
func PersonalResolver(serverID string) Resolver {
	return Resolver{
		Address:   serverID + ".d.adguard-dns.com",
		Net:       "tcp-tls",
		QueryType: "A",
	}
}

// Cache stores probe results.
// [*ttlcache.Cache] with string keys and [Result] values satisfies it.
type Cache interface {
	Get(key string) (Result, bool)
	Set(key string, val Result)
	Flush()
}

// Prober checks whether domains still receive a block answer.
type Prober struct {
	mu          sync.RWMutex
	resolvers   []Resolver
	timeout     time.Duration
	maxRetries  int
	concurrency int
	cache       Cache
	cacheSet    bool
	edns0Size   uint16
	dnsClient   *dns.Client
	log         *logrus.Logger
}

// New creates a [Prober] using [DefaultResolvers].
//
//	p := probe.New(
//	    probe.WithResolvers([]probe.Resolver{probe.PersonalResolver("abcd1234")}),
//	    probe.WithTimeout(3*time.Second),
//	)
func New(opts ...Option) *Prober {
	p := &Prober{
		resolvers:   make([]Resolver, len(DefaultResolvers)),
		timeout:     defaultTimeout,
		maxRetries:  defaultRetries,
		concurrency: defaultConcurrency,
		edns0Size:   defaultEDNS0Size,
	}
	copy(p.resolvers, DefaultResolvers)

	for _, opt := range opts {
		opt(p)
	}

	if !p.cacheSet {
		p.cache = ttlcache.New[string, Result](defaultCacheTTL)
	}
	if p.dnsClient == nil {
		p.dnsClient = &dns.Client{Timeout: p.timeout, Net: "udp"}
	}
	if p.log == nil {
		p.log = logrus.New()
		p.log.SetOutput(io.Discard)
	}
	return p
}

// Resolvers returns a copy of the configured resolvers.
func (p *Prober) Resolvers() []Resolver {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Resolver, len(p.resolvers))
	copy(out, p.resolvers)
	return out
}

// Check probes domains concurrently and returns one [Result] per domain,
// in input order. Invalid domains carry [ErrInvalidDomain]. If ctx ends
// early, the unstarted domains carry ctx.Err() and so does the returned
// error.
func (p *Prober) Check(ctx context.Context, domains ...string) ([]Result, error) {
	resolvers := p.Resolvers()
	if len(resolvers) == 0 {
		return nil, ErrNoResolvers
	}

	results := make([]Result, len(domains))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

Loop:
	for i, domain := range domains {
		select {
		case <-ctx.Done():
			for j := i; j < len(domains); j++ {
				results[j] = Result{Domain: domains[j], Error: ctx.Err()}
			}
			// Running goroutines are still waited for below.
			break Loop
		default:
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, d string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[idx] = Result{
						Domain: d,
						Error:  fmt.Errorf("%w: %v", ErrInternalPanic, r),
					}
				}
			}()

			results[idx] = p.checkSingle(ctx, d, resolvers)
		}(i, domain)
	}

	wg.Wait()
	if ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}

// CheckOne probes a single domain.
func (p *Prober) CheckOne(ctx context.Context, domain string) (Result, error) {
	resolvers := p.Resolvers()
	if len(resolvers) == 0 {
		return Result{}, ErrNoResolvers
	}
	return p.checkSingle(ctx, domain, resolvers), nil
}

// Status checks that every configured resolver answers.
func (p *Prober) Status(ctx context.Context) ([]ResolverStatus, error) {
	resolvers := p.Resolvers()
	if len(resolvers) == 0 {
		return nil, ErrNoResolvers
	}

	statuses := make([]ResolverStatus, len(resolvers))
	var wg sync.WaitGroup
	for i, r := range resolvers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					statuses[i] = ResolverStatus{
						Resolver: r.Address,
						Error:    fmt.Errorf("%w: %v", ErrInternalPanic, rec),
					}
				}
			}()
			statuses[i] = checkHealth(ctx, p.dnsClient, r, p.edns0Size)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return statuses, ctx.Err()
	}
	return statuses, nil
}

// FlushCache drops cached results, e.g. right after an unblock.
func (p *Prober) FlushCache() {
	if p.cache != nil {
		p.cache.Flush()
	}
}

// checkSingle probes one domain, failing over between resolvers.
func (p *Prober) checkSingle(ctx context.Context, domain string, resolvers []Resolver) Result {
	clean := normalizeDomain(domain)
	if !IsValidDomain(clean) {
		return Result{
			Domain: domain,
			Error:  fmt.Errorf("%w: %q", ErrInvalidDomain, domain),
		}
	}
	domain = clean

	for _, r := range resolvers {
		key := fmt.Sprintf("%s|%s|%s|%s", domain, r.Net, r.Address, r.QueryType)
		if p.cache != nil {
			if cached, ok := p.cache.Get(key); ok {
				return cached
			}
		}

		res, err := p.queryWithRetries(ctx, domain, r)
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"domain":   domain,
				"resolver": r.Address,
			}).WithError(err).Debug("resolver failed, trying next")
			continue
		}

		if p.cache != nil {
			p.cache.Set(key, res)
		}
		return res
	}

	return Result{Domain: domain, Error: ErrAllResolversFailed}
}

// queryWithRetries probes r up to maxRetries+1 times. Any probe that sees
// a block answer ends the loop; answers can differ between anycast nodes
// while a rule change propagates. Backoff applies only after errors.
func (p *Prober) queryWithRetries(ctx context.Context, domain string, r Resolver) (Result, error) {
	var (
		lastErr   error
		best      Result
		responded bool
	)

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 && lastErr != nil {
			backoff := min(time.Duration(1<<uint(attempt-1))*time.Second, 30*time.Second)
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := queryDNS(ctx, p.dnsClient, domain, r, p.edns0Size)
		if err != nil {
			lastErr = err
			continue
		}

		if reason := blockReason(resp); reason != ReasonNone {
			return Result{
				Domain:   domain,
				Blocked:  true,
				Reason:   reason,
				Resolver: r.Address,
			}, nil
		}

		if !responded {
			best = Result{Domain: domain, Resolver: r.Address}
			responded = true
		}
	}

	if responded {
		return best, nil
	}
	return Result{}, lastErr
}
