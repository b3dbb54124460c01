// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import (
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a [Prober].
type Option func(*Prober)

// WithResolvers replaces all configured resolvers.
func WithResolvers(resolvers []Resolver) Option {
	return func(p *Prober) {
		p.resolvers = resolvers
	}
}

// SetResolvers adds or replaces resolvers on a running [Prober], matched
// by Address. It is safe to call concurrently with [Prober.Check].
// Passing zero resolvers is a no-op.
func (p *Prober) SetResolvers(resolvers ...Resolver) {
	if len(resolvers) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range resolvers {
		updated := false
		for i, cur := range p.resolvers {
			if cur.Address == r.Address {
				p.resolvers[i] = r
				updated = true
				break
			}
		}
		if !updated {
			p.resolvers = append(p.resolvers, r)
		}
	}
}

// DeleteResolvers removes resolvers by address.
func (p *Prober) DeleteResolvers(addresses ...string) {
	if len(addresses) == 0 {
		return
	}

	drop := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		drop[a] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.resolvers[:0:0]
	for _, r := range p.resolvers {
		if _, ok := drop[r.Address]; !ok {
			kept = append(kept, r)
		}
	}
	p.resolvers = kept
}

// WithTimeout sets the per-query timeout. The default is 5 seconds.
// It has no effect when a client is set via [WithDNSClient].
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithMaxRetries sets how many extra probes are sent per resolver.
// The default is 2 (3 probes in total). Negative values restore the
// default.
func WithMaxRetries(n int) Option {
	return func(p *Prober) {
		if n < 0 {
			n = defaultRetries
		}
		p.maxRetries = n
	}
}

// WithConcurrency bounds the number of domains probed at once.
// The default is 16.
func WithConcurrency(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithDNSClient sets a custom [dns.Client]. Its Timeout and TLSConfig are
// used as-is. Passing nil is a no-op.
func WithDNSClient(client *dns.Client) Option {
	return func(p *Prober) {
		if client != nil {
			p.dnsClient = client
		}
	}
}

// WithEDNS0Size sets the advertised EDNS0 UDP buffer size.
// The default is 1232 bytes.
func WithEDNS0Size(size uint16) Option {
	return func(p *Prober) {
		if size > 0 {
			p.edns0Size = size
		}
	}
}

// WithCache sets the result cache. Pass nil to disable caching.
// By default results are cached for 30 seconds, short enough that a
// re-check after an unblock sees the new answer quickly.
func WithCache(c Cache) Option {
	return func(p *Prober) {
		p.cache = c
		p.cacheSet = true
	}
}

// WithLogger sets the logger. By default the prober logs nothing.
func WithLogger(l *logrus.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.log = l
		}
	}
}
