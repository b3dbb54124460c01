// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// healthCheckDomain is resolved by [Prober.Status].
const healthCheckDomain = "adguard-dns.io"

// parseQueryType converts a record type name to its dns constant.
// Only address types make sense for block detection; anything else
// falls back to A.
func parseQueryType(qtype string) uint16 {
	switch strings.ToUpper(strings.TrimSpace(qtype)) {
	case "AAAA":
		return dns.TypeAAAA
	case "HTTPS":
		return dns.TypeHTTPS
	default:
		return dns.TypeA
	}
}

// resolverAddr adds the default port for the transport when addr has none.
func resolverAddr(addr, network string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	port := "53"
	if network == "tcp-tls" {
		port = "853"
	}
	return net.JoinHostPort(strings.Trim(addr, "[]"), port)
}

// queryDNS sends one query for domain to r. It honors ctx cancellation
// independently of the client's own timeout.
func queryDNS(ctx context.Context, client *dns.Client, domain string, r Resolver, edns0Size uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), parseQueryType(r.QueryType))
	msg.RecursionDesired = true
	msg.SetEdns0(edns0Size, false)

	if r.Net != "" && r.Net != client.Net {
		c := *client
		c.Net = r.Net
		client = &c
	}
	addr := resolverAddr(r.Address, client.Net)

	type dnsResult struct {
		msg *dns.Msg
		err error
	}
	ch := make(chan dnsResult, 1)

	go func() {
		resp, _, err := client.ExchangeContext(ctx, msg, addr)
		ch <- dnsResult{msg: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrDNSTimeout, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.msg, nil
	}
}

// blockReason classifies a response. AdGuard DNS answers a blocked name
// with an unspecified address by default, and with NXDOMAIN or REFUSED
// when the server's blocking mode says so. It may also attach an extended
// DNS error (RFC 8914) with the Blocked or Filtered code.
func blockReason(msg *dns.Msg) Reason {
	if msg == nil {
		return ReasonNone
	}

	if opt := msg.IsEdns0(); opt != nil {
		for _, o := range opt.Option {
			ede, ok := o.(*dns.EDNS0_EDE)
			if !ok {
				continue
			}
			if ede.InfoCode == dns.ExtendedErrorCodeBlocked || ede.InfoCode == dns.ExtendedErrorCodeFiltered {
				return ReasonEDE
			}
		}
	}

	switch msg.Rcode {
	case dns.RcodeRefused:
		return ReasonRefused
	case dns.RcodeNameError:
		if len(msg.Answer) == 0 {
			return ReasonNXDomain
		}
	}

	for _, rr := range msg.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if v.A.IsUnspecified() {
				return ReasonUnspecified
			}
		case *dns.AAAA:
			if v.AAAA.IsUnspecified() {
				return ReasonUnspecified
			}
		}
	}
	return ReasonNone
}

// checkHealth resolves a well-known name through r and measures latency.
func checkHealth(ctx context.Context, client *dns.Client, r Resolver, edns0Size uint16) ResolverStatus {
	start := time.Now()
	resp, err := queryDNS(ctx, client, healthCheckDomain, Resolver{Address: r.Address, Net: r.Net}, edns0Size)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return ResolverStatus{Resolver: r.Address, Error: err}
	}
	if resp.Rcode != dns.RcodeSuccess {
		return ResolverStatus{
			Resolver: r.Address,
			Error:    fmt.Errorf("unexpected response code: %s", dns.RcodeToString[resp.Rcode]),
		}
	}

	return ResolverStatus{
		Resolver:  r.Address,
		Online:    true,
		LatencyMs: latency,
	}
}
