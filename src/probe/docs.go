// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package probe verifies, over plain DNS, whether a domain is still
// blocked after its whitelist rule was written.
//
// AdGuard DNS signals a block in one of several ways depending on the
// server's blocking mode. A domain is reported blocked when any probe
// sees one of:
//
//   - an A or AAAA answer holding 0.0.0.0 or ::
//   - NXDOMAIN with an empty answer section
//   - REFUSED
//   - an extended DNS error with the Blocked or Filtered code
//
// Each resolver is probed several times because answers from different
// anycast nodes can disagree while a rule change propagates. Errors are
// retried with exponential backoff; on persistent failure the next
// resolver is tried.
//
// # Basic Usage
//
//	p := probe.New(probe.WithResolvers([]probe.Resolver{
//	    probe.PersonalResolver("abcd1234"),
//	}))
//
//	res, err := p.CheckOne(ctx, "www.netflix.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Error == nil && res.Blocked {
//	    fmt.Printf("%s still blocked (%s)\n", res.Domain, res.Reason)
//	}
//
// # Custom Transport
//
// [WithDNSClient] accepts any [dns.Client], for instance one using a
// custom dialer or TLS configuration. Its Timeout takes precedence over
// [WithTimeout].
package probe
