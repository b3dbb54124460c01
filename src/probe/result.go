// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

// Reason says which kind of answer marked a domain as blocked.
type Reason string

// Block answer kinds.
const (
	ReasonNone        Reason = ""
	ReasonUnspecified Reason = "unspecified-address"
	ReasonNXDomain    Reason = "nxdomain"
	ReasonRefused     Reason = "refused"
	ReasonEDE         Reason = "extended-error"
)

// Result is the outcome of probing one domain.
type Result struct {
	// Domain is the probed domain.
	Domain string

	// Blocked reports whether the resolver answered with a block answer.
	Blocked bool

	// Reason is set when Blocked is true.
	Reason Reason

	// Resolver is the address that produced the answer.
	Resolver string

	// Error is non-nil if the probe failed. Blocked is then unreliable.
	Error error
}

// ResolverStatus is the health of one resolver.
type ResolverStatus struct {
	Resolver  string
	Online    bool
	LatencyMs int64
	Error     error
}

// Resolver is one DNS endpoint to probe.
type Resolver struct {
	// Address is host or host:port. Port 53 is assumed for plain DNS and
	// 853 for DNS-over-TLS when omitted.
	Address string

	// Net is "udp" (default), "tcp" or "tcp-tls".
	Net string

	// QueryType is the record type to ask for, e.g. "A" or "AAAA".
	// The default is "A".
	QueryType string
}
