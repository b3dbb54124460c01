// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import "errors"

// Sentinel errors for the probe package.
var (
	// ErrNoResolvers is returned when no resolver is configured.
	ErrNoResolvers = errors.New("probe: no resolvers configured")

	// ErrAllResolversFailed is returned when every configured resolver
	// failed to answer.
	ErrAllResolversFailed = errors.New("probe: all resolvers failed to respond")

	// ErrInvalidDomain is returned when a domain name fails validation.
	ErrInvalidDomain = errors.New("probe: invalid domain name")

	// ErrDNSTimeout is returned when a query exceeds its deadline.
	ErrDNSTimeout = errors.New("probe: DNS query timed out")

	// ErrInternalPanic is returned when a panic is recovered during a check.
	ErrInternalPanic = errors.New("probe: internal panic recovered")
)
