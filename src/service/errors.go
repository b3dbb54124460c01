// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package service

import "errors"

// Sentinel errors for the service package.
var (
	// ErrMissingServerID is returned when an operation needs a DNS server
	// id and none was configured.
	ErrMissingServerID = errors.New("service: missing DNS server id")

	// ErrNoDomains is returned when an unblock request holds no usable
	// domain after cleaning.
	ErrNoDomains = errors.New("service: no domains to unblock")
)
