// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package adguard

import (
	"errors"
	"fmt"
)

// Sentinel errors for the adguard package.
var (
	// ErrMissingCredentials is returned when no access or refresh token is
	// available for an authenticated request.
	ErrMissingCredentials = errors.New("adguard: missing credentials")

	// ErrUnauthorized is returned when a request is still rejected after the
	// access token has been refreshed once.
	ErrUnauthorized = errors.New("adguard: unauthorized after token refresh")

	// ErrRefreshFailed is returned when the token endpoint rejects the
	// refresh token.
	ErrRefreshFailed = errors.New("adguard: token refresh failed")

	// ErrEmptyServerID is returned when a DNS server call is made without an id.
	ErrEmptyServerID = errors.New("adguard: empty DNS server id")
)

// APIError is a non-2xx response from the provider, other than the 401
// handled by the refresh flow.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("adguard: %s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("adguard: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Temporary reports whether the status suggests the same request may
// succeed later.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
