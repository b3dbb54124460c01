// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package credstore holds the provider's access and refresh tokens.
//
// A [Store] is read before every authenticated request and replaced after a
// successful token refresh. [Memory] keeps tokens for the life of the
// process, [SQLite] keeps them on disk between runs, and [Layered] puts the
// former in front of the latter.
package credstore

import (
	"context"
	"errors"
	"time"
)

// ErrNoToken is returned by [Store.Current] when no token is stored.
var ErrNoToken = errors.New("credstore: no token stored")

// Token is one access/refresh token pair.
type Token struct {
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

// Empty reports whether the token carries neither an access nor a refresh
// token.
func (t Token) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Store is the credential cache contract.
type Store interface {
	// Current returns the stored token or ErrNoToken.
	Current(ctx context.Context) (Token, error)

	// Replace stores t, overwriting any previous token.
	Replace(ctx context.Context, t Token) error

	// Invalidate removes the stored token.
	Invalidate(ctx context.Context) error
}
