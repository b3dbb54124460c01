// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credstore

import (
	"context"
	"errors"
)

// Layered serves reads from a fast front store and falls back to a durable
// back store, copying what it finds forward. Writes go to both.
type Layered struct {
	front Store
	back  Store
}

// NewLayered returns a [Layered] store. A nil back store makes it behave
// like front alone.
func NewLayered(front, back Store) *Layered {
	return &Layered{front: front, back: back}
}

// Current implements [Store].
func (l *Layered) Current(ctx context.Context) (Token, error) {
	t, err := l.front.Current(ctx)
	if err == nil || !errors.Is(err, ErrNoToken) || l.back == nil {
		return t, err
	}

	t, err = l.back.Current(ctx)
	if err != nil {
		return Token{}, err
	}
	if err := l.front.Replace(ctx, t); err != nil {
		return Token{}, err
	}
	return t, nil
}

// Replace implements [Store]. The durable copy is written first so a
// failure leaves both layers on the old token.
func (l *Layered) Replace(ctx context.Context, t Token) error {
	if l.back != nil {
		if err := l.back.Replace(ctx, t); err != nil {
			return err
		}
	}
	return l.front.Replace(ctx, t)
}

// Invalidate implements [Store].
func (l *Layered) Invalidate(ctx context.Context) error {
	err := l.front.Invalidate(ctx)
	if l.back != nil {
		err = errors.Join(err, l.back.Invalidate(ctx))
	}
	return err
}
