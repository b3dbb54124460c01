// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package credstore

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-lifetime [Store].
type Memory struct {
	mu    sync.RWMutex
	token Token
	set   bool
}

// NewMemory returns a [Memory] store, seeded with t unless t is empty.
func NewMemory(t Token) *Memory {
	m := &Memory{}
	if !t.Empty() {
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = time.Now()
		}
		m.token, m.set = t, true
	}
	return m
}

// Current implements [Store].
func (m *Memory) Current(context.Context) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return Token{}, ErrNoToken
	}
	return m.token, nil
}

// Replace implements [Store].
func (m *Memory) Replace(_ context.Context, t Token) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	m.mu.Lock()
	m.token, m.set = t, true
	m.mu.Unlock()
	return nil
}

// Invalidate implements [Store].
func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	m.token, m.set = Token{}, false
	m.mu.Unlock()
	return nil
}
