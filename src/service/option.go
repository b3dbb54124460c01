// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// Option is a functional option for configuring a [Service].
type Option func(*Service)

// WithAnalyzer sets the analyzer used for classification, grouping and
// reconciliation. Passing nil is a no-op.
func WithAnalyzer(a *unblock.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithDeviceTTL sets how long device names are cached.
// The default is 6 hours.
func WithDeviceTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.deviceTTL = d
		}
	}
}

// WithLogger sets the logger. By default the service logs nothing.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithNow replaces the clock used to compute the query window.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaults sets the window and entry limit used when a
// [BlockedQuery] leaves them zero.
func WithDefaults(window time.Duration, limit int) Option {
	return func(s *Service) {
		if window > 0 {
			s.defaultWindow = window
		}
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}
