// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package adguard

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/credstore"
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithBaseURL sets the API origin. The default is https://api.adguard-dns.io.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom [http.Client].
//
// When set, [WithTimeout] has no effect; the client's own Timeout is used.
// Passing nil is a no-op.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// The default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCredentials sets the token store read before every request and
// updated after a refresh. Without it every call returns
// [ErrMissingCredentials].
func WithCredentials(s credstore.Store) Option {
	return func(c *Client) {
		c.creds = s
	}
}

// WithLogger sets the logger. By default the client logs nothing.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records token refresh outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
