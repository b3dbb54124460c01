// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package adguard

import "github.com/prometheus/client_golang/prometheus"

// Refresh outcomes recorded by [Metrics].
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	TokenRefresh *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TokenRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dnsunblock_token_refresh_total",
			Help: "Access token refresh attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.TokenRefresh)
	}
	return m
}

func (m *Metrics) refresh(result string) {
	if m == nil || m.TokenRefresh == nil {
		return
	}
	m.TokenRefresh.WithLabelValues(result).Inc()
}
