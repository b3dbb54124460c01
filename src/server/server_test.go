// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/probe"
	"github.com/H0llyW00dzZ/dnsunblock/src/server"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu      sync.Mutex
	items   []adguard.QueryLogItem
	rules   []string
	readErr error
}

func (f *fakeGateway) QueryLogAll(context.Context, adguard.QueryLogParams, int) ([]adguard.QueryLogItem, error) {
	return f.items, nil
}

func (f *fakeGateway) DNSServer(_ context.Context, id string) (adguard.DNSServer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return adguard.DNSServer{}, f.readErr
	}
	return adguard.DNSServer{ID: id, Settings: adguard.DNSServerSettings{
		UserRulesSettings: adguard.UserRulesSettings{Enabled: true, Rules: append([]string(nil), f.rules...)},
	}}, nil
}

func (f *fakeGateway) UpdateUserRules(_ context.Context, _ string, s adguard.UserRulesSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = s.Rules
	return nil
}

func (f *fakeGateway) current() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules
}

func (f *fakeGateway) Devices(context.Context) ([]adguard.Device, error) {
	return nil, nil
}

type fakeProber struct {
	flushed atomic.Int32
}

func (p *fakeProber) Check(_ context.Context, domains ...string) ([]probe.Result, error) {
	out := make([]probe.Result, len(domains))
	for i, d := range domains {
		out[i] = probe.Result{Domain: d, Blocked: d == "still.blocked.com", Reason: probe.ReasonUnspecified, Resolver: "test"}
	}
	return out, nil
}

func (p *fakeProber) FlushCache() { p.flushed.Add(1) }

func setup(t *testing.T, gw *fakeGateway, opts ...server.Option) (*httptest.Server, *server.Server) {
	t.Helper()
	svc := service.New(gw, service.WithNow(func() time.Time { return now }))
	s := server.New(svc, "srv1", opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

func do(t *testing.T, method, url, body string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestHealth(t *testing.T) {
	ts, _ := setup(t, &fakeGateway{})
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestBlocked(t *testing.T) {
	gw := &fakeGateway{items: []adguard.QueryLogItem{
		{Domain: "www.peacocktv.com", TimeMillis: now.Add(-time.Hour).UnixMilli(), FilteringInfo: adguard.FilteringInfo{FilteringStatus: "REQUEST_BLOCKED"}},
		{Domain: "cdn.peacocktv.com", TimeMillis: now.Add(-time.Hour + time.Second).UnixMilli(), FilteringInfo: adguard.FilteringInfo{FilteringStatus: "RESPONSE_BLOCKED"}},
		{Domain: "ads.example.com", TimeMillis: now.Add(-time.Hour).UnixMilli(), FilteringInfo: adguard.FilteringInfo{FilteringStatus: "REQUEST_BLOCKED"}},
	}}
	ts, _ := setup(t, gw)

	resp, body := do(t, http.MethodGet, ts.URL+"/api/blocked?window=2h&limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Window string `json:"window"`
		Groups []struct {
			Root          string   `json:"root"`
			Subdomains    []string `json:"subdomains"`
			TotalAttempts int      `json:"total_attempts"`
		} `json:"groups"`
		Empty bool `json:"empty"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "2h0m0s", out.Window)
	assert.False(t, out.Empty)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, "peacocktv.com", out.Groups[0].Root)
	assert.Equal(t, 2, out.Groups[0].TotalAttempts)
	assert.Equal(t, []string{"www.peacocktv.com", "cdn.peacocktv.com"}, out.Groups[0].Subdomains)

	assert.Contains(t, scrape(t, ts), `dnsunblock_api_requests_total{code="200",endpoint="/api/blocked"} 1`)
}

func TestBlockedBadParams(t *testing.T) {
	ts, _ := setup(t, &fakeGateway{})

	for _, q := range []string{"window=abc", "window=-1h", "limit=x", "limit=0"} {
		resp, _ := do(t, http.MethodGet, ts.URL+"/api/blocked?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestUnblockFlow(t *testing.T) {
	gw := &fakeGateway{rules: []string{"@@||example.com^"}}
	p := &fakeProber{}
	ts, _ := setup(t, gw, server.WithProber(p))

	resp, body := do(t, http.MethodPost, ts.URL+"/api/unblock/preview", `{"domains":["www.netflix.com","netflix.com"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"roots":["netflix.com"],"folded":{"netflix.com":["www.netflix.com"]},"text":"netflix.com (also covers www.netflix.com)"}`, string(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/api/unblock", `{"domains":["www.netflix.com","cdn.example.com"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Added          []string `json:"added"`
		AlreadyPresent []string `json:"already_present"`
		Partial        bool     `json:"partial"`
		NoOp           bool     `json:"no_op"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, []string{"@@||netflix.com^"}, out.Added)
	assert.Equal(t, []string{"example.com"}, out.AlreadyPresent)
	assert.True(t, out.Partial)
	assert.False(t, out.NoOp)
	assert.Equal(t, []string{"@@||example.com^", "@@||netflix.com^"}, gw.current())
	assert.Equal(t, int32(1), p.flushed.Load())

	resp, body = do(t, http.MethodGet, ts.URL+"/api/rules", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"enabled":true,"rules":["@@||example.com^","@@||netflix.com^"]}`, string(body))

	resp, body = do(t, http.MethodPost, ts.URL+"/api/unblock", `{"domains":["netflix.com"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.NoOp)
	assert.Empty(t, out.Added)

	assert.Contains(t, scrape(t, ts), "dnsunblock_rules_added_total 1\n")
}

func TestUnblockBadBody(t *testing.T) {
	ts, _ := setup(t, &fakeGateway{})

	for _, body := range []string{"", "{", `{"domains":[]}`, `{"domain":["a.com"]}`} {
		resp, _ := do(t, http.MethodPost, ts.URL+"/api/unblock", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}

	resp, _ := do(t, http.MethodPost, ts.URL+"/api/unblock", `{"domains":["  "]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no usable domain")
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", adguard.ErrUnauthorized, http.StatusBadGateway},
		{"api error", &adguard.APIError{StatusCode: 500}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := setup(t, &fakeGateway{readErr: tt.err})
			resp, _ := do(t, http.MethodGet, ts.URL+"/api/rules", "")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestVerify(t *testing.T) {
	ts, _ := setup(t, &fakeGateway{})
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/verify", `{"domains":["a.com"]}`)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	ts, _ = setup(t, &fakeGateway{}, server.WithProber(&fakeProber{}))
	resp, body := do(t, http.MethodPost, ts.URL+"/api/verify", `{"domains":["still.blocked.com","ok.com"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[
		{"domain":"still.blocked.com","blocked":true,"reason":"unspecified-address","resolver":"test"},
		{"domain":"ok.com","blocked":false,"reason":"unspecified-address","resolver":"test"}
	]`, string(body))
}

func TestAuth(t *testing.T) {
	ts, _ := setup(t, &fakeGateway{}, server.WithToken("s3cret"))

	resp, _ := do(t, http.MethodGet, ts.URL+"/api/rules", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/rules", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/rules", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health is not behind auth")
}

func TestMetricsEndpoint(t *testing.T) {
	ts, s := setup(t, &fakeGateway{})
	do(t, http.MethodGet, ts.URL+"/api/rules", "")

	assert.Contains(t, scrape(t, ts), `dnsunblock_api_requests_total{code="200",endpoint="/api/rules"} 1`)

	mfs, err := s.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func scrape(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return string(body)
}
