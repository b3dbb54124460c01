// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package adguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/credstore"
)

const (
	// DefaultBaseURL is the public AdGuard DNS API origin.
	DefaultBaseURL = "https://api.adguard-dns.io"

	apiPrefix        = "/oapi/v1"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "dnsunblock"
	defaultPageSize  = 100

	// maxErrorBody caps how much of an error response is kept in [APIError].
	maxErrorBody = 4 << 10
)

// Client is an authenticated AdGuard DNS API client.
//
// Every request carries the access token from the configured
// [credstore.Store]. A 401 triggers one token refresh followed by one
// retry of the same request; a second 401 yields [ErrUnauthorized].
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	creds      credstore.Store
	log        *logrus.Logger
	metrics    *Metrics
	userAgent  string

	refreshMu sync.Mutex
}

// New creates a [Client].
//
//	c := adguard.New(
//	    adguard.WithCredentials(credstore.NewMemory(credstore.Token{RefreshToken: rt})),
//	)
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// QueryLog fetches one page of the query log.
func (c *Client) QueryLog(ctx context.Context, p QueryLogParams) (QueryLogPage, error) {
	q := url.Values{}
	if !p.From.IsZero() {
		q.Set("time_from_millis", strconv.FormatInt(p.From.UnixMilli(), 10))
	}
	if !p.To.IsZero() {
		q.Set("time_to_millis", strconv.FormatInt(p.To.UnixMilli(), 10))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}

	var page QueryLogPage
	err := c.do(ctx, http.MethodGet, "/query_log", q, nil, &page)
	return page, err
}

// QueryLogAll follows the page cursor until maxItems were collected or
// no further page exists. A non-positive maxItems fetches a single page.
func (c *Client) QueryLogAll(ctx context.Context, p QueryLogParams, maxItems int) ([]QueryLogItem, error) {
	if p.Limit <= 0 {
		p.Limit = defaultPageSize
	}
	if maxItems > 0 && p.Limit > maxItems {
		p.Limit = maxItems
	}

	var items []QueryLogItem
	seen := make(map[string]struct{})
	for {
		page, err := c.QueryLog(ctx, p)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if maxItems <= 0 || len(items) >= maxItems {
			break
		}
		next := page.Pages.Next
		if next == "" {
			break
		}
		if _, dup := seen[next]; dup {
			break
		}
		seen[next] = struct{}{}
		p.Cursor = next
	}

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

// DNSServer fetches a DNS server profile, including its user rules.
func (c *Client) DNSServer(ctx context.Context, id string) (DNSServer, error) {
	if id == "" {
		return DNSServer{}, ErrEmptyServerID
	}
	var s DNSServer
	err := c.do(ctx, http.MethodGet, "/dns_servers/"+url.PathEscape(id), nil, nil, &s)
	return s, err
}

// UpdateUserRules replaces the user rule list of a DNS server.
func (c *Client) UpdateUserRules(ctx context.Context, id string, rules UserRulesSettings) error {
	if id == "" {
		return ErrEmptyServerID
	}
	if rules.Rules == nil {
		rules.Rules = []string{}
	}
	body := updateSettingsRequest{UserRulesSettings: rules}
	return c.do(ctx, http.MethodPut, "/dns_servers/"+url.PathEscape(id)+"/settings", nil, body, nil)
}

// Devices lists the devices registered on the account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var d []Device
	err := c.do(ctx, http.MethodGet, "/devices", nil, nil, &d)
	return d, err
}

// RefreshToken exchanges a refresh token for a new access token. It does
// not touch the credential store.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (TokenResponse, error) {
	if refresh == "" {
		return TokenResponse{}, ErrMissingCredentials
	}

	form := url.Values{"refresh_token": {refresh}}
	req, err := c.newRequest(ctx, http.MethodPost, "/oauth_token", nil, []byte(form.Encode()))
	if err != nil {
		return TokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("adguard: refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return TokenResponse{}, fmt.Errorf("%w: %w", ErrRefreshFailed, apiError(req, resp))
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return TokenResponse{}, fmt.Errorf("adguard: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("%w: empty access token", ErrRefreshFailed)
	}
	return tr, nil
}

// do runs an authenticated JSON request, refreshing the token and retrying
// once on a 401.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("adguard: encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	tok, err := c.token(ctx)
	if err != nil {
		return err
	}
	// A token minted for this call gets no second refresh on 401.
	fresh := false
	if tok.AccessToken == "" {
		if tok, err = c.refresh(ctx, tok); err != nil {
			return err
		}
		fresh = true
	}

	resp, err := c.send(ctx, method, path, q, payload, tok.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && fresh {
		drain(resp)
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).
			Warn("request rejected with a freshly refreshed token")
		return ErrUnauthorized
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).
			Debug("access token rejected, refreshing")

		if tok, err = c.refresh(ctx, tok); err != nil {
			return err
		}
		if resp, err = c.send(ctx, method, path, q, payload, tok.AccessToken); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			c.log.WithFields(logrus.Fields{"method": method, "path": path}).
				Warn("request rejected after token refresh")
			return ErrUnauthorized
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		err := apiError(resp.Request, resp)
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("provider returned an error")
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("adguard: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, q url.Values, payload []byte, access string) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, q, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adguard: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, payload []byte) (*http.Request, error) {
	u := c.baseURL + apiPrefix + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("adguard: build %s %s: %w", method, path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) token(ctx context.Context) (credstore.Token, error) {
	if c.creds == nil {
		return credstore.Token{}, ErrMissingCredentials
	}
	tok, err := c.creds.Current(ctx)
	if errors.Is(err, credstore.ErrNoToken) {
		return credstore.Token{}, ErrMissingCredentials
	}
	if err != nil {
		return credstore.Token{}, err
	}
	if tok.Empty() {
		return credstore.Token{}, ErrMissingCredentials
	}
	return tok, nil
}

// refresh obtains a new access token and stores it. stale is the token
// that was rejected; if another caller already replaced it, the stored
// token is returned without a second refresh.
func (c *Client) refresh(ctx context.Context, stale credstore.Token) (credstore.Token, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur, err := c.token(ctx)
	if err != nil {
		return credstore.Token{}, err
	}
	if cur.AccessToken != "" && cur.AccessToken != stale.AccessToken {
		return cur, nil
	}
	if cur.RefreshToken == "" {
		return credstore.Token{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrMissingCredentials)
	}

	tr, err := c.RefreshToken(ctx, cur.RefreshToken)
	if err != nil {
		c.metrics.refresh(RefreshFailure)
		c.log.WithError(err).Warn("token refresh failed")
		return credstore.Token{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	c.metrics.refresh(RefreshSuccess)

	next := credstore.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		UpdatedAt:    time.Now(),
	}
	if next.RefreshToken == "" {
		next.RefreshToken = cur.RefreshToken
	}
	if err := c.creds.Replace(ctx, next); err != nil {
		return credstore.Token{}, fmt.Errorf("adguard: store refreshed token: %w", err)
	}
	c.log.Info("access token refreshed")
	return next, nil
}

func apiError(req *http.Request, resp *http.Response) *APIError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
	if req != nil {
		e.Method = req.Method
		e.Path = req.URL.Path
	}
	return e
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
