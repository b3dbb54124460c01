// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package adguard

import "time"

// QueryLogParams selects a page of the query log.
type QueryLogParams struct {
	From   time.Time
	To     time.Time
	Limit  int
	Cursor string
}

// QueryLogPage is one page of the query log.
type QueryLogPage struct {
	Items []QueryLogItem `json:"items"`
	Pages Pages          `json:"pages"`
}

// Pages carries the pagination cursors of a [QueryLogPage].
type Pages struct {
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// QueryLogItem is a single logged lookup.
type QueryLogItem struct {
	Domain        string        `json:"domain"`
	TimeMillis    int64         `json:"time_millis"`
	DeviceID      string        `json:"device_id,omitempty"`
	DNSServerID   string        `json:"dns_server_id,omitempty"`
	ClientCountry string        `json:"client_country,omitempty"`
	FilteringInfo FilteringInfo `json:"filtering_info"`
}

// Time returns the lookup time.
func (i QueryLogItem) Time() time.Time {
	return time.UnixMilli(i.TimeMillis).UTC()
}

// FilteringInfo describes how the provider filtered a lookup.
type FilteringInfo struct {
	FilteringStatus string `json:"filtering_status"`
	FilterRule      string `json:"filter_rule,omitempty"`
	FilterID        string `json:"filter_id,omitempty"`
	FilteringType   string `json:"filtering_type,omitempty"`
}

// DNSServer is a DNS server profile.
type DNSServer struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Default  bool              `json:"default"`
	Settings DNSServerSettings `json:"settings"`
}

// DNSServerSettings holds the part of a server profile this client reads.
type DNSServerSettings struct {
	UserRulesSettings UserRulesSettings `json:"user_rules_settings"`
}

// UserRulesSettings is the user-managed rule list of a server.
type UserRulesSettings struct {
	Enabled bool     `json:"enabled"`
	Rules   []string `json:"rules"`
}

type updateSettingsRequest struct {
	UserRulesSettings UserRulesSettings `json:"user_rules_settings"`
}

// Device is a device registered on the account.
type Device struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DeviceType  string `json:"device_type,omitempty"`
	DNSServerID string `json:"dns_server_id,omitempty"`
}

// TokenResponse is the body returned by the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}
