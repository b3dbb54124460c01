// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package adguard is a small client for the AdGuard DNS API, covering the
// endpoints needed to inspect blocked lookups and whitelist domains:
//
//   - GET  /oapi/v1/query_log
//   - GET  /oapi/v1/dns_servers/{id}
//   - PUT  /oapi/v1/dns_servers/{id}/settings
//   - GET  /oapi/v1/devices
//   - POST /oapi/v1/oauth_token
//
// # Authentication
//
// Tokens live in a [credstore.Store] passed with [WithCredentials]. When
// the provider answers 401, the client exchanges the refresh token for a
// new access token, stores it, and retries the request exactly once. If
// the token endpoint returns no new refresh token the old one is kept.
// A second 401 is reported as [ErrUnauthorized] and is not retried.
//
// # Errors
//
// Other non-2xx answers are returned as [*APIError] without retry:
//
//	var apiErr *adguard.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
//	    // unknown server id
//	}
//
// # Example
//
//	store := credstore.NewMemory(credstore.Token{RefreshToken: os.Getenv("DNSUNBLOCK_REFRESH_TOKEN")})
//	c := adguard.New(adguard.WithCredentials(store))
//
//	srv, err := c.DNSServer(ctx, "abcd1234")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(srv.Settings.UserRulesSettings.Rules)
package adguard
