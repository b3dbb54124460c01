// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

const maxBodyBytes = 64 << 10

type domainsRequest struct {
	Domains []string `json:"domains"`
}

type groupJSON struct {
	Root          string    `json:"root"`
	Members       []string  `json:"members"`
	Subdomains    []string  `json:"subdomains"`
	TotalAttempts int       `json:"total_attempts"`
	LastSeen      time.Time `json:"last_seen"`
}

type blockedResponse struct {
	Window     string      `json:"window"`
	Scanned    int         `json:"scanned"`
	Groups     []groupJSON `json:"groups"`
	Empty      bool        `json:"empty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

type previewResponse struct {
	Roots  []string            `json:"roots"`
	Folded map[string][]string `json:"folded"`
	Text   string              `json:"text"`
}

type unblockResponse struct {
	Roots          []string            `json:"roots"`
	Added          []string            `json:"added"`
	AlreadyPresent []string            `json:"already_present"`
	Folded         map[string][]string `json:"folded"`
	Partial        bool                `json:"partial"`
	NoOp           bool                `json:"no_op"`
	RulesEnabled   bool                `json:"rules_enabled"`
}

type rulesResponse struct {
	Enabled bool     `json:"enabled"`
	Rules   []string `json:"rules"`
}

type verifyResult struct {
	Domain   string `json:"domain"`
	Blocked  bool   `json:"blocked"`
	Reason   string `json:"reason,omitempty"`
	Resolver string `json:"resolver,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) blocked(w http.ResponseWriter, r *http.Request) {
	q := service.BlockedQuery{ServerID: s.serverID}

	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid window %q", v))
			return
		}
		q.Window = d
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		q.Limit = n
	}

	rep, err := s.svc.Blocked(r.Context(), q)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := blockedResponse{
		Window:     rep.Window.String(),
		Scanned:    rep.Scanned,
		Groups:     make([]groupJSON, 0, len(rep.Groups)),
		Empty:      rep.Empty(),
		Suggestion: rep.Suggestion(),
	}
	for _, g := range rep.Groups {
		resp.Groups = append(resp.Groups, groupJSON{
			Root:          g.Root,
			Members:       g.Members,
			Subdomains:    g.Subdomains(),
			TotalAttempts: g.TotalAttempts,
			LastSeen:      g.LastSeen,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) rules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.Rules(r.Context(), s.serverID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if rules.Rules == nil {
		rules.Rules = []string{}
	}
	writeJSON(w, http.StatusOK, rulesResponse{Enabled: rules.Enabled, Rules: rules.Rules})
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDomains(w, r)
	if !ok {
		return
	}
	sum := s.svc.Preview(req.Domains)
	writeJSON(w, http.StatusOK, previewResponse{Roots: sum.Roots, Folded: sum.Folded, Text: sum.String()})
}

func (s *Server) unblock(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDomains(w, r)
	if !ok {
		return
	}

	res, err := s.svc.Unblock(r.Context(), s.serverID, req.Domains)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.rulesAdded.Add(float64(len(res.Added)))
	if len(res.Added) > 0 && s.prober != nil {
		s.prober.FlushCache()
	}

	writeJSON(w, http.StatusOK, unblockResponse{
		Roots:          res.Roots,
		Added:          nonNil(res.Added),
		AlreadyPresent: nonNil(res.AlreadyPresent),
		Folded:         res.Folded,
		Partial:        res.Partial(),
		NoOp:           res.NoOp(),
		RulesEnabled:   res.RulesEnabled,
	})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	if s.prober == nil {
		writeError(w, http.StatusNotImplemented, "dns verification is not configured")
		return
	}
	req, ok := decodeDomains(w, r)
	if !ok {
		return
	}

	results, err := s.prober.Check(r.Context(), req.Domains...)
	if err != nil && results == nil {
		s.fail(w, err)
		return
	}

	out := make([]verifyResult, len(results))
	for i, res := range results {
		out[i] = verifyResult{
			Domain:   res.Domain,
			Blocked:  res.Blocked,
			Reason:   string(res.Reason),
			Resolver: res.Resolver,
		}
		if res.Error != nil {
			out[i].Error = res.Error.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeDomains(w http.ResponseWriter, r *http.Request) (domainsRequest, bool) {
	var req domainsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	if len(req.Domains) == 0 {
		writeError(w, http.StatusBadRequest, "domains must not be empty")
		return req, false
	}
	return req, true
}

// fail maps service and gateway errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var apiErr *adguard.APIError
	switch {
	case errors.Is(err, service.ErrMissingServerID),
		errors.Is(err, service.ErrNoDomains):
		status = http.StatusBadRequest
	case errors.Is(err, adguard.ErrUnauthorized),
		errors.Is(err, adguard.ErrMissingCredentials),
		errors.As(err, &apiErr):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	s.log.WithError(err).WithField("status", status).Warn("api request failed")
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
