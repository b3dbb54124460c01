// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// BlockedQuery selects the slice of the query log to analyze.
// Zero Window and Limit fall back to the service defaults.
type BlockedQuery struct {
	ServerID string
	Window   time.Duration
	Limit    int
}

// BlockedReport is the ranked list of blocked root domains.
type BlockedReport struct {
	Groups      []unblock.DomainGroup
	Hosts       []unblock.HostStat
	DeviceNames map[string]string
	Window      time.Duration
	From        time.Time
	To          time.Time

	// Scanned is the number of log entries inspected.
	Scanned int
}

// Empty reports whether no blocked domain was found.
func (r BlockedReport) Empty() bool {
	return len(r.Groups) == 0
}

// Suggestion returns a hint for an empty report, or "" otherwise.
func (r BlockedReport) Suggestion() string {
	if !r.Empty() {
		return ""
	}
	return fmt.Sprintf("No blocked requests in the last %s. Reproduce the problem and try again, or widen the window (e.g. --window %s).",
		r.Window, r.Window*3)
}

// Blocked fetches the current rules and the query log, then returns the
// blocked hostnames grouped by root domain, most recent first. Hosts
// already covered by an enabled whitelist rule are left out.
//
// An empty log is not an error; see [BlockedReport.Empty].
func (s *Service) Blocked(ctx context.Context, q BlockedQuery) (BlockedReport, error) {
	if q.ServerID == "" {
		return BlockedReport{}, ErrMissingServerID
	}
	if q.Window <= 0 {
		q.Window = s.defaultWindow
	}
	if q.Limit <= 0 {
		q.Limit = s.defaultLimit
	}

	srv, err := s.gw.DNSServer(ctx, q.ServerID)
	if err != nil {
		return BlockedReport{}, err
	}

	to := s.now()
	from := to.Add(-q.Window)
	items, err := s.gw.QueryLogAll(ctx, adguard.QueryLogParams{From: from, To: to}, q.Limit)
	if err != nil {
		return BlockedReport{}, err
	}

	entries := make([]unblock.LogEntry, 0, len(items))
	for _, it := range items {
		if it.DNSServerID != "" && it.DNSServerID != q.ServerID {
			continue
		}
		entries = append(entries, toLogEntry(it))
	}

	obs := s.analyzer.Classify(entries, s.exclusion(srv.Settings.UserRulesSettings))
	hosts := unblock.Dedupe(obs)
	report := BlockedReport{
		Groups:  s.analyzer.GroupHostStats(hosts),
		Hosts:   hosts,
		Window:  q.Window,
		From:    from,
		To:      to,
		Scanned: len(entries),
	}

	if len(hosts) > 0 {
		names, err := s.DeviceNames(ctx)
		if err != nil {
			s.log.WithError(err).Warn("device names unavailable")
		}
		report.DeviceNames = names
	}

	s.log.WithFields(logrus.Fields{
		"server":  q.ServerID,
		"window":  q.Window.String(),
		"scanned": report.Scanned,
		"blocked": len(obs),
		"roots":   len(report.Groups),
	}).Debug("query log analyzed")
	return report, nil
}

func (s *Service) exclusion(rules adguard.UserRulesSettings) unblock.Exclusion {
	if !rules.Enabled || len(rules.Rules) == 0 {
		return nil
	}

	set := unblock.ExclusionFromRules(rules.Rules)
	engine, err := unblock.NewAllowlistEngine(rules.Rules)
	if err != nil {
		s.log.WithError(err).Warn("user rules could not be compiled, matching canonical rules only")
		return set
	}
	return unblock.AnyExclusion(set, engine)
}

func toLogEntry(it adguard.QueryLogItem) unblock.LogEntry {
	return unblock.LogEntry{
		Domain:     it.Domain,
		Time:       it.Time(),
		Status:     unblock.FilteringStatus(it.FilteringInfo.FilteringStatus),
		FilterRule: it.FilteringInfo.FilterRule,
		FilterID:   it.FilteringInfo.FilterID,
		DeviceID:   it.DeviceID,
	}
}
