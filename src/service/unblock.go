// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/H0llyW00dzZ/dnsunblock/src/adguard"
	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// UnblockResult reports what an unblock call changed.
type UnblockResult struct {
	// Roots are the root domains the request resolved to.
	Roots []string

	// Added holds the rules that were appended.
	Added []string

	// AlreadyPresent holds the roots that were already whitelisted.
	AlreadyPresent []string

	// Folded maps each root to the requested hostnames it absorbed.
	Folded map[string][]string

	// RulesEnabled mirrors the server's user-rules switch. Added rules
	// take no effect while it is off.
	RulesEnabled bool
}

// NoOp reports whether every requested root was already whitelisted.
func (r UnblockResult) NoOp() bool {
	return len(r.Added) == 0
}

// Partial reports whether some roots were added and others were already
// present.
func (r UnblockResult) Partial() bool {
	return len(r.Added) > 0 && len(r.AlreadyPresent) > 0
}

// Preview returns the confirmation summary for requested without
// contacting the provider.
func (s *Service) Preview(requested []string) unblock.Summary {
	return s.analyzer.Summarize(requested)
}

// Unblock whitelists the root domains of requested on a DNS server.
//
// The rule list is read fresh, reconciled and written back only if at
// least one rule is missing; the user-rules switch is preserved. Calls
// for the same server are serialized. Nothing is written when the read
// fails or ctx is done before the write.
func (s *Service) Unblock(ctx context.Context, serverID string, requested []string) (UnblockResult, error) {
	if serverID == "" {
		return UnblockResult{}, ErrMissingServerID
	}
	if len(s.analyzer.Summarize(requested).Roots) == 0 {
		return UnblockResult{}, ErrNoDomains
	}

	lock := s.serverLock(serverID)
	lock.Lock()
	defer lock.Unlock()

	srv, err := s.gw.DNSServer(ctx, serverID)
	if err != nil {
		return UnblockResult{}, err
	}
	current := srv.Settings.UserRulesSettings

	r := s.analyzer.Reconcile(requested, current.Rules)
	res := UnblockResult{
		Roots:          r.Roots,
		AlreadyPresent: r.AlreadyPresent,
		Folded:         r.Folded,
		RulesEnabled:   current.Enabled,
	}

	log := s.log.WithFields(logrus.Fields{
		"server":  serverID,
		"roots":   r.Roots,
		"present": r.AlreadyPresent,
	})
	if r.NoOp() {
		log.Info("all requested roots already whitelisted")
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return UnblockResult{}, err
	}

	err = s.gw.UpdateUserRules(ctx, serverID, adguard.UserRulesSettings{
		Enabled: current.Enabled,
		Rules:   r.Updated,
	})
	if err != nil {
		return UnblockResult{}, err
	}

	res.Added = r.ToAdd
	log.WithField("added", r.ToAdd).Info("whitelist rules appended")
	if !current.Enabled {
		log.Warn("user rules are disabled on this server; added rules have no effect until enabled")
	}
	return res, nil
}
