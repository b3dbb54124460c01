// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import (
	"fmt"
	"strings"

	"github.com/AdguardTeam/urlfilter"
	"github.com/AdguardTeam/urlfilter/filterlist"
)

const userRulesListID = 1

// AllowlistEngine evaluates a user rule list with the AdGuard filtering
// engine. Unlike [ExclusionSet] it understands exception rules written for
// intermediate subdomains, e.g. "@@||cdn.example.com^" covering
// "img.cdn.example.com".
type AllowlistEngine struct {
	engine *urlfilter.DNSEngine
	rules  int
}

// NewAllowlistEngine compiles rules into an [AllowlistEngine].
// Blocking rules in the list are compiled too; they never cause a host to
// be reported as allowed.
func NewAllowlistEngine(rules []string) (*AllowlistEngine, error) {
	list := filterlist.NewString(&filterlist.StringConfig{
		RulesText:      strings.Join(rules, "\n"),
		ID:             userRulesListID,
		IgnoreCosmetic: true,
	})

	storage, err := filterlist.NewRuleStorage([]filterlist.Interface{list})
	if err != nil {
		return nil, fmt.Errorf("unblock: compile user rules: %w", err)
	}

	return &AllowlistEngine{
		engine: urlfilter.NewDNSEngine(storage),
		rules:  len(rules),
	}, nil
}

// Allowed reports whether host matches an exception rule.
func (e *AllowlistEngine) Allowed(host string) bool {
	if e == nil || e.engine == nil {
		return false
	}

	res, ok := e.engine.Match(host)
	if !ok || res == nil || res.NetworkRule == nil {
		return false
	}
	return strings.HasPrefix(res.NetworkRule.Text(), ruleAllowPrefix)
}

// Excludes implements [Exclusion].
func (e *AllowlistEngine) Excludes(host, _ string) bool {
	return e.Allowed(host)
}

// Len returns the number of rules the engine was built from.
func (e *AllowlistEngine) Len() int {
	if e == nil {
		return 0
	}
	return e.rules
}
