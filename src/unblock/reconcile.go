// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import (
	"fmt"
	"strings"
)

// Reconciliation is the outcome of diffing requested domains against the
// current user rules.
type Reconciliation struct {
	// Roots lists the unique requested root domains in request order.
	Roots []string

	// ToAdd holds the whitelist rules missing from the current list.
	ToAdd []string

	// AlreadyPresent holds the roots whose rule already exists.
	AlreadyPresent []string

	// Updated is the current list followed by ToAdd. It is a fresh slice.
	Updated []string

	// Folded maps each root to the other requested hostnames that
	// collapsed into it, in request order.
	Folded map[string][]string
}

// NoOp reports whether nothing needs to be written.
func (r Reconciliation) NoOp() bool {
	return len(r.ToAdd) == 0
}

// Reconcile computes which whitelist rules must be appended to current so
// that every requested domain's root is allowed.
//
// Requested strings go through [CleanDomain] before the root is derived;
// entries that do not reduce to a hostname are skipped. A root requested
// more than once is handled once. Existing canonical rules are matched
// case-insensitively, like [ExclusionFromRules]. They are never removed
// or reordered, and current itself is not modified. Reconciling the same
// request against Updated yields an empty ToAdd.
func (a *Analyzer) Reconcile(requested, current []string) Reconciliation {
	existing := make(map[string]struct{}, len(current))
	for _, r := range current {
		if d, ok := ParseRule(r); ok {
			existing[FormatRule(d)] = struct{}{}
		}
	}

	res := Reconciliation{
		Roots:          make([]string, 0, len(requested)),
		ToAdd:          make([]string, 0, len(requested)),
		AlreadyPresent: make([]string, 0),
		Folded:         make(map[string][]string, len(requested)),
	}

	for _, raw := range requested {
		host := CleanDomain(raw)
		if host == "" {
			continue
		}
		root := a.roots.Root(host)

		folded, scheduled := res.Folded[root]
		if host != root && !contains(folded, host) {
			folded = append(folded, host)
		}
		res.Folded[root] = folded
		if scheduled {
			continue
		}

		res.Roots = append(res.Roots, root)
		rule := FormatRule(root)
		if _, ok := existing[rule]; ok {
			res.AlreadyPresent = append(res.AlreadyPresent, root)
			continue
		}
		existing[rule] = struct{}{}
		res.ToAdd = append(res.ToAdd, rule)
	}

	res.Updated = make([]string, 0, len(current)+len(res.ToAdd))
	res.Updated = append(res.Updated, current...)
	res.Updated = append(res.Updated, res.ToAdd...)
	return res
}

// Summary describes, before anything is written, which roots a request
// resolves to and which requested hostnames each root absorbs.
type Summary struct {
	Roots  []string
	Folded map[string][]string
}

// Summarize runs the same root extraction and de-duplication as
// [Analyzer.Reconcile], so the confirmation text matches what will be
// written.
func (a *Analyzer) Summarize(requested []string) Summary {
	r := a.Reconcile(requested, nil)
	return Summary{Roots: r.Roots, Folded: r.Folded}
}

// String renders one line per root, e.g.
//
//	netflix.com (also covers www.netflix.com, api-global.netflix.com)
func (s Summary) String() string {
	var b strings.Builder
	for i, root := range s.Roots {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(root)
		if other := s.Folded[root]; len(other) > 0 {
			fmt.Fprintf(&b, " (also covers %s)", strings.Join(other, ", "))
		}
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
