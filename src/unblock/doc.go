// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package unblock turns a DNS provider's query log into a short list of
// blocked root domains and computes the whitelist rules needed to allow
// them again.
//
// The package performs no I/O. Every step is a pure function over values
// fetched elsewhere (see the service package for the full flow):
//
//   - [ExtractRoot] / [RootExtractor] reduce a hostname to its registrable
//     root domain, honoring a small table of compound suffixes such as
//     "co.uk".
//   - [Analyzer.Classify] keeps request- and response-blocked lookups and
//     drops hosts that are already allowed.
//   - [Dedupe] merges lookups per hostname.
//   - [Analyzer.GroupByRoot] partitions hostnames by root and ranks the
//     groups by most recent activity.
//   - [Analyzer.Reconcile] diffs the roots a user wants to unblock against
//     the current rules and returns the new, append-only rule list.
//
// # Quick Start
//
//	a := unblock.NewAnalyzer()
//
//	obs := a.Classify(entries, unblock.ExclusionFromRules(rules))
//	for _, g := range a.GroupByRoot(obs) {
//	    fmt.Printf("%-30s %d attempts\n", g.Root, g.TotalAttempts)
//	}
//
//	r := a.Reconcile([]string{"www.netflix.com"}, rules)
//	if r.NoOp() {
//	    // already whitelisted
//	}
//	// persist r.Updated
//
// # Rule Format
//
// Whitelist rules are always emitted as
//
//	@@||example.com^
//
// which allows example.com and all of its subdomains.
package unblock
