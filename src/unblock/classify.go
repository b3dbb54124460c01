// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import "time"

// LogEntry is one raw query log record as reported by the provider.
type LogEntry struct {
	Domain     string
	Time       time.Time
	Status     FilteringStatus
	FilterRule string
	FilterID   string
	DeviceID   string
}

// Observation is a single blocked lookup after classification.
type Observation struct {
	// Domain is the normalized hostname.
	Domain string

	// ObservedAt is when the lookup happened.
	ObservedAt time.Time

	// Attempts is the number of lookups this observation stands for.
	// It is 1 straight out of [Analyzer.Classify].
	Attempts int

	// FilterRule is the rule that blocked the lookup, if reported.
	FilterRule string

	// DeviceID is the provider's device identifier, if reported.
	DeviceID string
}

// HostStat is the per-hostname summary produced by [Dedupe].
type HostStat struct {
	Domain       string
	Count        int
	LastSeen     time.Time
	LastRule     string
	LastDeviceID string
}

// Exclusion decides whether a blocked hostname should be hidden because it
// is already allowed.
type Exclusion interface {
	Excludes(host, root string) bool
}

// ExclusionSet is a set of hostnames and root domains that are already
// whitelisted. A host is excluded when either the host itself or its root
// is in the set.
type ExclusionSet map[string]struct{}

// Excludes implements [Exclusion].
func (s ExclusionSet) Excludes(host, root string) bool {
	if _, ok := s[host]; ok {
		return true
	}
	_, ok := s[root]
	return ok
}

// ExclusionFromRules builds an [ExclusionSet] from the domains of every
// canonical whitelist rule in rules. Other rules are ignored.
func ExclusionFromRules(rules []string) ExclusionSet {
	set := make(ExclusionSet, len(rules))
	for _, r := range rules {
		if d, ok := ParseRule(r); ok {
			set[d] = struct{}{}
		}
	}
	return set
}

type anyExclusion []Exclusion

func (a anyExclusion) Excludes(host, root string) bool {
	for _, e := range a {
		if e != nil && e.Excludes(host, root) {
			return true
		}
	}
	return false
}

// AnyExclusion combines several exclusions; a host is excluded when any of
// them excludes it. Nil entries are skipped.
func AnyExclusion(ex ...Exclusion) Exclusion {
	return anyExclusion(ex)
}

// Classify keeps the blocked entries, normalizes their hostnames and drops
// the ones excl says are already allowed. A nil excl excludes nothing.
//
// Each returned [Observation] has Attempts set to 1.
func (a *Analyzer) Classify(entries []LogEntry, excl Exclusion) []Observation {
	out := make([]Observation, 0, len(entries))
	for _, e := range entries {
		if !e.Status.Blocked() {
			continue
		}

		host := NormalizeHost(e.Domain)
		if host == "" {
			continue
		}

		if excl != nil && excl.Excludes(host, a.roots.Root(host)) {
			continue
		}

		out = append(out, Observation{
			Domain:     host,
			ObservedAt: e.Time,
			Attempts:   1,
			FilterRule: e.FilterRule,
			DeviceID:   e.DeviceID,
		})
	}
	return out
}

// Dedupe merges observations that share the exact same hostname.
//
// Counts are summed and LastSeen is the latest timestamp. LastRule and
// LastDeviceID come from the observation holding that timestamp; when two
// observations share it, the one seen first wins. Output keeps the order in
// which hostnames first appear.
func Dedupe(obs []Observation) []HostStat {
	index := make(map[string]int, len(obs))
	out := make([]HostStat, 0, len(obs))

	for _, o := range obs {
		n := attempts(o)
		i, ok := index[o.Domain]
		if !ok {
			index[o.Domain] = len(out)
			out = append(out, HostStat{
				Domain:       o.Domain,
				Count:        n,
				LastSeen:     o.ObservedAt,
				LastRule:     o.FilterRule,
				LastDeviceID: o.DeviceID,
			})
			continue
		}

		s := &out[i]
		s.Count += n
		if o.ObservedAt.After(s.LastSeen) {
			s.LastSeen = o.ObservedAt
			s.LastRule = o.FilterRule
			s.LastDeviceID = o.DeviceID
		}
	}
	return out
}

func attempts(o Observation) int {
	if o.Attempts < 1 {
		return 1
	}
	return o.Attempts
}
