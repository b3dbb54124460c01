// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import (
	"sort"
	"time"
)

// DomainGroup is the set of blocked hostnames sharing one root domain.
type DomainGroup struct {
	// Root is the registrable root domain.
	Root string

	// Members holds every distinct hostname in the group in first-seen
	// order. It includes Root when the root itself was looked up.
	Members []string

	// TotalAttempts is the sum of the members' attempts.
	TotalAttempts int

	// LastSeen is the latest timestamp across members.
	LastSeen time.Time
}

// Subdomains returns the members other than the root itself.
func (g DomainGroup) Subdomains() []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m != g.Root {
			out = append(out, m)
		}
	}
	return out
}

// GroupByRoot partitions observations by root domain.
//
// Every hostname lands in exactly one group. Groups are ordered by LastSeen,
// most recent first; groups with equal LastSeen keep the order in which
// their roots first appeared. An empty input yields an empty slice.
func (a *Analyzer) GroupByRoot(obs []Observation) []DomainGroup {
	groups := make([]DomainGroup, 0)
	index := make(map[string]int)
	members := make(map[string]struct{}, len(obs))

	for _, o := range obs {
		root := a.roots.Root(o.Domain)

		i, ok := index[root]
		if !ok {
			i = len(groups)
			index[root] = i
			groups = append(groups, DomainGroup{Root: root, LastSeen: o.ObservedAt})
		}

		g := &groups[i]
		g.TotalAttempts += attempts(o)
		if _, seen := members[o.Domain]; !seen {
			members[o.Domain] = struct{}{}
			g.Members = append(g.Members, o.Domain)
		}
		if o.ObservedAt.After(g.LastSeen) {
			g.LastSeen = o.ObservedAt
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastSeen.After(groups[j].LastSeen)
	})
	return groups
}

// GroupHostStats groups the output of [Dedupe], carrying each host's
// count and last-seen time into its group.
func (a *Analyzer) GroupHostStats(stats []HostStat) []DomainGroup {
	obs := make([]Observation, len(stats))
	for i, s := range stats {
		obs[i] = Observation{
			Domain:     s.Domain,
			ObservedAt: s.LastSeen,
			Attempts:   s.Count,
			FilterRule: s.LastRule,
			DeviceID:   s.LastDeviceID,
		}
	}
	return a.GroupByRoot(obs)
}
