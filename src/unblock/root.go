// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultCompoundSuffixes are the two-label public suffixes recognized by
// the default extractor. Hostnames under one of these keep three labels.
var DefaultCompoundSuffixes = []string{
	"co.uk",
	"com.au",
	"co.nz",
	"co.za",
	"com.br",
}

// RootExtractor maps a hostname to its registrable root domain.
//
// Implementations must be total and idempotent:
// Root(Root(h)) == Root(h) for every h.
type RootExtractor interface {
	Root(host string) string
}

// SuffixExtractor is the default [RootExtractor]. It keeps the last two
// labels of a hostname, or the last three when the last two form one of
// its compound suffixes.
type SuffixExtractor struct {
	compound map[string]struct{}
}

// NewSuffixExtractor returns a [SuffixExtractor] for the given compound
// suffixes. Suffixes are lowercased; empty entries are ignored.
// Calling it with no arguments yields an extractor without exceptions.
func NewSuffixExtractor(suffixes ...string) *SuffixExtractor {
	e := &SuffixExtractor{compound: make(map[string]struct{}, len(suffixes))}
	for _, s := range suffixes {
		s = strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".")
		if s == "" {
			continue
		}
		e.compound[s] = struct{}{}
	}
	return e
}

// Root returns the registrable root domain of host.
//
// A hostname with fewer than two labels, or a bare compound suffix such as
// "co.uk", is returned unchanged.
func (e *SuffixExtractor) Root(host string) string {
	labels := strings.Split(host, ".")
	n := len(labels)
	if n < 2 {
		return host
	}

	candidate := labels[n-2] + "." + labels[n-1]
	if _, ok := e.compound[candidate]; !ok {
		return candidate
	}
	if n < 3 {
		return host
	}
	return labels[n-3] + "." + candidate
}

// Suffixes returns the compound suffixes known to the extractor, in no
// particular order.
func (e *SuffixExtractor) Suffixes() []string {
	out := make([]string, 0, len(e.compound))
	for s := range e.compound {
		out = append(out, s)
	}
	return out
}

// PublicSuffixExtractor resolves roots with the full public suffix list
// compiled into golang.org/x/net/publicsuffix.
//
// It is not limited to two or three labels: "a.b.github.io" yields
// "b.github.io". Hosts the list cannot handle are returned unchanged.
type PublicSuffixExtractor struct{}

// Root implements [RootExtractor].
func (PublicSuffixExtractor) Root(host string) string {
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}

var defaultExtractor = NewSuffixExtractor(DefaultCompoundSuffixes...)

// ExtractRoot returns the root domain of host using the default compound
// suffix table.
func ExtractRoot(host string) string {
	return defaultExtractor.Root(host)
}

// IsRoot reports whether host is its own root domain under the default
// compound suffix table.
func IsRoot(host string) bool {
	return ExtractRoot(host) == host
}
