// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

func TestFormatAndParseRule(t *testing.T) {
	assert.Equal(t, "@@||netflix.com^", unblock.FormatRule("netflix.com"))

	d, ok := unblock.ParseRule("@@||netflix.com^")
	require.True(t, ok)
	assert.Equal(t, "netflix.com", d)

	for _, bad := range []string{"||netflix.com^", "@@||^", "@@||a.com^$important", "@@|a.com^", "netflix.com"} {
		_, ok := unblock.ParseRule(bad)
		assert.False(t, ok, "ParseRule(%q)", bad)
	}
}

func TestCleanDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"netflix.com", "netflix.com"},
		{"@@||netflix.com^", "netflix.com"},
		{"@@||netflix.com^^^", "netflix.com"},
		{"||netflix.com^", "netflix.com"},
		{"  WWW.Netflix.com  ", "www.netflix.com"},
		{"netflix.com.", "netflix.com"},
		{"@@||", ""},
		{"", ""},

		// Pasted URLs and wildcards.
		{"https://www.netflix.com/browse", "www.netflix.com"},
		{"http://Netflix.com:8080/?q=1", "netflix.com"},
		{"netflix.com/title#top", "netflix.com"},
		{"*.netflix.com", "netflix.com"},
		{"@@||*.netflix.com^", "netflix.com"},

		// Anything that is not a hostname is dropped.
		{"@@||netflix.com^$important", ""},
		{"user@netflix.com", ""},
		{"net flix.com", ""},
		{"-netflix.com", ""},
		{"netflix..com", ""},
		{"https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unblock.CleanDomain(tt.in))
		})
	}
}

func TestReconcileCollapsesDuplicateRoots(t *testing.T) {
	a := unblock.NewAnalyzer()
	r := a.Reconcile([]string{"netflix.com", "www.netflix.com"}, nil)

	assert.Equal(t, []string{"@@||netflix.com^"}, r.ToAdd)
	assert.Empty(t, r.AlreadyPresent)
	assert.Equal(t, []string{"netflix.com"}, r.Roots)
	assert.Equal(t, []string{"@@||netflix.com^"}, r.Updated)
	assert.False(t, r.NoOp())
}

func TestReconcileAlreadyPresent(t *testing.T) {
	a := unblock.NewAnalyzer()
	current := []string{"@@||example.com^"}
	r := a.Reconcile([]string{"example.com"}, current)

	assert.Empty(t, r.ToAdd)
	assert.Equal(t, []string{"example.com"}, r.AlreadyPresent)
	assert.Equal(t, current, r.Updated)
	assert.True(t, r.NoOp())
}

func TestReconcileMatchesExistingRulesIgnoringCase(t *testing.T) {
	a := unblock.NewAnalyzer()
	current := []string{"@@||Example.com^"}
	r := a.Reconcile([]string{"example.com"}, current)

	assert.Empty(t, r.ToAdd)
	assert.Equal(t, []string{"example.com"}, r.AlreadyPresent)
	assert.Equal(t, current, r.Updated)
	assert.True(t, r.NoOp())

	// Both sides agree: the same rule hides the host from the blocked list.
	assert.True(t, unblock.ExclusionFromRules(current).Excludes("example.com", "example.com"))
}

func TestReconcileURLAndGarbageInput(t *testing.T) {
	a := unblock.NewAnalyzer()
	r := a.Reconcile([]string{
		"https://www.netflix.com/browse",
		"NETFLIX.com.",
		"not a domain!",
		"@@||bad^$important",
	}, nil)

	assert.Equal(t, []string{"netflix.com"}, r.Roots)
	assert.Equal(t, []string{"@@||netflix.com^"}, r.ToAdd)
	assert.Equal(t, []string{"www.netflix.com"}, r.Folded["netflix.com"])

	for _, rule := range r.ToAdd {
		d, ok := unblock.ParseRule(rule)
		require.True(t, ok, rule)
		assert.True(t, unblock.IsHostname(d), rule)
	}
}

func TestReconcilePartial(t *testing.T) {
	a := unblock.NewAnalyzer()
	current := []string{"||ads.net^", "@@||example.com^"}
	r := a.Reconcile([]string{"cdn.example.com", "api-global.netflix.com", "@@||peacocktv.com^"}, current)

	assert.Equal(t, []string{"@@||netflix.com^", "@@||peacocktv.com^"}, r.ToAdd)
	assert.Equal(t, []string{"example.com"}, r.AlreadyPresent)
	assert.Equal(t, []string{
		"||ads.net^",
		"@@||example.com^",
		"@@||netflix.com^",
		"@@||peacocktv.com^",
	}, r.Updated)
}

func TestReconcileDoesNotMutateCurrent(t *testing.T) {
	a := unblock.NewAnalyzer()
	current := make([]string, 1, 8)
	current[0] = "||ads.net^"

	r := a.Reconcile([]string{"netflix.com"}, current)
	require.Len(t, r.Updated, 2)

	r.Updated[0] = "changed"
	assert.Equal(t, []string{"||ads.net^"}, current)
	assert.Equal(t, "", current[:2][1], "backing array must not be written")
}

func TestReconcileIdempotent(t *testing.T) {
	a := unblock.NewAnalyzer()
	requests := [][]string{
		{"netflix.com", "www.netflix.com"},
		{"foo.example.co.uk", "@@||bar.example.co.uk^", "Example.CO.UK"},
		{"sessions.bugsnag.com", "www.peacocktv.com", "cdn.peacocktv.com"},
		{"", "  ", "@@||"},
	}

	for _, req := range requests {
		first := a.Reconcile(req, []string{"||tracker.com^"})
		second := a.Reconcile(req, first.Updated)

		assert.Empty(t, second.ToAdd, "second reconcile must be a no-op for %v", req)
		assert.Equal(t, first.Updated, second.Updated)
		assert.Equal(t, first.Roots, second.AlreadyPresent)
	}
}

func TestReconcileFolded(t *testing.T) {
	a := unblock.NewAnalyzer()
	r := a.Reconcile([]string{
		"www.netflix.com",
		"netflix.com",
		"api-global.netflix.com",
		"www.netflix.com",
		"bugsnag.com",
	}, nil)

	assert.Equal(t, []string{"netflix.com", "bugsnag.com"}, r.Roots)
	assert.Equal(t, []string{"www.netflix.com", "api-global.netflix.com"}, r.Folded["netflix.com"])
	assert.Empty(t, r.Folded["bugsnag.com"])
}

func TestSummarizeMatchesReconcile(t *testing.T) {
	a := unblock.NewAnalyzer()
	req := []string{"www.netflix.com", "foo.example.co.uk", "netflix.com"}

	s := a.Summarize(req)
	r := a.Reconcile(req, nil)

	assert.Equal(t, r.Roots, s.Roots)
	assert.Equal(t, r.Folded, s.Folded)
	assert.Equal(t,
		"netflix.com (also covers www.netflix.com)\nexample.co.uk (also covers foo.example.co.uk)",
		s.String())
}
