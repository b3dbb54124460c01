// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

func TestExtractRoot(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.peacocktv.com", "peacocktv.com"},
		{"api-global.netflix.com", "netflix.com"},
		{"sessions.bugsnag.com", "bugsnag.com"},
		{"example.co.uk", "example.co.uk"},
		{"foo.example.co.uk", "example.co.uk"},
		{"a.b.c.example.com.au", "example.com.au"},
		{"shop.example.co.nz", "example.co.nz"},
		{"netflix.com", "netflix.com"},
		{"localhost", "localhost"},
		{"", ""},
		{"co.uk", "co.uk"},
		{"deep.sub.example.org", "example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, unblock.ExtractRoot(tt.host))
		})
	}
}

func TestExtractRootIdempotent(t *testing.T) {
	hosts := []string{
		"www.peacocktv.com",
		"foo.example.co.uk",
		"example.co.uk",
		"co.uk",
		"uk",
		"",
		"a.b.c.d.e.f.com.br",
		"x.co.za",
		"trailing.example.com.",
	}

	for _, h := range hosts {
		once := unblock.ExtractRoot(h)
		assert.Equal(t, once, unblock.ExtractRoot(once), "ExtractRoot not idempotent for %q", h)
		assert.True(t, unblock.IsRoot(once), "IsRoot(%q) should hold for an extracted root", once)
	}
}

func TestExtractRootIsSuffix(t *testing.T) {
	hosts := []string{"www.peacocktv.com", "foo.example.co.uk", "a.b.c", "x.y"}
	for _, h := range hosts {
		root := unblock.ExtractRoot(h)
		assert.True(t, len(root) <= len(h) && h[len(h)-len(root):] == root, "%q is not a suffix of %q", root, h)
	}
}

func TestIsRoot(t *testing.T) {
	assert.True(t, unblock.IsRoot("netflix.com"))
	assert.True(t, unblock.IsRoot("example.co.uk"))
	assert.False(t, unblock.IsRoot("www.netflix.com"))
	assert.False(t, unblock.IsRoot("foo.example.co.uk"))
}

func TestSuffixExtractorCustomTable(t *testing.T) {
	e := unblock.NewSuffixExtractor("co.jp", " ORG.UK ", "")

	assert.Equal(t, "example.co.jp", e.Root("www.example.co.jp"))
	assert.Equal(t, "example.org.uk", e.Root("a.example.org.uk"))
	// co.uk is not in this table.
	assert.Equal(t, "co.uk", e.Root("foo.example.co.uk"))
	assert.ElementsMatch(t, []string{"co.jp", "org.uk"}, e.Suffixes())
}

func TestPublicSuffixExtractor(t *testing.T) {
	var e unblock.PublicSuffixExtractor

	assert.Equal(t, "example.co.uk", e.Root("foo.example.co.uk"))
	assert.Equal(t, "netflix.com", e.Root("api-global.netflix.com"))
	assert.Equal(t, "localhost", e.Root("localhost"), "unresolvable hosts are returned unchanged")
}

func TestAnalyzerOptions(t *testing.T) {
	a := unblock.NewAnalyzer(unblock.WithCompoundSuffixes("com.mx"))
	assert.Equal(t, "tienda.com.mx", a.Root("www.tienda.com.mx"))
	assert.Equal(t, "co.uk", a.Root("foo.example.co.uk"))

	b := unblock.NewAnalyzer(unblock.WithRootExtractor(nil))
	assert.Equal(t, "example.co.uk", b.Root("foo.example.co.uk"), "nil extractor keeps the default")
	assert.True(t, b.IsRoot("example.co.uk"))
}
