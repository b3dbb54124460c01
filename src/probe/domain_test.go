// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Example.Com", "example.com"},
		{"  example.com  ", "example.com"},
		{"www.peacocktv.com.", "www.peacocktv.com"},

		// Pasted whitelist rules.
		{"@@||peacocktv.com^", "peacocktv.com"},
		{"||ads.example.net^", "ads.example.net"},
		{"https://www.peacocktv.com/watch", "www.peacocktv.com"},
		{"not a domain!", ""},

		// Uppercase punycode is lowercased.
		{"XN--12C1FE0BR.XN--O3CW4H", "xn--12c1fe0br.xn--o3cw4h"},
		{"XN--MGBH0FB.XN--WGBH1C", "xn--mgbh0fb.xn--wgbh1c"},

		// Unicode names are converted.
		{"bücher.de", "xn--bcher-kva.de"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDomain(tt.input), "input %q", tt.input)
	}
}

func TestNormalizedDomainsAreValid(t *testing.T) {
	for _, in := range []string{"@@||peacocktv.com^", "bücher.de", "WWW.EXAMPLE.COM."} {
		assert.True(t, IsValidDomain(normalizeDomain(in)), in)
	}
}
