// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/dnsunblock/src/service"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"blocked", "unblock", "rules", "devices", "verify", "export", "serve", "logout"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "server", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestUnblockRequiresArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"unblock"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"y", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Proceed? [y/N] ", out.String())
	}
}

func TestPrintUnblockResult(t *testing.T) {
	tests := []struct {
		name string
		res  service.UnblockResult
		want []string
		not  []string
	}{
		{
			name: "added",
			res:  service.UnblockResult{Added: []string{"@@||peacocktv.com^"}, RulesEnabled: true},
			want: []string{"Added 1 rule(s)", "@@||peacocktv.com^"},
			not:  []string{"disabled"},
		},
		{
			name: "partial",
			res: service.UnblockResult{
				Added:          []string{"@@||nbcuni.com^"},
				AlreadyPresent: []string{"peacocktv.com"},
				RulesEnabled:   true,
			},
			want: []string{"Added 1 rule(s); already whitelisted: peacocktv.com"},
		},
		{
			name: "no-op",
			res:  service.UnblockResult{AlreadyPresent: []string{"peacocktv.com"}, RulesEnabled: true},
			want: []string{"Already whitelisted: peacocktv.com"},
			not:  []string{"Added"},
		},
		{
			name: "rules disabled",
			res:  service.UnblockResult{Added: []string{"@@||peacocktv.com^"}},
			want: []string{"user rules are disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printUnblockResult(&out, tt.res)
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out.String(), n)
			}
		})
	}
}
