// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import "strings"

// Whitelist rule syntax: "@@" marks an exception, "||" anchors the domain
// and its subdomains, "^" terminates the domain.
const (
	ruleAllowPrefix = "@@"
	ruleAnchor      = "||"
	ruleSeparator   = "^"
)

// FormatRule returns the canonical whitelist rule for root:
// "@@||" + root + "^".
func FormatRule(root string) string {
	return ruleAllowPrefix + ruleAnchor + root + ruleSeparator
}

// ParseRule extracts the domain from a canonical whitelist rule.
// It reports false for any other rule text, including blocking rules and
// rules carrying modifiers.
func ParseRule(rule string) (string, bool) {
	rule = strings.TrimSpace(rule)
	if !strings.HasPrefix(rule, ruleAllowPrefix+ruleAnchor) || !strings.HasSuffix(rule, ruleSeparator) {
		return "", false
	}

	d := strings.TrimSuffix(strings.TrimPrefix(rule, ruleAllowPrefix+ruleAnchor), ruleSeparator)
	if d == "" || strings.ContainsAny(d, "^$|/*") {
		return "", false
	}
	return strings.ToLower(d), true
}

// CleanDomain extracts the hostname from what a caller may have pasted:
// a bare domain, a whitelist or blocking rule ("@@||d^", "||d^"), a URL
// ("https://d:8443/path"), or a wildcard ("*.d"). The result is
// normalized with [NormalizeHost]. Input that does not reduce to a valid
// hostname yields "".
//
// CleanDomain(FormatRule(d)) == CleanDomain(d).
func CleanDomain(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ruleAllowPrefix)
	s = strings.TrimPrefix(s, ruleAnchor)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, ruleSeparator)
	s = strings.TrimPrefix(s, "*.")
	if i := strings.LastIndexByte(s, ':'); i >= 0 && isPort(s[i+1:]) {
		s = s[:i]
	}

	host := NormalizeHost(s)
	if !IsHostname(host) {
		return ""
	}
	return host
}

func isPort(s string) bool {
	if s == "" || len(s) > 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
