// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// NormalizeHost lowercases and trims a hostname, drops a trailing dot and
// converts internationalized names to their ASCII form.
//
// It never fails: a name IDNA cannot convert is only lowercased.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), ".")
	if host == "" {
		return ""
	}

	if isASCII(host) {
		return strings.ToLower(host)
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(ascii)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// IsHostname reports whether host is a lowercase ASCII hostname: labels of
// 1-63 letters, digits, hyphens or underscores, no label starting or ending
// with a hyphen, at most 253 characters in total.
func IsHostname(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			default:
				return false
			}
		}
	}
	return true
}
