// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package probe

import (
	"strings"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// IsValidDomain reports whether domain is a syntactically valid ASCII
// domain name with at least two labels. Each label is 1-63 characters of
// letters, digits or hyphens and does not start or end with a hyphen; the
// last label is letters only, or an IDNA "xn--" label.
func IsValidDomain(domain string) bool {
	if domain == "" || len(domain) > 253 {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}

	for i, label := range labels {
		if len(label) < 1 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}

		isTLD := i == len(labels)-1
		if isTLD && strings.HasPrefix(label, "xn--") {
			continue
		}

		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9', c == '-':
				if isTLD {
					return false
				}
			default:
				return false
			}
		}
	}

	return true
}

// normalizeDomain accepts the same input forms as the unblock flow,
// including pasted whitelist rules and internationalized names.
func normalizeDomain(domain string) string {
	return unblock.CleanDomain(domain)
}
