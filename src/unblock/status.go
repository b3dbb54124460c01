// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

// FilteringStatus is the provider's classification of a single lookup.
type FilteringStatus string

// Filtering statuses reported in the query log.
const (
	StatusNone            FilteringStatus = "NONE"
	StatusRequestAllowed  FilteringStatus = "REQUEST_ALLOWED"
	StatusResponseAllowed FilteringStatus = "RESPONSE_ALLOWED"
	StatusRequestBlocked  FilteringStatus = "REQUEST_BLOCKED"
	StatusResponseBlocked FilteringStatus = "RESPONSE_BLOCKED"
	StatusModified        FilteringStatus = "MODIFIED"
)

// Blocked reports whether the status marks a request-phase or
// response-phase block. Any other value, including the empty status,
// is not a block.
func (s FilteringStatus) Blocked() bool {
	return s == StatusRequestBlocked || s == StatusResponseBlocked
}
