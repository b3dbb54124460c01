// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

var t0 = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestFilteringStatusBlocked(t *testing.T) {
	tests := []struct {
		status unblock.FilteringStatus
		want   bool
	}{
		{unblock.StatusRequestBlocked, true},
		{unblock.StatusResponseBlocked, true},
		{unblock.StatusNone, false},
		{unblock.StatusRequestAllowed, false},
		{unblock.StatusResponseAllowed, false},
		{unblock.StatusModified, false},
		{"", false},
		{"request_blocked", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Blocked())
		})
	}
}

func TestClassifyKeepsOnlyBlocked(t *testing.T) {
	a := unblock.NewAnalyzer()
	entries := []unblock.LogEntry{
		{Domain: "a.example.com", Time: t0, Status: unblock.StatusRequestBlocked},
		{Domain: "b.example.com", Time: t0, Status: unblock.StatusResponseBlocked},
		{Domain: "c.example.com", Time: t0, Status: unblock.StatusNone},
		{Domain: "d.example.com", Time: t0},
		{Domain: "e.example.com", Time: t0, Status: unblock.StatusRequestAllowed},
	}

	obs := a.Classify(entries, nil)
	require.Len(t, obs, 2)
	assert.Equal(t, "a.example.com", obs[0].Domain)
	assert.Equal(t, "b.example.com", obs[1].Domain)
	for _, o := range obs {
		assert.Equal(t, 1, o.Attempts)
	}
}

func TestClassifyNormalizesAndCarriesFields(t *testing.T) {
	a := unblock.NewAnalyzer()
	entries := []unblock.LogEntry{
		{
			Domain:     " Tracker.Example.COM. ",
			Time:       t0,
			Status:     unblock.StatusRequestBlocked,
			FilterRule: "||tracker.example.com^",
			DeviceID:   "dev-1",
		},
		{Domain: "   ", Time: t0, Status: unblock.StatusRequestBlocked},
	}

	obs := a.Classify(entries, nil)
	require.Len(t, obs, 1)
	assert.Equal(t, "tracker.example.com", obs[0].Domain)
	assert.Equal(t, t0, obs[0].ObservedAt)
	assert.Equal(t, "||tracker.example.com^", obs[0].FilterRule)
	assert.Equal(t, "dev-1", obs[0].DeviceID)
}

func TestClassifyExclusion(t *testing.T) {
	a := unblock.NewAnalyzer()
	entries := []unblock.LogEntry{
		{Domain: "www.netflix.com", Time: t0, Status: unblock.StatusRequestBlocked},
		{Domain: "exact.tracker.io", Time: t0, Status: unblock.StatusRequestBlocked},
		{Domain: "other.tracker.io", Time: t0, Status: unblock.StatusRequestBlocked},
		{Domain: "ads.example.com", Time: t0, Status: unblock.StatusRequestBlocked},
	}

	excl := unblock.ExclusionSet{
		"netflix.com":      {}, // root match
		"exact.tracker.io": {}, // exact host match
	}

	obs := a.Classify(entries, excl)
	require.Len(t, obs, 2)
	assert.Equal(t, "other.tracker.io", obs[0].Domain)
	assert.Equal(t, "ads.example.com", obs[1].Domain)
}

func TestExclusionFromRules(t *testing.T) {
	set := unblock.ExclusionFromRules([]string{
		"@@||Netflix.com^",
		"||ads.example.com^",
		"@@||cdn.example.org^$important",
		"! comment",
		"",
	})

	assert.Len(t, set, 1)
	assert.True(t, set.Excludes("www.netflix.com", "netflix.com"))
	assert.False(t, set.Excludes("ads.example.com", "example.com"))
}

func TestAnyExclusion(t *testing.T) {
	ex := unblock.AnyExclusion(nil, unblock.ExclusionSet{"a.com": {}}, unblock.ExclusionSet{"b.com": {}})

	assert.True(t, ex.Excludes("x.a.com", "a.com"))
	assert.True(t, ex.Excludes("b.com", "b.com"))
	assert.False(t, ex.Excludes("c.com", "c.com"))
}

func TestDedupe(t *testing.T) {
	obs := []unblock.Observation{
		{Domain: "a.example.com", ObservedAt: t0, Attempts: 1, FilterRule: "r1", DeviceID: "d1"},
		{Domain: "b.example.com", ObservedAt: t0, Attempts: 1},
		{Domain: "a.example.com", ObservedAt: t0.Add(time.Minute), Attempts: 1, FilterRule: "r2", DeviceID: "d2"},
		{Domain: "a.example.com", ObservedAt: t0.Add(-time.Minute), Attempts: 1, FilterRule: "r0", DeviceID: "d0"},
	}

	stats := unblock.Dedupe(obs)
	require.Len(t, stats, 2)

	assert.Equal(t, "a.example.com", stats[0].Domain)
	assert.Equal(t, 3, stats[0].Count)
	assert.Equal(t, t0.Add(time.Minute), stats[0].LastSeen)
	assert.Equal(t, "r2", stats[0].LastRule)
	assert.Equal(t, "d2", stats[0].LastDeviceID)

	assert.Equal(t, "b.example.com", stats[1].Domain)
	assert.Equal(t, 1, stats[1].Count)
}

func TestDedupeTieFirstSeenWins(t *testing.T) {
	obs := []unblock.Observation{
		{Domain: "a.example.com", ObservedAt: t0, Attempts: 1, FilterRule: "first", DeviceID: "d1"},
		{Domain: "a.example.com", ObservedAt: t0, Attempts: 1, FilterRule: "second", DeviceID: "d2"},
	}

	stats := unblock.Dedupe(obs)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, "first", stats[0].LastRule)
	assert.Equal(t, "d1", stats[0].LastDeviceID)
}

func TestDedupeEmpty(t *testing.T) {
	stats := unblock.Dedupe(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
