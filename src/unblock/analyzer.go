// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package unblock

// Analyzer bundles the classification, grouping and reconciliation steps
// around a single [RootExtractor], so that the roots shown to the user and
// the rules written to the provider always come from the same extraction.
//
// An Analyzer holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	roots RootExtractor
}

// Option is a functional option for configuring an [Analyzer].
type Option func(*Analyzer)

// WithRootExtractor replaces the root extractor.
// Passing nil is a no-op and the default extractor is kept.
func WithRootExtractor(r RootExtractor) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.roots = r
		}
	}
}

// WithCompoundSuffixes uses a [SuffixExtractor] built from the given
// compound suffixes instead of [DefaultCompoundSuffixes].
func WithCompoundSuffixes(suffixes ...string) Option {
	return func(a *Analyzer) {
		a.roots = NewSuffixExtractor(suffixes...)
	}
}

// NewAnalyzer creates an [Analyzer]. Without options it uses the default
// compound suffix table.
//
//	a := unblock.NewAnalyzer()
//	groups := a.GroupByRoot(a.Classify(entries, unblock.ExclusionFromRules(rules)))
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{roots: defaultExtractor}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Root returns the root domain of host.
func (a *Analyzer) Root(host string) string {
	return a.roots.Root(host)
}

// IsRoot reports whether host is its own root domain.
func (a *Analyzer) IsRoot(host string) bool {
	return a.roots.Root(host) == host
}
