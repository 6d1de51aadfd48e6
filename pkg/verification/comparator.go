// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package verification

import (
	"context"
	"fmt"
)

// ComparatorConfig configures the aggregate token comparison.
type ComparatorConfig struct {
	// Enabled turns the analysis on.
	Enabled bool
}

// DefaultComparatorConfig returns a config with sensible defaults.
func DefaultComparatorConfig() *ComparatorConfig {
	return &ComparatorConfig{Enabled: true}
}

// TokenComparator computes the aggregate verified token match ratio.
//
// Response tokens are stopword-filtered and looked up verbatim in the
// evidence; numeric tokens also match by value, and spelled-out numbers in
// the evidence ("twenty", "fifty percent") are converted to numeric
// literals first, so a numeric answer validates against prose evidence.
//
// Thread Safety: Safe for concurrent use (stateless after construction).
type TokenComparator struct {
	config *ComparatorConfig
}

// NewTokenComparator creates the comparator. Nil config uses defaults.
func NewTokenComparator(config *ComparatorConfig) *TokenComparator {
	if config == nil {
		config = DefaultComparatorConfig()
	}
	return &TokenComparator{config: config}
}

// Name returns the analysis name for logging and metrics.
func (c *TokenComparator) Name() string {
	return "token_comparator"
}

// Compare scores the response (or its pre-segmented key points) against
// the evidence.
//
// An empty or all-stopword response yields a zero ratio rather than an
// error.
func (c *TokenComparator) Compare(ctx context.Context, input *CheckInput) *ComparisonStats {
	if !c.config.Enabled || input == nil {
		return nil
	}

	evidence := newEvidenceSet(input.Evidence)

	keyPoints := input.KeyPoints
	if len(keyPoints) == 0 {
		keyPoints = []string{input.Response}
	}

	stats := &ComparisonStats{
		ConfirmedWords:   []string{},
		UnconfirmedWords: []string{},
	}
	total := 0
	confirmed := 0

	for _, kp := range keyPoints {
		if ctx.Err() != nil {
			break
		}

		kpTotal := 0
		kpConfirmed := 0
		for _, tok := range scanTokens(kp) {
			norm := normalizeToken(tok.Text)
			if !isContentToken(norm) {
				continue
			}
			kpTotal++
			if evidence.contains(tok.Text, norm) {
				kpConfirmed++
				stats.ConfirmedWords = append(stats.ConfirmedWords, norm)
			} else {
				stats.UnconfirmedWords = append(stats.UnconfirmedWords, norm)
			}
		}

		kpRatio := 0.0
		if kpTotal > 0 {
			kpRatio = float64(kpConfirmed) / float64(kpTotal)
		}
		stats.KeyPointList = append(stats.KeyPointList, KeyPoint{Text: kp, Ratio: kpRatio})

		total += kpTotal
		confirmed += kpConfirmed
	}

	if total > 0 {
		stats.VerifiedTokenMatchRatio = float64(confirmed) / float64(total)
	}
	stats.PercentDisplay = fmt.Sprintf("%.1f%%", stats.VerifiedTokenMatchRatio*100)

	return stats
}

// evidenceSet indexes evidence tokens for verbatim and numeric lookup.
type evidenceSet struct {
	words    map[string]bool
	numerics []float64
}

// newEvidenceSet scans the evidence once, collecting the normalized token
// set and every numeric value, spelled-out numbers included.
func newEvidenceSet(evidence string) *evidenceSet {
	set := &evidenceSet{words: make(map[string]bool)}
	toks := scanTokens(evidence)
	for i := 0; i < len(toks); i++ {
		set.words[normalizeToken(toks[i].Text)] = true
		if val, consumed, ok := numberAt(toks, i, true); ok {
			set.numerics = append(set.numerics, val)
			i += consumed - 1
		}
	}
	return set
}

// contains reports whether a response token is supported verbatim or by
// numeric equality.
func (s *evidenceSet) contains(raw, norm string) bool {
	if s.words[norm] {
		return true
	}
	if want, ok := parseNumeric(raw); ok {
		for _, got := range s.numerics {
			if numericEqual(want, got) {
				return true
			}
		}
	}
	return false
}
