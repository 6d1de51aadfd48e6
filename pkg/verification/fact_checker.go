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
)

// FactCheckerConfig configures the numeric fact check.
type FactCheckerConfig struct {
	// Enabled turns the analysis on.
	Enabled bool

	// ContextTokens is the half-width of the evidence snippet returned
	// around a confirmed match.
	ContextTokens int
}

// DefaultFactCheckerConfig returns a config with sensible defaults.
func DefaultFactCheckerConfig() *FactCheckerConfig {
	return &FactCheckerConfig{
		Enabled:       true,
		ContextTokens: 10,
	}
}

// NumberFactChecker verifies every number in a response against the
// evidence.
//
// Extraction normalizes currency symbols, thousands separators, trailing
// punctuation, and percent markers; evidence scanning applies the same
// normalization plus spelled-out number words, so "$50,000.00" is confirmed
// by "50000" and "10%" by "ten percent".
//
// Thread Safety: Safe for concurrent use (stateless after construction).
type NumberFactChecker struct {
	config *FactCheckerConfig
}

// NewNumberFactChecker creates the checker. Nil config uses defaults.
func NewNumberFactChecker(config *FactCheckerConfig) *NumberFactChecker {
	if config == nil {
		config = DefaultFactCheckerConfig()
	}
	return &NumberFactChecker{config: config}
}

// Name returns the analysis name for logging and metrics.
func (c *NumberFactChecker) Name() string {
	return "number_fact_checker"
}

// Check extracts each numeric fact from the response and looks for an
// exact, percent-aware numeric equality match in the evidence.
//
// A match resolves its containing metadata span by char offset and emits a
// Confirmed entry with the surrounding evidence snippet, page, and source.
// No match emits Not Confirmed with empty context. Malformed inputs degrade
// to an empty or all-unconfirmed result, never an error.
func (c *NumberFactChecker) Check(ctx context.Context, input *CheckInput) []FactCheckEntry {
	if !c.config.Enabled || input == nil || input.Response == "" {
		return nil
	}

	respToks := scanTokens(input.Response)
	evToks := scanTokens(input.Evidence)

	var entries []FactCheckEntry
	seen := make(map[string]bool)

	for i := range respToks {
		select {
		case <-ctx.Done():
			return entries
		default:
		}

		val, _, ok := numberAt(respToks, i, false)
		if !ok {
			continue
		}
		fact := respToks[i].Text
		if seen[fact] {
			continue
		}
		seen[fact] = true

		entries = append(entries, c.checkFact(input, fact, val, evToks))
	}

	return entries
}

// checkFact scans the evidence tokens for a numerically equal value.
func (c *NumberFactChecker) checkFact(input *CheckInput, fact string, want float64, evToks []tokenSpan) FactCheckEntry {
	for i := 0; i < len(evToks); i++ {
		got, consumed, ok := numberAt(evToks, i, true)
		if !ok {
			continue
		}
		if !numericEqual(want, got) {
			i += consumed - 1
			continue
		}

		entry := FactCheckEntry{
			Fact:   fact,
			Status: StatusConfirmed,
			Text:   c.snippet(input.Evidence, evToks, i),
		}
		if meta, found := input.entryAt(evToks[i].Start); found {
			entry.Source = meta.SourceName
			entry.PageNum = meta.PageNum
		}
		return entry
	}

	return FactCheckEntry{Fact: fact, Status: StatusNotConfirmed}
}

// snippet returns the ±ContextTokens window around evidence token i, cut on
// the prebuilt token offsets.
func (c *NumberFactChecker) snippet(evidence string, evToks []tokenSpan, i int) string {
	lo := i - c.config.ContextTokens
	if lo < 0 {
		lo = 0
	}
	hi := i + c.config.ContextTokens
	if hi > len(evToks)-1 {
		hi = len(evToks) - 1
	}
	return evidence[evToks[lo].Start:evToks[hi].End]
}
