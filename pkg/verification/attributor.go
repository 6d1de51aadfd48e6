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
	"sort"
)

// AttributorConfig configures source attribution.
type AttributorConfig struct {
	// Enabled turns the analysis on.
	Enabled bool

	// MinRatio is the overlap-ratio floor for a candidate span.
	MinRatio float64

	// MinCount is the absolute overlap-count floor for a candidate span.
	// A span qualifies when either floor is cleared.
	MinCount int

	// Conclusive stops the scan early once a candidate reaches this
	// ratio.
	Conclusive float64

	// MaxCandidates bounds the returned list.
	MaxCandidates int

	// SnippetTokens is the half-width of the snippet around the median
	// matching token.
	SnippetTokens int
}

// DefaultAttributorConfig returns a config with sensible defaults.
func DefaultAttributorConfig() *AttributorConfig {
	return &AttributorConfig{
		Enabled:       true,
		MinRatio:      0.25,
		MinCount:      3,
		Conclusive:    0.75,
		MaxCandidates: 3,
		SnippetTokens: 10,
	}
}

// SourceAttributor ranks which evidence span most likely produced the
// response.
//
// Each metadata span's tokens are compared against the stopword-filtered
// response tokens; spans clearing either the ratio or the absolute-count
// floor become candidates. Scanning stops early once a span is conclusive.
//
// Thread Safety: Safe for concurrent use (stateless after construction).
type SourceAttributor struct {
	config *AttributorConfig
}

// NewSourceAttributor creates the attributor. Nil config uses defaults.
func NewSourceAttributor(config *AttributorConfig) *SourceAttributor {
	if config == nil {
		config = DefaultAttributorConfig()
	}
	return &SourceAttributor{config: config}
}

// Name returns the analysis name for logging and metrics.
func (a *SourceAttributor) Name() string {
	return "source_attributor"
}

// Attribute returns up to MaxCandidates spans sorted by overlap score.
//
// Zero overlapping tokens yields an empty list. Spans whose offsets fall
// outside the evidence text are skipped rather than failing the analysis.
func (a *SourceAttributor) Attribute(ctx context.Context, input *CheckInput) []SourceReviewEntry {
	if !a.config.Enabled || input == nil || input.Response == "" {
		return nil
	}

	respSet, respCount := responseTokenSet(input.Response)
	if respCount == 0 {
		return nil
	}

	var candidates []SourceReviewEntry

	for _, meta := range input.Metadata {
		select {
		case <-ctx.Done():
			return a.top(candidates)
		default:
		}

		start, stop := meta.EvidenceStartChar, meta.EvidenceStopChar
		if start < 0 || start >= len(input.Evidence) {
			continue
		}
		if stop > len(input.Evidence) {
			stop = len(input.Evidence)
		}

		spanText := input.Evidence[start:stop]
		spanToks := scanTokens(spanText)

		var matchIdx []int
		for i, tok := range spanToks {
			if respSet[normalizeToken(tok.Text)] {
				matchIdx = append(matchIdx, i)
			}
		}
		if len(matchIdx) == 0 {
			continue
		}

		ratio := float64(len(matchIdx)) / float64(respCount)
		if ratio <= a.config.MinRatio && len(matchIdx) <= a.config.MinCount {
			continue
		}

		candidates = append(candidates, SourceReviewEntry{
			Text:       medianSnippet(spanText, spanToks, matchIdx, a.config.SnippetTokens),
			MatchScore: ratio,
			Source:     meta.SourceName,
			PageNum:    meta.PageNum,
			DocID:      meta.DocID,
			BlockID:    meta.BlockID,
		})

		if ratio >= a.config.Conclusive {
			break
		}
	}

	return a.top(candidates)
}

// top sorts candidates by score (stable, descending) and truncates.
func (a *SourceAttributor) top(candidates []SourceReviewEntry) []SourceReviewEntry {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	if len(candidates) > a.config.MaxCandidates {
		candidates = candidates[:a.config.MaxCandidates]
	}
	return candidates
}

// responseTokenSet builds the filtered response token set and its token
// count (the attribution ratio denominator).
func responseTokenSet(response string) (map[string]bool, int) {
	set := make(map[string]bool)
	count := 0
	for _, tok := range scanTokens(response) {
		norm := normalizeToken(tok.Text)
		if !isContentToken(norm) {
			continue
		}
		set[norm] = true
		count++
	}
	return set, count
}

// medianSnippet cuts the ±width token window around the median matching
// token index, using the prebuilt offsets.
func medianSnippet(spanText string, spanToks []tokenSpan, matchIdx []int, width int) string {
	median := matchIdx[len(matchIdx)/2]
	lo := median - width
	if lo < 0 {
		lo = 0
	}
	hi := median + width
	if hi > len(spanToks)-1 {
		hi = len(spanToks) - 1
	}
	return spanText[spanToks[lo].Start:spanToks[hi].End]
}
