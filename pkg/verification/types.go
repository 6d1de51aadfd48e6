// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package verification statistically checks a generated answer against the
// evidence batch that served as its context.
//
// Four independent analyses run over one (response, evidence, metadata)
// triple: a numeric fact check, fuzzy token-overlap source attribution, an
// aggregate token-match comparison, and a not-found classification built
// from the aggregate score. All analyses are pure functions of their inputs
// and degrade gracefully: malformed or ambiguous evidence produces
// conservative results (Not Confirmed, empty source lists, undetermined
// classification), never an error, because verification runs as best-effort
// post-processing after the model has already answered.
package verification

import (
	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
)

// Status is the verdict on a single numeric fact.
type Status string

const (
	// StatusConfirmed indicates the number is supported by the evidence.
	StatusConfirmed Status = "Confirmed"

	// StatusNotConfirmed indicates no numerically equal value was found
	// in the evidence.
	StatusNotConfirmed Status = "Not Confirmed"
)

// Classification is the combined not-found verdict.
type Classification string

const (
	// ClassificationFound indicates the answer is a substantive claim.
	ClassificationFound Classification = "found"

	// ClassificationNotFound indicates the answer should be treated as
	// "no supported answer found".
	ClassificationNotFound Classification = "not_found"

	// ClassificationUndetermined indicates the enabled heuristics
	// disagreed (or none could run).
	ClassificationUndetermined Classification = "undetermined"
)

// CheckInput provides all data the analyses need.
type CheckInput struct {
	// Response is the generated answer under verification.
	Response string

	// Evidence is the batch text that served as the model's context.
	Evidence string

	// Metadata holds the per-record spans of the evidence batch.
	Metadata []batching.BatchMetadataEntry

	// KeyPoints optionally pre-segments the response for the token
	// comparison. Empty treats the whole response as one key point.
	KeyPoints []string
}

// entryAt returns the metadata entry whose span contains offset.
func (in *CheckInput) entryAt(offset int) (batching.BatchMetadataEntry, bool) {
	return batching.EntryAt(in.Metadata, offset)
}

// FactCheckEntry is the verdict on one number extracted from the response.
type FactCheckEntry struct {
	// Fact is the numeric token as it appeared in the response.
	Fact string `json:"fact"`

	// Status is Confirmed or Not Confirmed.
	Status Status `json:"status"`

	// Text is the evidence context window around the match. Empty when
	// not confirmed.
	Text string `json:"text"`

	// PageNum is the page of the confirming span. Zero when not confirmed.
	PageNum int `json:"page_num"`

	// Source is the document name of the confirming span. Empty when not
	// confirmed.
	Source string `json:"source"`
}

// SourceReviewEntry is one ranked attribution candidate.
type SourceReviewEntry struct {
	// Text is a snippet centered on the median matching token.
	Text string `json:"text"`

	// MatchScore is the token-overlap ratio against the response.
	MatchScore float64 `json:"match_score"`

	// Source is the candidate span's document name.
	Source string `json:"source"`

	// PageNum is the candidate span's page number.
	PageNum int `json:"page_num"`

	// DocID identifies the candidate span's source document.
	DocID int `json:"doc_id"`

	// BlockID identifies the candidate span's text block.
	BlockID int `json:"block_id"`
}

// KeyPoint is the per-segment result of the token comparison.
type KeyPoint struct {
	// Text is the response segment.
	Text string `json:"text"`

	// Ratio is the segment's verified token match ratio.
	Ratio float64 `json:"ratio"`
}

// ComparisonStats is the aggregate token-match result.
type ComparisonStats struct {
	// PercentDisplay renders the ratio for display, e.g. "83.3%".
	PercentDisplay string `json:"percent_display"`

	// ConfirmedWords lists response tokens found in the evidence.
	ConfirmedWords []string `json:"confirmed_words"`

	// UnconfirmedWords lists response tokens absent from the evidence.
	UnconfirmedWords []string `json:"unconfirmed_words"`

	// VerifiedTokenMatchRatio is confirmed / total over stopword-filtered
	// response tokens.
	VerifiedTokenMatchRatio float64 `json:"verified_token_match_ratio"`

	// KeyPointList holds per-segment ratios.
	KeyPointList []KeyPoint `json:"key_point_list"`
}

// Report bundles the output of all enabled analyses alongside the original
// response.
type Report struct {
	// Response is the answer that was verified.
	Response string `json:"response"`

	// FactChecks holds one verdict per numeric fact in the response.
	FactChecks []FactCheckEntry `json:"fact_checks,omitempty"`

	// Sources holds the ranked attribution candidates.
	Sources []SourceReviewEntry `json:"sources,omitempty"`

	// Stats is the aggregate token-match result.
	Stats *ComparisonStats `json:"stats,omitempty"`

	// NotFound is the combined not-found classification.
	NotFound Classification `json:"not_found_classification"`
}
