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
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
)

// evidenceFixture joins spans into one evidence text with one metadata
// entry per span.
func evidenceFixture(spans ...string) (string, []batching.BatchMetadataEntry) {
	var sb strings.Builder
	var meta []batching.BatchMetadataEntry
	for i, span := range spans {
		start := sb.Len()
		sb.WriteString(span)
		sb.WriteString("\n")
		meta = append(meta, batching.BatchMetadataEntry{
			BatchSourceID:     i,
			EvidenceStartChar: start,
			EvidenceStopChar:  sb.Len(),
			SourceName:        "doc.pdf",
			PageNum:           i + 1,
			DocID:             1,
			BlockID:           i,
		})
	}
	return sb.String(), meta
}

func TestSourceAttributor_Name(t *testing.T) {
	attributor := NewSourceAttributor(nil)
	if attributor.Name() != "source_attributor" {
		t.Errorf("expected name 'source_attributor', got %s", attributor.Name())
	}
}

func TestSourceAttributor_ZeroOverlap(t *testing.T) {
	attributor := NewSourceAttributor(nil)

	evidence, meta := evidenceFixture(
		"Quarterly revenue increased across all divisions",
		"Operating margin improved year over year",
	)
	input := &CheckInput{
		Response: "Elephants migrate seasonally toward water",
		Evidence: evidence,
		Metadata: meta,
	}

	candidates := attributor.Attribute(context.Background(), input)
	if len(candidates) != 0 {
		t.Errorf("expected empty candidate list for zero overlap, got %d", len(candidates))
	}
}

func TestSourceAttributor_RanksOverlappingSpan(t *testing.T) {
	attributor := NewSourceAttributor(nil)

	evidence, meta := evidenceFixture(
		"Unrelated boilerplate about formatting conventions",
		"Quarterly revenue increased twelve percent across divisions",
	)
	input := &CheckInput{
		Response: "Revenue increased across divisions",
		Evidence: evidence,
		Metadata: meta,
	}

	candidates := attributor.Attribute(context.Background(), input)
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	best := candidates[0]
	if best.PageNum != 2 {
		t.Errorf("expected the overlapping span (page 2) to rank first, got page %d", best.PageNum)
	}
	if best.MatchScore <= 0.25 {
		t.Errorf("expected score above the ratio floor, got %f", best.MatchScore)
	}
	if best.Text == "" {
		t.Error("expected a snippet around the matching tokens")
	}
	if best.Source != "doc.pdf" {
		t.Errorf("expected source doc.pdf, got %q", best.Source)
	}
}

func TestSourceAttributor_TruncatesToMaxCandidates(t *testing.T) {
	attributor := NewSourceAttributor(&AttributorConfig{
		Enabled:       true,
		MinRatio:      0.1,
		MinCount:      1,
		Conclusive:    2.0, // never conclusive, scan everything
		MaxCandidates: 2,
		SnippetTokens: 5,
	})

	evidence, meta := evidenceFixture(
		"alpha beta gamma delta",
		"alpha beta gamma",
		"alpha beta",
		"alpha gamma delta",
	)
	input := &CheckInput{
		Response: "alpha beta gamma delta",
		Evidence: evidence,
		Metadata: meta,
	}

	candidates := attributor.Attribute(context.Background(), input)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates after truncation, got %d", len(candidates))
	}
	if candidates[0].MatchScore < candidates[1].MatchScore {
		t.Error("expected candidates sorted by score, descending")
	}
	if candidates[0].PageNum != 1 {
		t.Errorf("expected the full-overlap span to rank first, got page %d", candidates[0].PageNum)
	}
}

func TestSourceAttributor_SkipsOutOfRangeSpans(t *testing.T) {
	attributor := NewSourceAttributor(nil)

	input := &CheckInput{
		Response: "revenue increased sharply",
		Evidence: "revenue increased sharply this year",
		Metadata: []batching.BatchMetadataEntry{
			{EvidenceStartChar: 500, EvidenceStopChar: 900},
			{EvidenceStartChar: 0, EvidenceStopChar: 35, SourceName: "ok.pdf", PageNum: 1},
		},
	}

	candidates := attributor.Attribute(context.Background(), input)
	if len(candidates) != 1 {
		t.Fatalf("expected the in-range span only, got %d candidates", len(candidates))
	}
	if candidates[0].Source != "ok.pdf" {
		t.Errorf("expected ok.pdf, got %q", candidates[0].Source)
	}
}

func TestSourceAttributor_EmptyResponse(t *testing.T) {
	attributor := NewSourceAttributor(nil)
	if got := attributor.Attribute(context.Background(), &CheckInput{Response: ""}); len(got) != 0 {
		t.Errorf("expected no candidates for empty response, got %d", len(got))
	}
}
