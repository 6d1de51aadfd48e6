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
	"testing"
)

func TestTokenComparator_Name(t *testing.T) {
	comparator := NewTokenComparator(nil)
	if comparator.Name() != "token_comparator" {
		t.Errorf("expected name 'token_comparator', got %s", comparator.Name())
	}
}

func TestTokenComparator_Disabled(t *testing.T) {
	comparator := NewTokenComparator(&ComparatorConfig{Enabled: false})
	if got := comparator.Compare(context.Background(), &CheckInput{Response: "x"}); got != nil {
		t.Error("expected nil stats when disabled")
	}
}

func TestTokenComparator_FullOverlap(t *testing.T) {
	comparator := NewTokenComparator(nil)

	input := &CheckInput{
		Response: "Quarterly revenue increased across divisions",
		Evidence: "Quarterly revenue increased across divisions this period",
	}
	stats := comparator.Compare(context.Background(), input)
	if stats == nil {
		t.Fatal("expected stats")
	}
	if stats.VerifiedTokenMatchRatio != 1.0 {
		t.Errorf("expected ratio 1.0, got %f", stats.VerifiedTokenMatchRatio)
	}
	if stats.PercentDisplay != "100.0%" {
		t.Errorf("expected display '100.0%%', got %q", stats.PercentDisplay)
	}
	if len(stats.UnconfirmedWords) != 0 {
		t.Errorf("expected no unconfirmed words, got %v", stats.UnconfirmedWords)
	}
}

func TestTokenComparator_NumericAgainstProse(t *testing.T) {
	comparator := NewTokenComparator(nil)

	input := &CheckInput{
		Response: "Headcount reached 20 employees",
		Evidence: "Headcount reached twenty employees by December",
	}
	stats := comparator.Compare(context.Background(), input)
	if stats == nil {
		t.Fatal("expected stats")
	}
	if stats.VerifiedTokenMatchRatio != 1.0 {
		t.Errorf("expected spelled-out evidence to confirm the number, got ratio %f", stats.VerifiedTokenMatchRatio)
	}
}

func TestTokenComparator_PartialOverlapListsWords(t *testing.T) {
	comparator := NewTokenComparator(nil)

	input := &CheckInput{
		Response: "Revenue dropped unexpectedly",
		Evidence: "Revenue stayed flat",
	}
	stats := comparator.Compare(context.Background(), input)
	if stats == nil {
		t.Fatal("expected stats")
	}
	if len(stats.ConfirmedWords) != 1 || stats.ConfirmedWords[0] != "revenue" {
		t.Errorf("expected confirmed [revenue], got %v", stats.ConfirmedWords)
	}
	if len(stats.UnconfirmedWords) != 2 {
		t.Errorf("expected 2 unconfirmed words, got %v", stats.UnconfirmedWords)
	}
}

func TestTokenComparator_KeyPointRatios(t *testing.T) {
	comparator := NewTokenComparator(nil)

	input := &CheckInput{
		Response: "Revenue increased. Costs doubled.",
		Evidence: "Revenue increased this quarter",
		KeyPoints: []string{
			"Revenue increased.",
			"Costs doubled.",
		},
	}
	stats := comparator.Compare(context.Background(), input)
	if stats == nil {
		t.Fatal("expected stats")
	}
	if len(stats.KeyPointList) != 2 {
		t.Fatalf("expected 2 key points, got %d", len(stats.KeyPointList))
	}
	if stats.KeyPointList[0].Ratio != 1.0 {
		t.Errorf("expected first key point fully confirmed, got %f", stats.KeyPointList[0].Ratio)
	}
	if stats.KeyPointList[1].Ratio != 0.0 {
		t.Errorf("expected second key point unconfirmed, got %f", stats.KeyPointList[1].Ratio)
	}
	if stats.VerifiedTokenMatchRatio != 0.5 {
		t.Errorf("expected aggregate ratio 0.5, got %f", stats.VerifiedTokenMatchRatio)
	}
}

func TestTokenComparator_EmptyResponse(t *testing.T) {
	comparator := NewTokenComparator(nil)

	stats := comparator.Compare(context.Background(), &CheckInput{Response: "", Evidence: "anything"})
	if stats == nil {
		t.Fatal("expected stats, not nil, for empty response")
	}
	if stats.VerifiedTokenMatchRatio != 0 {
		t.Errorf("expected zero ratio, got %f", stats.VerifiedTokenMatchRatio)
	}
	if stats.PercentDisplay != "0.0%" {
		t.Errorf("expected display '0.0%%', got %q", stats.PercentDisplay)
	}
}
