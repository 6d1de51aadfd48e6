// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package verification fact-checks generated answers against the evidence
// batches they were produced from. Each analysis runs independently over
// the response text and the batch's per-record metadata spans, so a
// confirmed fact or an attribution candidate always carries the source
// file and page it was traced to.
package verification

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
)

// Config assembles the per-analysis configurations. A nil sub-config
// enables that analysis with its defaults.
type Config struct {
	FactChecker *FactCheckerConfig
	Attributor  *AttributorConfig
	Comparator  *ComparatorConfig
	NotFound    *NotFoundConfig
}

// DefaultConfig returns a config with every analysis enabled except the
// self-classification heuristic, which needs a model client.
func DefaultConfig() *Config {
	return &Config{
		FactChecker: DefaultFactCheckerConfig(),
		Attributor:  DefaultAttributorConfig(),
		Comparator:  DefaultComparatorConfig(),
		NotFound:    DefaultNotFoundConfig(),
	}
}

// Verifier runs the configured analyses over a response and its evidence.
//
// Thread Safety: Safe for concurrent use.
type Verifier struct {
	factChecker *NumberFactChecker
	attributor  *SourceAttributor
	comparator  *TokenComparator
	notFound    *NotFoundClassifier
}

// NewVerifier builds a verifier from config. Nil config uses defaults.
func NewVerifier(config *Config) *Verifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Verifier{
		factChecker: NewNumberFactChecker(config.FactChecker),
		attributor:  NewSourceAttributor(config.Attributor),
		comparator:  NewTokenComparator(config.Comparator),
		notFound:    NewNotFoundClassifier(config.NotFound),
	}
}

// Verify runs all enabled analyses against the batch the response was
// generated from.
func (v *Verifier) Verify(ctx context.Context, response string, batch *batching.Batch) (*Report, error) {
	if batch == nil {
		return v.VerifyEvidence(ctx, response, "", nil)
	}
	return v.VerifyEvidence(ctx, response, batch.Text, batch.Metadata)
}

// VerifyEvidence runs all enabled analyses against raw evidence text and
// its metadata spans. Analyses degrade independently: a disabled or
// inapplicable analysis leaves its section of the report empty rather
// than failing the whole verification.
func (v *Verifier) VerifyEvidence(ctx context.Context, response, evidence string, metadata []batching.BatchMetadataEntry) (*Report, error) {
	initMetrics()

	ctx, span := tracer.Start(ctx, "verification.Verify",
		trace.WithAttributes(
			attribute.Int("response_chars", len(response)),
			attribute.Int("evidence_chars", len(evidence)),
			attribute.Int("metadata_entries", len(metadata)),
		))
	defer span.End()

	if response == "" {
		// Still classifiable: an empty answer is a not-found answer.
		report := &Report{
			Response: response,
			NotFound: v.notFound.Classify(ctx, &CheckInput{Response: response, Evidence: evidence, Metadata: metadata}, 0),
		}
		recordVerification(ctx, report, time.Duration(0))
		return report, nil
	}

	start := time.Now()
	input := &CheckInput{
		Response: response,
		Evidence: evidence,
		Metadata: metadata,
	}

	report := &Report{Response: response}
	report.FactChecks = v.factChecker.Check(ctx, input)
	report.Sources = v.attributor.Attribute(ctx, input)
	report.Stats = v.comparator.Compare(ctx, input)

	matchRatio := 0.0
	if report.Stats != nil {
		matchRatio = report.Stats.VerifiedTokenMatchRatio
	}
	report.NotFound = v.notFound.Classify(ctx, input, matchRatio)

	elapsed := time.Since(start)
	recordVerification(ctx, report, elapsed)
	slog.Debug("Verification complete",
		"fact_checks", len(report.FactChecks),
		"sources", len(report.Sources),
		"not_found", report.NotFound,
		"duration_ms", elapsed.Milliseconds())

	return report, nil
}

// NotFound is a convenience wrapper answering only the not-found question
// for a bare response, without evidence.
func (v *Verifier) NotFound(ctx context.Context, response string) bool {
	return v.notFound.Classify(ctx, &CheckInput{Response: response}, 0) == ClassificationNotFound
}
