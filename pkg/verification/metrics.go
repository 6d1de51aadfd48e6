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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for verification operations.
var (
	tracer = otel.Tracer("aleutian.verification")
	meter  = otel.Meter("aleutian.verification")
)

// Metrics for verification operations.
var (
	verificationsTotal   metric.Int64Counter
	factsConfirmedTotal  metric.Int64Counter
	factsUnconfirmed     metric.Int64Counter
	sourcesRankedTotal   metric.Int64Counter
	notFoundTotal        metric.Int64Counter
	matchRatioHistogram  metric.Float64Histogram
	verifyDurationSecond metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		verificationsTotal, err = meter.Int64Counter(
			"verification_runs_total",
			metric.WithDescription("Total verification runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		factsConfirmedTotal, err = meter.Int64Counter(
			"verification_facts_confirmed_total",
			metric.WithDescription("Numeric facts confirmed against evidence"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		factsUnconfirmed, err = meter.Int64Counter(
			"verification_facts_unconfirmed_total",
			metric.WithDescription("Numeric facts with no evidence support"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		sourcesRankedTotal, err = meter.Int64Counter(
			"verification_sources_ranked_total",
			metric.WithDescription("Attribution candidates surfaced in reports"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		notFoundTotal, err = meter.Int64Counter(
			"verification_not_found_total",
			metric.WithDescription("Not-found classifications by verdict"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		matchRatioHistogram, err = meter.Float64Histogram(
			"verification_token_match_ratio",
			metric.WithDescription("Verified token match ratio distribution"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		verifyDurationSecond, err = meter.Float64Histogram(
			"verification_duration_seconds",
			metric.WithDescription("End-to-end verification duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordVerification records the outcome of one verification run.
func recordVerification(ctx context.Context, report *Report, elapsed time.Duration) {
	if metricsErr != nil || verificationsTotal == nil {
		return
	}

	verificationsTotal.Add(ctx, 1)
	for _, fc := range report.FactChecks {
		if fc.Status == StatusConfirmed {
			factsConfirmedTotal.Add(ctx, 1)
		} else {
			factsUnconfirmed.Add(ctx, 1)
		}
	}
	sourcesRankedTotal.Add(ctx, int64(len(report.Sources)))
	notFoundTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("verdict", string(report.NotFound))))
	if report.Stats != nil {
		matchRatioHistogram.Record(ctx, report.Stats.VerifiedTokenMatchRatio)
	}
	verifyDurationSecond.Record(ctx, elapsed.Seconds())
}
