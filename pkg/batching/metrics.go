// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package batching

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for batching operations.
var (
	tracer = otel.Tracer("aleutian.batching")
	meter  = otel.Meter("aleutian.batching")
)

// Metrics for packing operations.
var (
	batchesTotal        metric.Int64Counter
	recordsPackedTotal  metric.Int64Counter
	recordsChunkedTotal metric.Int64Counter
	recordsSkippedTotal metric.Int64Counter
	batchTokensHist     metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		batchesTotal, err = meter.Int64Counter(
			"batching_batches_total",
			metric.WithDescription("Total batches produced by packing calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		recordsPackedTotal, err = meter.Int64Counter(
			"batching_records_packed_total",
			metric.WithDescription("Total post-dedup, post-chunk records folded into batches"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		recordsChunkedTotal, err = meter.Int64Counter(
			"batching_records_chunked_total",
			metric.WithDescription("Total oversized records split into token slices"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		recordsSkippedTotal, err = meter.Int64Counter(
			"batching_records_skipped_total",
			metric.WithDescription("Total malformed records skipped with a warning"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		batchTokensHist, err = meter.Int64Histogram(
			"batching_batch_tokens",
			metric.WithDescription("Token fill distribution of produced batches"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordPackage records the outcome of one Package call.
func recordPackage(ctx context.Context, result *PackagingResult) {
	if metricsErr != nil || batchesTotal == nil {
		return
	}
	batchesTotal.Add(ctx, int64(result.BatchesCount))
	recordsPackedTotal.Add(ctx, int64(result.RecordsPacked))
	recordsChunkedTotal.Add(ctx, int64(result.RecordsChunked))
	recordsSkippedTotal.Add(ctx, int64(result.RecordsSkipped))
	for _, tokens := range result.BatchTokens {
		batchTokensHist.Record(ctx, int64(tokens))
	}
}
