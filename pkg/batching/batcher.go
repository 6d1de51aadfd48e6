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
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianEvidence/pkg/tokenizer"
)

// PackageOptions controls one Package call.
type PackageOptions struct {
	// Window is the context window token budget. Zero or negative uses
	// DefaultWindow.
	Window int

	// Aggregate continues filling the last existing batch instead of
	// starting fresh, so later records in a multi-call session pack into
	// prior space.
	Aggregate bool
}

// Batcher packs TextRecords into token-bounded batches.
//
// The same tokenizer adapter serves every count, encode, and decode call
// within a session; mixing tokenizers would break the invariant that chunk
// boundaries computed during counting match those used during slicing.
//
// Thread Safety: A Batcher is safe for concurrent use across independent
// sessions, but Package performs a read-modify-write on the caller's batch
// list and must not run concurrently against the same session.
type Batcher struct {
	adapter   *tokenizer.Adapter
	separator string
}

// Option configures a Batcher at construction.
type Option func(*Batcher)

// WithSeparator overrides the separator joining record texts inside a
// batch. Empty keeps DefaultSeparator.
func WithSeparator(separator string) Option {
	return func(b *Batcher) {
		if separator != "" {
			b.separator = separator
		}
	}
}

// NewBatcher creates a Batcher bound to a resolved tokenizer adapter.
// Panics if adapter is nil.
func NewBatcher(adapter *tokenizer.Adapter, opts ...Option) *Batcher {
	if adapter == nil {
		panic("NewBatcher: adapter must not be nil")
	}
	b := &Batcher{
		adapter:   adapter,
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Package packs records into token-bounded batches.
//
// Description:
//
//	Deduplicates records by structural equality (first-seen order wins),
//	skips malformed records with a warning, splits any record whose token
//	count reaches the window into contiguous token slices, then greedily
//	packs the sequence first-fit in order. With opts.Aggregate the last
//	existing batch is resumed rather than starting fresh. The final
//	non-empty in-progress batch is always returned as the last element so
//	a later call can continue it.
//
// Inputs:
//
//	ctx - Context for cancellation between records.
//	records - The records to pack. Empty input produces no new batches.
//	existing - The session's batch list so far. Not mutated.
//	opts - Window and aggregation controls.
//
// Outputs:
//
//	[]Batch - The updated batch list.
//	*PackagingResult - Per-batch token/sample counts and skip diagnostics.
//	error - Non-nil only on context cancellation.
func (b *Batcher) Package(ctx context.Context, records []TextRecord, existing []Batch, opts PackageOptions) ([]Batch, *PackagingResult, error) {
	ctx, span := tracer.Start(ctx, "Batcher.Package")
	defer span.End()
	initMetrics()

	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	sepTokens := b.adapter.Count(b.separator)

	out := slices.Clone(existing)
	result := &PackagingResult{}

	prepared := b.prepare(records, window, sepTokens, result)
	if len(prepared) == 0 && !(opts.Aggregate && len(out) > 0) {
		result.fill(out)
		return out, result, nil
	}

	var builder *Builder
	if opts.Aggregate && len(out) > 0 {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		builder = ResumeBuilder(last, b.separator)
		slog.Debug("Resuming in-progress batch",
			"batch_id", last.ID, "tokens", last.Stats.Tokens, "samples", last.Stats.Samples)
	} else {
		builder = NewBuilder(len(out), b.separator)
	}

	for _, rec := range prepared {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		// Each record is charged for the separator appended after it, so
		// the running count tracks the token count of the final batch
		// text, not just the record texts.
		tokens := b.adapter.Count(rec.Text) + sepTokens
		if !builder.Fits(tokens, window) {
			if builder.Empty() {
				// Post-chunk records are always under the window, but a
				// degenerate window can still strand one. Pack it alone
				// rather than looping.
				slog.Warn("Record does not fit an empty batch, packing alone",
					"tokens", tokens, "window", window)
			} else {
				out = append(out, builder.Build())
				builder = NewBuilder(len(out), b.separator)
			}
		}
		builder.Add(rec, tokens)
		result.RecordsPacked++
	}

	if !builder.Empty() {
		out = append(out, builder.Build())
	}

	result.fill(out)
	recordPackage(ctx, result)
	span.SetAttributes(
		attribute.Int("batching.batches", result.BatchesCount),
		attribute.Int("batching.records_packed", result.RecordsPacked),
	)

	slog.Info("Packaged records into batches",
		"session_id", builder.SessionID(),
		"records_in", len(records),
		"records_packed", result.RecordsPacked,
		"records_chunked", result.RecordsChunked,
		"records_skipped", result.RecordsSkipped,
		"batches", result.BatchesCount,
		"tokenizer", b.adapter.Name(),
	)

	return out, result, nil
}

// prepare deduplicates, normalizes, and chunks the input records.
//
// The chunk threshold accounts for the separator each record is charged
// when packed: a record chunks when it could never fit an empty batch.
func (b *Batcher) prepare(records []TextRecord, window, sepTokens int, result *PackagingResult) []TextRecord {
	seen := make(map[TextRecord]bool, len(records))
	prepared := make([]TextRecord, 0, len(records))

	effective := window - sepTokens
	if effective < 1 {
		effective = 1
	}

	for _, rec := range records {
		if rec.isZero() {
			slog.Warn("Skipping malformed text record with no content")
			result.RecordsSkipped++
			continue
		}
		if seen[rec] {
			continue
		}
		seen[rec] = true

		norm := rec.normalized()
		if b.adapter.Count(norm.Text) >= effective {
			chunks := b.chunkRecord(norm, effective)
			prepared = append(prepared, chunks...)
			result.RecordsChunked++
			continue
		}
		prepared = append(prepared, norm)
	}

	return prepared
}

// chunkRecord splits an oversized record into contiguous, evenly sized token
// slices, each decoded back to text and inheriting the original's source
// coordinates. Oversized records are always chunked, never dropped or
// truncated.
//
// Slice count is chosen so every slice stays strictly under the window;
// concatenating the slices' token sequences reproduces the original token
// sequence exactly.
func (b *Batcher) chunkRecord(rec TextRecord, window int) []TextRecord {
	ids := b.adapter.Encode(rec.Text)
	n := len(ids)
	if n == 0 {
		return []TextRecord{rec}
	}

	parts := n/window + 1
	size := (n + parts - 1) / parts

	chunks := make([]TextRecord, 0, parts)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunk := rec
		chunk.Text = b.adapter.Decode(ids[start:end])
		chunks = append(chunks, chunk)
	}

	slog.Debug("Chunked oversized record",
		"source", rec.FileSource, "tokens", n, "chunks", len(chunks))
	return chunks
}

// fill derives the per-batch diagnostics from the returned list.
func (r *PackagingResult) fill(batches []Batch) {
	r.BatchesCount = len(batches)
	r.BatchTokens = make([]int, len(batches))
	r.BatchSamples = make([]int, len(batches))
	for i, batch := range batches {
		r.BatchTokens[i] = batch.Stats.Tokens
		r.BatchSamples[i] = batch.Stats.Samples
	}
}
