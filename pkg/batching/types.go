// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package batching packs retrieved text records into token-bounded evidence
// batches while preserving per-record source metadata.
//
// A Batch is one token-bounded aggregation of TextRecords suitable as the
// context block of a language model prompt. Packing is greedy, first-fit,
// and order-preserving: insertion order is part of the contract because
// downstream citation resolution depends on the metadata spans matching the
// order records were folded in. A re-sorted packing could reduce batch count
// but is deliberately not performed.
package batching

// Default packing configuration.
const (
	// DefaultWindow is the default context window token budget.
	DefaultWindow = 2048

	// DefaultSeparator joins record texts inside a batch.
	DefaultSeparator = "\n"
)

// TextRecord is one retrieved text fragment with its source coordinates.
//
// Only Text is required. Optional fields use the zero value for "unset";
// normalization applies the documented defaults: PageNum falls back to
// MasterIndex, then to 1; DocID and BlockID default to 1.
type TextRecord struct {
	// Text is the record content. Required.
	Text string `json:"text"`

	// FileSource is the originating document name.
	FileSource string `json:"file_source,omitempty"`

	// PageNum is the page the text was drawn from.
	PageNum int `json:"page_num,omitempty"`

	// MasterIndex is a parser-assigned ordinal used as the page fallback
	// when PageNum is unset.
	MasterIndex int `json:"master_index,omitempty"`

	// DocID identifies the source document in the caller's library.
	DocID int `json:"doc_id,omitempty"`

	// BlockID identifies the text block within the source document.
	BlockID int `json:"block_id,omitempty"`
}

// normalized returns a copy with the documented defaults applied.
func (r TextRecord) normalized() TextRecord {
	if r.PageNum == 0 {
		if r.MasterIndex != 0 {
			r.PageNum = r.MasterIndex
		} else {
			r.PageNum = 1
		}
	}
	if r.DocID == 0 {
		r.DocID = 1
	}
	if r.BlockID == 0 {
		r.BlockID = 1
	}
	return r
}

// isZero reports whether the record is entirely unset. A zero-value record
// carries neither text nor source coordinates and is treated as malformed
// input (skipped with a warning, never fatal). A record with empty Text but
// real coordinates is a valid zero-length record.
func (r TextRecord) isZero() bool {
	return r == TextRecord{}
}

// BatchMetadataEntry records where one TextRecord landed inside a batch.
//
// Char offsets are half-open [EvidenceStartChar, EvidenceStopChar), span the
// record text plus its trailing separator, increase monotonically across a
// batch's metadata, and are bounded by len(Batch.Text). Multiple entries may
// reference the same source coordinates when an oversized record was chunked;
// each entry then represents partial coverage of one logical source location.
type BatchMetadataEntry struct {
	// BatchSourceID is the record's ordinal within its batch.
	BatchSourceID int `json:"batch_source_id"`

	// EvidenceStartChar is the span start in Batch.Text.
	EvidenceStartChar int `json:"evidence_start_char"`

	// EvidenceStopChar is the span stop in Batch.Text (exclusive).
	EvidenceStopChar int `json:"evidence_stop_char"`

	// SourceName is the originating document name.
	SourceName string `json:"source_name"`

	// PageNum is the page the span was drawn from.
	PageNum int `json:"page_num"`

	// DocID identifies the source document.
	DocID int `json:"doc_id"`

	// BlockID identifies the text block within the source document.
	BlockID int `json:"block_id"`
}

// Contains reports whether the char offset falls inside this span.
func (e BatchMetadataEntry) Contains(offset int) bool {
	return offset >= e.EvidenceStartChar && offset < e.EvidenceStopChar
}

// BatchStats summarizes a batch.
type BatchStats struct {
	// Tokens is the running token count of the packed record texts.
	Tokens int `json:"tokens"`

	// Chars is len(Batch.Text).
	Chars int `json:"chars"`

	// Samples is the number of records folded in. Always equal to
	// len(Batch.Metadata).
	Samples int `json:"samples"`
}

// Batch is one token-bounded aggregation of TextRecords.
//
// Every batch except the final in-progress one satisfies
// tokens < window for the window it was packed against. The final batch is
// returned open so a later Package call with Aggregate can continue filling
// it.
type Batch struct {
	// ID is the batch's index in the session's batch list.
	ID int `json:"id"`

	// Text is the joined evidence text sent to the model as context.
	Text string `json:"text"`

	// Metadata holds one entry per folded record, in fold order.
	Metadata []BatchMetadataEntry `json:"metadata"`

	// Biblio maps source document name to the sorted set of page numbers
	// drawn from it.
	Biblio map[string][]int `json:"biblio"`

	// Stats summarizes the batch.
	Stats BatchStats `json:"stats"`
}

// EntryAt returns the metadata entry whose span contains the char offset,
// or false if the offset falls in no span.
func (b *Batch) EntryAt(offset int) (BatchMetadataEntry, bool) {
	return EntryAt(b.Metadata, offset)
}

// EntryAt scans a metadata list for the entry whose span contains the char
// offset, or false if the offset falls in no span. Spans never overlap, so
// the first hit is the only hit.
func EntryAt(metadata []BatchMetadataEntry, offset int) (BatchMetadataEntry, bool) {
	for _, e := range metadata {
		if e.Contains(offset) {
			return e, true
		}
	}
	return BatchMetadataEntry{}, false
}

// PackagingResult reports what one Package call produced.
type PackagingResult struct {
	// BatchesCount is the length of the returned batch list.
	BatchesCount int `json:"batches_count"`

	// BatchTokens holds the raw token count of each returned batch.
	BatchTokens []int `json:"batch_tokens"`

	// BatchSamples holds the sample count of each returned batch.
	BatchSamples []int `json:"batch_samples"`

	// RecordsPacked is the number of post-dedup, post-chunk records folded
	// into batches.
	RecordsPacked int `json:"records_packed"`

	// RecordsChunked is the number of oversized input records that were
	// split into token slices.
	RecordsChunked int `json:"records_chunked"`

	// RecordsSkipped is the number of malformed input records dropped
	// with a warning.
	RecordsSkipped int `json:"records_skipped"`
}
