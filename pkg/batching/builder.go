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
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Builder accumulates records into one in-progress batch.
//
// The in-progress state (running text, token count, char offset, per-batch
// biblio) is first-class: a finalized in-progress batch can be handed back
// to ResumeBuilder in a later Package call instead of the historical
// pop-last-and-repack dance.
//
// Thread Safety: Not safe for concurrent use. A Builder belongs to exactly
// one packing session.
type Builder struct {
	id        int
	sessionID string
	separator string

	text    strings.Builder
	tokens  int
	offset  int
	entries []BatchMetadataEntry
	biblio  map[string]map[int]bool
}

// NewBuilder creates an empty Builder for batch id.
func NewBuilder(id int, separator string) *Builder {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Builder{
		id:        id,
		sessionID: uuid.NewString(),
		separator: separator,
		biblio:    make(map[string]map[int]bool),
	}
}

// ResumeBuilder restores a Builder from a previously returned in-progress
// batch so later records pack into its remaining space.
func ResumeBuilder(batch Batch, separator string) *Builder {
	b := NewBuilder(batch.ID, separator)
	b.text.WriteString(batch.Text)
	b.offset = len(batch.Text)
	b.tokens = batch.Stats.Tokens
	b.entries = slices.Clone(batch.Metadata)
	for source, pages := range batch.Biblio {
		set := make(map[int]bool, len(pages))
		for _, p := range pages {
			set[p] = true
		}
		b.biblio[source] = set
	}
	return b
}

// SessionID returns the builder's session identifier for logging.
func (b *Builder) SessionID() string {
	return b.sessionID
}

// Empty reports whether nothing has been folded in.
func (b *Builder) Empty() bool {
	return len(b.entries) == 0
}

// Tokens returns the running token count.
func (b *Builder) Tokens() int {
	return b.tokens
}

// Fits reports whether a record of the given token cost still fits under
// the window. The cost must include the record's trailing separator, so
// the running count bounds the token count of the batch text itself.
func (b *Builder) Fits(tokens, window int) bool {
	return b.tokens+tokens < window
}

// Add folds one normalized record into the batch.
//
// The metadata span covers the record text plus the trailing separator,
// and tokens is the record's full charged cost including that separator.
// A zero-length record still consumes a metadata slot.
func (b *Builder) Add(rec TextRecord, tokens int) {
	appended := rec.Text + b.separator
	b.text.WriteString(appended)

	b.entries = append(b.entries, BatchMetadataEntry{
		BatchSourceID:     len(b.entries),
		EvidenceStartChar: b.offset,
		EvidenceStopChar:  b.offset + len(appended),
		SourceName:        rec.FileSource,
		PageNum:           rec.PageNum,
		DocID:             rec.DocID,
		BlockID:           rec.BlockID,
	})

	b.offset += len(appended)
	b.tokens += tokens

	if rec.FileSource != "" {
		pages := b.biblio[rec.FileSource]
		if pages == nil {
			pages = make(map[int]bool)
			b.biblio[rec.FileSource] = pages
		}
		pages[rec.PageNum] = true
	}
}

// Build finalizes the accumulated state into a Batch. The Builder remains
// usable; building an in-progress batch and resuming it later is the
// continuation path.
func (b *Builder) Build() Batch {
	biblio := make(map[string][]int, len(b.biblio))
	for source, set := range b.biblio {
		pages := make([]int, 0, len(set))
		for p := range set {
			pages = append(pages, p)
		}
		slices.Sort(pages)
		biblio[source] = pages
	}

	text := b.text.String()
	return Batch{
		ID:       b.id,
		Text:     text,
		Metadata: slices.Clone(b.entries),
		Biblio:   biblio,
		Stats: BatchStats{
			Tokens:  b.tokens,
			Chars:   len(text),
			Samples: len(b.entries),
		},
	}
}
