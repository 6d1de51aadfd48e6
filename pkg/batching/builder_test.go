// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package batching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AddTracksOffsetsAndTokens(t *testing.T) {
	b := NewBuilder(0, "\n")

	b.Add(TextRecord{Text: "alpha beta", FileSource: "a.pdf", PageNum: 1}, 2)
	b.Add(TextRecord{Text: "gamma", FileSource: "a.pdf", PageNum: 2}, 1)

	assert.False(t, b.Empty())
	assert.Equal(t, 3, b.Tokens())

	batch := b.Build()
	assert.Equal(t, "alpha beta\ngamma\n", batch.Text)
	require.Len(t, batch.Metadata, 2)
	assert.Equal(t, 0, batch.Metadata[0].EvidenceStartChar)
	assert.Equal(t, 11, batch.Metadata[0].EvidenceStopChar)
	assert.Equal(t, 11, batch.Metadata[1].EvidenceStartChar)
	assert.Equal(t, 17, batch.Metadata[1].EvidenceStopChar)
	assert.Equal(t, []int{1, 2}, batch.Biblio["a.pdf"])
}

func TestBuilder_ZeroLengthRecordConsumesSlot(t *testing.T) {
	b := NewBuilder(0, "\n")
	b.Add(TextRecord{Text: "", FileSource: "empty.pdf", PageNum: 3}, 0)

	batch := b.Build()
	assert.Equal(t, 1, batch.Stats.Samples)
	assert.Equal(t, 0, batch.Stats.Tokens)
	require.Len(t, batch.Metadata, 1)
	// The span covers only the separator.
	assert.Equal(t, 0, batch.Metadata[0].EvidenceStartChar)
	assert.Equal(t, 1, batch.Metadata[0].EvidenceStopChar)
}

func TestBuilder_ResumeContinuesSpans(t *testing.T) {
	b := NewBuilder(2, "\n")
	b.Add(TextRecord{Text: "one two", FileSource: "a.pdf", PageNum: 1}, 2)
	snapshot := b.Build()

	resumed := ResumeBuilder(snapshot, "\n")
	resumed.Add(TextRecord{Text: "three", FileSource: "b.pdf", PageNum: 7}, 1)
	batch := resumed.Build()

	assert.Equal(t, 2, batch.ID)
	assert.Equal(t, 3, batch.Stats.Tokens)
	require.Len(t, batch.Metadata, 2)
	assert.Equal(t, snapshot.Metadata[0], batch.Metadata[0])
	assert.Equal(t, len(snapshot.Text), batch.Metadata[1].EvidenceStartChar)
	assert.Equal(t, []int{1}, batch.Biblio["a.pdf"])
	assert.Equal(t, []int{7}, batch.Biblio["b.pdf"])
}

func TestBuilder_FitsIsStrict(t *testing.T) {
	b := NewBuilder(0, "\n")
	b.Add(TextRecord{Text: "x"}, 50)

	assert.True(t, b.Fits(49, 100))
	assert.False(t, b.Fits(50, 100))
}
