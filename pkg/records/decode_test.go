// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMaps_DecodesFields(t *testing.T) {
	raw := []map[string]any{
		{
			"text":        "First block",
			"file_source": "a.pdf",
			"page_num":    float64(4), // JSON decoders hand back float64
			"doc_id":      7,
			"block_id":    int64(2),
		},
		{"text": "Second block"},
	}

	recs := FromMaps(raw)
	require.Len(t, recs, 2)

	assert.Equal(t, "First block", recs[0].Text)
	assert.Equal(t, "a.pdf", recs[0].FileSource)
	assert.Equal(t, 4, recs[0].PageNum)
	assert.Equal(t, 7, recs[0].DocID)
	assert.Equal(t, 2, recs[0].BlockID)

	assert.Equal(t, "Second block", recs[1].Text)
	assert.Zero(t, recs[1].PageNum)
}

func TestFromMaps_DropsRecordsWithoutText(t *testing.T) {
	raw := []map[string]any{
		{"file_source": "orphan.pdf"},
		{"text": 42},
		{"text": "kept"},
	}

	recs := FromMaps(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "kept", recs[0].Text)
}
