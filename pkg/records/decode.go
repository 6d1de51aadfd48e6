// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package records

import (
	"log/slog"

	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
)

// FromMaps decodes loosely-typed record maps, as produced by document
// parsers and retrieval stores, into text records. Maps with no "text"
// key are dropped with a warning; missing coordinate fields fall back the
// same way the batcher normalizes typed records.
func FromMaps(raw []map[string]any) []batching.TextRecord {
	out := make([]batching.TextRecord, 0, len(raw))
	for i, m := range raw {
		text, ok := asString(m["text"])
		if !ok {
			slog.Warn("Record has no text field, dropping", "index", i)
			continue
		}
		rec := batching.TextRecord{
			Text:        text,
			MasterIndex: asInt(m["master_index"], 0),
			DocID:       asInt(m["doc_id"], 0),
			BlockID:     asInt(m["block_id"], 0),
		}
		rec.FileSource, _ = asString(m["file_source"])
		rec.PageNum = asInt(m["page_num"], 0)
		out = append(out, rec)
	}
	return out
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt accepts the numeric shapes JSON and YAML decoders produce.
func asInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}
