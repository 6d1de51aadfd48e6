// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package records turns raw document content into the text records the
// batching layer consumes. Splitting is structure-aware: source files get
// language separators, markdown gets heading separators, everything else
// falls back to paragraph boundaries.
package records

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
)

var (
	ChunkSize         = 1000
	ChunkOverlap      = int(float64(ChunkSize) * 0.10) // 10% of ChunkSize
	defaultSeparators = []string{"\n\n", "\n", " ", ""}
	pythonSeparators  = []string{"\nclass ", "\ndef ", "\n\t", "\n", " "}
	cStyleSeparators  = []string{
		"\nfunction ", "\nclass ", "\ninterface ",
		"\npublic ", "\nprivate ", "\nprotected ",
		"\nfunc", "\ntype",
		"\n\n", "\n", " ", "",
	}

	markdownSeparators = []string{
		"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
		"\n\n", "\n", " ", "",
	}
)

// splitterForFile selects a recursive character splitter tuned to the
// file's extension.
func splitterForFile(filename string) textsplitter.TextSplitter {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(markdownSeparators),
		)
	case ".py":
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(pythonSeparators),
		)
	case ".go", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".hpp", ".cs", ".php":
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(cStyleSeparators),
		)
	default:
		return textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(ChunkSize),
			textsplitter.WithChunkOverlap(ChunkOverlap),
			textsplitter.WithSeparators(defaultSeparators),
		)
	}
}

// Split chunks document content into text records carrying the document's
// coordinates. Chunks are numbered consecutively from startIndex so that a
// multi-document corpus keeps a corpus-wide ordering.
func Split(content, source string, docID, startIndex int) ([]batching.TextRecord, error) {
	splitter := splitterForFile(source)
	chunks, err := splitter.SplitText(content)
	if err != nil {
		return nil, fmt.Errorf("records: splitting %s: %w", source, err)
	}

	out := make([]batching.TextRecord, 0, len(chunks))
	for i, chunk := range chunks {
		out = append(out, batching.TextRecord{
			Text:        chunk,
			FileSource:  source,
			PageNum:     i + 1,
			MasterIndex: startIndex + i,
			DocID:       docID,
			// Blocks number from 1: a zero BlockID would be rewritten to 1
			// during normalization and collide with the second chunk.
			BlockID: i + 1,
		})
	}
	return out, nil
}
