// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import "github.com/AleutianAI/AleutianEvidence/pkg/batching"

// ResponseRecord pairs one generated answer with the evidence it was given.
//
// Records are produced by the caller's orchestration around Infer and are
// the natural input to verification: the response plus the batch text and
// metadata that served as its context. Persistence of record history is the
// caller's concern.
type ResponseRecord struct {
	// LLMResponse is the generated answer.
	LLMResponse string `json:"llm_response"`

	// Prompt is the instruction or question that produced the answer.
	Prompt string `json:"prompt"`

	// Evidence is the batch text used as context.
	Evidence string `json:"evidence"`

	// EvidenceMetadata holds the per-record spans of the evidence batch.
	EvidenceMetadata []batching.BatchMetadataEntry `json:"evidence_metadata,omitempty"`

	// Usage carries the collaborator's usage counters.
	Usage map[string]int `json:"usage,omitempty"`
}
