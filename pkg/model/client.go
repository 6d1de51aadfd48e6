// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package model defines the narrow language-model collaborator contract.
//
// The batching and verification engines never run inference themselves; the
// core only produces batch text suitable as the context argument and, for
// the optional self-classification heuristic, asks a caller-provided Client
// to judge its own answer. Implementations (local GGUF runtimes, hosted
// APIs) live with the caller.
package model

import "context"

// SamplingParams are passed through to the collaborator unchanged.
type SamplingParams struct {
	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature"`

	// MaxTokens bounds the generated output length. Zero means the
	// implementation's default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Response is the collaborator's answer to one Infer call.
type Response struct {
	// LLMResponse is the generated text.
	LLMResponse string `json:"llm_response"`

	// Usage carries implementation-defined usage counters
	// (e.g. input/output token counts).
	Usage map[string]int `json:"usage,omitempty"`
}

// Client is the language-model collaborator.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Client interface {
	// Infer generates a response to prompt given the evidence context.
	//
	// Inputs:
	//
	//	ctx - Context for cancellation and deadlines.
	//	prompt - The instruction or question.
	//	evidence - The batch text presented as context. May be empty.
	//	params - Sampling controls.
	//
	// Outputs:
	//
	//	*Response - The generated answer with usage counters.
	//	error - Non-nil if inference failed.
	Infer(ctx context.Context, prompt, evidence string, params SamplingParams) (*Response, error)
}
