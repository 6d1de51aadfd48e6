// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// EvidenceConfig is the file-backed configuration for batching and
// verification. Zero values in a loaded file fall back to defaults at
// load time, so a partial YAML file is fine.
type EvidenceConfig struct {
	// Tokenizer selects the token codec used for window accounting.
	Tokenizer TokenizerConfig `yaml:"tokenizer"`

	// Batching controls the packing loop.
	Batching BatchingConfig `yaml:"batching"`

	// Verification controls which analyses run and their thresholds.
	Verification VerificationConfig `yaml:"verification"`
}

type TokenizerConfig struct {
	// Model resolves an encoding by model identifier, e.g. "gpt-4".
	Model string `yaml:"model,omitempty"`

	// Fallback is the encoding used when Model is empty or unknown.
	Fallback string `yaml:"fallback"`
}

type BatchingConfig struct {
	// Window is the context window size in tokens.
	Window int `yaml:"window" validate:"gt=0"`

	// Separator joins record texts inside a batch.
	Separator string `yaml:"separator"`
}

type VerificationConfig struct {
	FactCheck     bool    `yaml:"fact_check"`
	Attribution   bool    `yaml:"attribution"`
	Comparison    bool    `yaml:"comparison"`
	ContextTokens int     `yaml:"context_tokens" validate:"gte=0"`
	MinMatchRatio float64 `yaml:"min_match_ratio" validate:"gte=0,lte=1"`
	NotFoundFloor float64 `yaml:"not_found_floor" validate:"gte=0,lte=1"`
}

// DefaultConfig mirrors the library defaults.
func DefaultConfig() EvidenceConfig {
	return EvidenceConfig{
		Tokenizer: TokenizerConfig{
			Fallback: "cl100k_base",
		},
		Batching: BatchingConfig{
			Window:    2048,
			Separator: "\n",
		},
		Verification: VerificationConfig{
			FactCheck:     true,
			Attribution:   true,
			Comparison:    true,
			ContextTokens: 10,
			MinMatchRatio: 0.25,
			NotFoundFloor: 0.25,
		},
	}
}
