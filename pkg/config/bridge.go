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

import (
	"github.com/AleutianAI/AleutianEvidence/pkg/batching"
	"github.com/AleutianAI/AleutianEvidence/pkg/tokenizer"
	"github.com/AleutianAI/AleutianEvidence/pkg/verification"
)

// ResolveOptions maps the tokenizer section onto the resolution chain.
// Callers with their own Codec set it on the returned options; the file
// only carries names.
func (c EvidenceConfig) ResolveOptions() tokenizer.ResolveOptions {
	return tokenizer.ResolveOptions{
		Model:    c.Tokenizer.Model,
		Fallback: c.Tokenizer.Fallback,
	}
}

// BatcherOptions maps the batching section onto Batcher construction.
func (c EvidenceConfig) BatcherOptions() []batching.Option {
	return []batching.Option{
		batching.WithSeparator(c.Batching.Separator),
	}
}

// PackageOptions maps the batching section onto one Package call.
func (c EvidenceConfig) PackageOptions(aggregate bool) batching.PackageOptions {
	return batching.PackageOptions{
		Window:    c.Batching.Window,
		Aggregate: aggregate,
	}
}

// VerifierConfig maps the verification section onto the verifier's
// per-analysis configs, starting from their defaults.
func (c EvidenceConfig) VerifierConfig() *verification.Config {
	factChecker := verification.DefaultFactCheckerConfig()
	factChecker.Enabled = c.Verification.FactCheck
	factChecker.ContextTokens = c.Verification.ContextTokens

	attributor := verification.DefaultAttributorConfig()
	attributor.Enabled = c.Verification.Attribution
	attributor.MinRatio = c.Verification.MinMatchRatio

	comparator := verification.DefaultComparatorConfig()
	comparator.Enabled = c.Verification.Comparison

	notFound := verification.DefaultNotFoundConfig()
	notFound.Threshold = c.Verification.NotFoundFloor

	return &verification.Config{
		FactChecker: factChecker,
		Attributor:  attributor,
		Comparator:  comparator,
		NotFound:    notFound,
	}
}
