// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package verification

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/AleutianAI/AleutianEvidence/pkg/model"
)

// NotFoundConfig configures the not-found classification.
type NotFoundConfig struct {
	// UseParse enables the parse heuristic: an empty answer, or one
	// starting with "not found", is a not-found answer.
	UseParse bool

	// UseEvidenceMatch enables the evidence-match heuristic: an answer
	// whose verified token match ratio falls below Threshold is a
	// not-found answer. Literal yes/no answers are never flagged this
	// way; they legitimately share no tokens with the evidence.
	UseEvidenceMatch bool

	// UseSelfCheck enables the optional self-classification heuristic,
	// which asks the language-model collaborator to judge its own
	// answer. Requires Client.
	UseSelfCheck bool

	// Threshold is the evidence-match ratio floor.
	Threshold float64

	// Client is the collaborator used by the self-check heuristic.
	Client model.Client
}

// DefaultNotFoundConfig returns a config with sensible defaults. The
// self-check heuristic is opt-in because it costs an inference call.
func DefaultNotFoundConfig() *NotFoundConfig {
	return &NotFoundConfig{
		UseParse:         true,
		UseEvidenceMatch: true,
		Threshold:        0.25,
	}
}

// selfCheckPrompt asks the collaborator to judge its own answer.
const selfCheckPrompt = "Evaluate whether the answer below states that the " +
	"requested information was not found in the source material. " +
	"Reply with yes or no.\n\nAnswer: "

// NotFoundClassifier decides whether an answer should be treated as "no
// supported answer found" rather than a substantive claim.
//
// The enabled heuristics vote independently; when more than one runs and
// they disagree, the combined result is undetermined.
//
// Thread Safety: Safe for concurrent use (stateless after construction).
type NotFoundClassifier struct {
	config *NotFoundConfig
}

// NewNotFoundClassifier creates the classifier. Nil config uses defaults.
func NewNotFoundClassifier(config *NotFoundConfig) *NotFoundClassifier {
	if config == nil {
		config = DefaultNotFoundConfig()
	}
	return &NotFoundClassifier{config: config}
}

// Name returns the analysis name for logging and metrics.
func (c *NotFoundClassifier) Name() string {
	return "not_found_classifier"
}

// Classify combines the enabled heuristics' votes.
//
// matchRatio is the aggregate verified token match ratio from the token
// comparison. A self-check failure (collaborator error, unparseable reply)
// abstains rather than voting; no usable votes yields undetermined.
func (c *NotFoundClassifier) Classify(ctx context.Context, input *CheckInput, matchRatio float64) Classification {
	if input == nil {
		return ClassificationUndetermined
	}

	var votes []bool

	if c.config.UseParse {
		// An answer with no letters or digits is not-found outright; the
		// other heuristics only grade answers that said something.
		if !substantive(input.Response) {
			return ClassificationNotFound
		}
		votes = append(votes, parseHeuristic(input.Response))
	}
	if c.config.UseEvidenceMatch {
		votes = append(votes, evidenceHeuristic(input.Response, matchRatio, c.config.Threshold))
	}
	if c.config.UseSelfCheck {
		if verdict, ok := c.selfHeuristic(ctx, input); ok {
			votes = append(votes, verdict)
		}
	}

	if len(votes) == 0 {
		return ClassificationUndetermined
	}
	first := votes[0]
	for _, v := range votes[1:] {
		if v != first {
			return ClassificationUndetermined
		}
	}
	if first {
		return ClassificationNotFound
	}
	return ClassificationFound
}

// substantive reports whether the answer contains any letter or digit.
func substantive(response string) bool {
	return strings.ContainsFunc(response, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

// parseHeuristic flags answers that are empty after stripping punctuation
// and whitespace, or that start with "not found".
func parseHeuristic(response string) bool {
	if !substantive(response) {
		return true
	}
	trimmed := strings.ToLower(strings.TrimSpace(response))
	return strings.HasPrefix(trimmed, "not found")
}

// evidenceHeuristic flags answers whose match ratio falls below the
// threshold, with a carve-out for literal yes/no answers.
func evidenceHeuristic(response string, ratio, threshold float64) bool {
	bare := strings.ToLower(strings.TrimFunc(strings.TrimSpace(response), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	}))
	if bare == "yes" || bare == "no" {
		return false
	}
	return ratio < threshold
}

// selfHeuristic asks the collaborator whether its answer was a not-found
// answer, parsing the yes/no reply. Returns ok=false to abstain.
func (c *NotFoundClassifier) selfHeuristic(ctx context.Context, input *CheckInput) (verdict, ok bool) {
	if c.config.Client == nil {
		return false, false
	}

	resp, err := c.config.Client.Infer(ctx, selfCheckPrompt+input.Response, "", model.SamplingParams{Temperature: 0})
	if err != nil {
		slog.Warn("Self-classification inference failed, abstaining", "error", err)
		return false, false
	}

	reply := strings.ToLower(strings.TrimSpace(resp.LLMResponse))
	switch {
	case strings.HasPrefix(reply, "yes"):
		return true, true
	case strings.HasPrefix(reply, "no"):
		return false, true
	default:
		slog.Warn("Self-classification reply not parseable, abstaining", "reply", resp.LLMResponse)
		return false, false
	}
}
