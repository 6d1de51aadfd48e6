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
	"strings"
	"unicode"
)

// tokenSpan is one whitespace-delimited token with its char offsets in the
// source text. The offsets are built once per text and reused for snippet
// extraction and metadata-span resolution, avoiding re-tokenization.
type tokenSpan struct {
	// Text is the raw token, punctuation included.
	Text string

	// Start is the byte offset of the token in the source text.
	Start int

	// End is the byte offset one past the token's last byte.
	End int
}

// scanTokens builds the token-to-offset index for text.
func scanTokens(text string) []tokenSpan {
	var spans []tokenSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, tokenSpan{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, tokenSpan{Text: text[start:], Start: start, End: len(text)})
	}
	return spans
}

// normalizeToken lowercases a token and strips leading and trailing
// punctuation, leaving interior punctuation (decimal points, thousands
// separators) intact.
func normalizeToken(tok string) string {
	tok = strings.ToLower(tok)
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// isContentToken reports whether a normalized token participates in overlap
// scoring: stopwords and single-letter tokens are filtered.
func isContentToken(norm string) bool {
	if len(norm) < 2 {
		return false
	}
	return !stopWords[norm]
}

// stopWords is the package-level set of tokens excluded from overlap
// scoring. Kept package-level to avoid allocating a new map per call.
var stopWords = map[string]bool{
	// Articles and determiners
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"these": true, "those": true, "any": true, "each": true, "every": true,
	"some": true, "such": true, "no": true, "other": true, "both": true,
	// Pronouns
	"i": true, "you": true, "he": true, "she": true, "it": true,
	"we": true, "they": true, "its": true, "his": true, "her": true,
	"their": true, "our": true, "your": true, "my": true, "them": true,
	"him": true, "me": true, "us": true, "who": true, "whom": true,
	"which": true, "what": true, "whose": true,
	// Copulas and auxiliaries
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "am": true, "do": true, "does": true,
	"did": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "shall": true, "should": true, "can": true,
	"could": true, "may": true, "might": true, "must": true,
	// Conjunctions and prepositions
	"and": true, "or": true, "but": true, "nor": true, "so": true,
	"yet": true, "if": true, "then": true, "than": true, "because": true,
	"while": true, "when": true, "where": true, "how": true, "why": true,
	"of": true, "to": true, "in": true, "on": true, "at": true,
	"by": true, "for": true, "with": true, "about": true, "from": true,
	"into": true, "onto": true, "over": true, "under": true, "after": true,
	"before": true, "between": true, "through": true, "during": true,
	"above": true, "below": true, "up": true, "down": true, "out": true,
	"off": true, "as": true,
	// Common fillers
	"not": true, "also": true, "very": true, "just": true, "there": true,
	"here": true, "all": true, "more": true, "most": true, "only": true,
	"own": true, "same": true, "too": true,
}
