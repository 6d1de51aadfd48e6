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
	"math"
	"strconv"
	"strings"
)

// numberWords maps spelled-out English numbers to their values so prose
// evidence ("ten percent") can confirm numeric answers.
var numberWords = map[string]float64{
	"zero":      0,
	"one":       1,
	"two":       2,
	"three":     3,
	"four":      4,
	"five":      5,
	"six":       6,
	"seven":     7,
	"eight":     8,
	"nine":      9,
	"ten":       10,
	"eleven":    11,
	"twelve":    12,
	"dozen":     12,
	"thirteen":  13,
	"fourteen":  14,
	"fifteen":   15,
	"sixteen":   16,
	"seventeen": 17,
	"eighteen":  18,
	"nineteen":  19,
	"twenty":    20,
	"thirty":    30,
	"forty":     40,
	"fifty":     50,
	"sixty":     60,
	"seventy":   70,
	"eighty":    80,
	"ninety":    90,
	"hundred":   100,
	"thousand":  1000,
	"million":   1000000,
	"billion":   1000000000,
}

// currencyRunes are stripped before numeric parsing.
const currencyRunes = "$€£¥"

// parseNumeric parses one token as a number.
//
// Normalization: currency symbols and thousands separators are stripped,
// trailing punctuation is trimmed, and a trailing '%' divides the value by
// 100. The token must contain at least one digit; spelled-out numbers are
// handled by numberAt, not here.
func parseNumeric(tok string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(tok))
	s = strings.TrimRight(s, ".,;:!?)]}'\"")
	s = strings.TrimLeft(s, "([{'\"")
	for _, c := range currencyRunes {
		s = strings.ReplaceAll(s, string(c), "")
	}
	s = strings.ReplaceAll(s, ",", "")

	percent := false
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimRight(s, ".,;:!?)]}'\"")
	}

	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		val /= 100
	}
	return val, true
}

// numberAt reads the numeric value at token index i, if any.
//
// With includeWords, spelled-out numbers resolve through numberWords. A
// following "percent" or "%" token scales the value by 1/100 and is
// reported through consumed so the caller can skip it.
func numberAt(toks []tokenSpan, i int, includeWords bool) (val float64, consumed int, ok bool) {
	consumed = 1

	if v, parsed := parseNumeric(toks[i].Text); parsed {
		val, ok = v, true
	} else if includeWords {
		if v, word := numberWords[normalizeToken(toks[i].Text)]; word {
			val, ok = v, true
		}
	}
	if !ok {
		return 0, 0, false
	}

	// A percent marker on the token itself was already applied by
	// parseNumeric; only a separate following token scales here.
	if !strings.Contains(toks[i].Text, "%") && i+1 < len(toks) {
		next := normalizeToken(toks[i+1].Text)
		if next == "percent" || next == "%" || toks[i+1].Text == "%" {
			val /= 100
			consumed = 2
		}
	}

	return val, consumed, true
}

// numericEqual compares two parsed values with a relative epsilon, so
// 0.10 from "10%" equals 0.10 from "ten percent".
func numericEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= 1e-9 {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= 1e-9*scale
}
