// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tokenizer

import "errors"

// Tokenizer resolution errors.
var (
	// ErrNoTokenizer indicates no tokenizer could be resolved from the
	// configured resolution chain. This is fatal for a batching session
	// and must be surfaced before any packing begins.
	ErrNoTokenizer = errors.New("no tokenizer resolvable")

	// ErrUnknownModel indicates the model identifier did not map to a
	// known encoding.
	ErrUnknownModel = errors.New("unknown model identifier")

	// ErrUnknownEncoding indicates the fallback encoding name is not
	// a known encoding.
	ErrUnknownEncoding = errors.New("unknown encoding name")
)
