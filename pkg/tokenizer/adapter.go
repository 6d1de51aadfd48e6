// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tokenizer resolves and wraps the tokenizer used by a batching
// session.
//
// Chunk boundaries computed while counting must match the boundaries used
// while slicing, so a single Adapter instance must serve every count,
// encode, and decode call within one session. Resolution is an explicit
// constructor argument with a documented fallback order; there is no
// package-level default tokenizer.
package tokenizer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the fallback BPE encoding used when neither a caller
// codec nor a model identifier resolves.
const DefaultEncoding = "cl100k_base"

// Codec is the minimal tokenizer contract the batching and verification
// engines depend on.
//
// Implementations must guarantee Count(text) == len(Encode(text)) for all
// inputs, and Decode(Encode(text)) must reproduce text for any text the
// codec round-trips losslessly.
//
// Thread Safety: Implementations must be safe for concurrent use.
type Codec interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Encode converts text to its token id sequence.
	Encode(text string) []int

	// Decode converts a token id sequence back to text.
	Decode(ids []int) string
}

// Adapter binds a resolved Codec to the session that owns it.
//
// Thread Safety: Safe for concurrent use; the adapter is immutable after
// construction.
type Adapter struct {
	codec Codec
	name  string
}

// ResolveOptions selects which tokenizer an Adapter wraps.
//
// Resolution order:
//  1. Codec, when non-nil (caller-supplied tokenizer for the session).
//  2. Model, when non-empty (model-card-declared identifier mapped to its
//     encoding).
//  3. Fallback, defaulting to DefaultEncoding when empty.
type ResolveOptions struct {
	// Codec is a caller-supplied tokenizer. Takes precedence over Model
	// and Fallback.
	Codec Codec

	// Name labels a caller-supplied Codec for logging. Ignored unless
	// Codec is set.
	Name string

	// Model is a model identifier (e.g. "gpt-4") resolved through the
	// encoding registry.
	Model string

	// Fallback is the encoding name used when Codec and Model are unset
	// or unresolvable. Empty means DefaultEncoding.
	Fallback string
}

// Resolve builds an Adapter from the given options.
//
// Inputs:
//
//	opts - Tokenizer selection. The zero value resolves DefaultEncoding.
//
// Outputs:
//
//	*Adapter - The resolved adapter, ready for a batching session.
//	error - Wraps ErrNoTokenizer if nothing in the chain resolves.
func Resolve(opts ResolveOptions) (*Adapter, error) {
	if opts.Codec != nil {
		name := opts.Name
		if name == "" {
			name = "caller"
		}
		return &Adapter{codec: opts.Codec, name: name}, nil
	}

	var modelErr error
	if opts.Model != "" {
		enc, err := tiktoken.EncodingForModel(opts.Model)
		if err == nil {
			return &Adapter{codec: &tiktokenCodec{enc: enc}, name: opts.Model}, nil
		}
		modelErr = fmt.Errorf("%w %q: %v", ErrUnknownModel, opts.Model, err)
		slog.Warn("Model identifier did not resolve to an encoding, falling back",
			"model", opts.Model, "error", modelErr)
	}

	fallback := opts.Fallback
	if fallback == "" {
		fallback = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(fallback)
	if err != nil {
		err = fmt.Errorf("%w: %w %q: %v", ErrNoTokenizer, ErrUnknownEncoding, fallback, err)
		if modelErr != nil {
			err = errors.Join(err, modelErr)
		}
		return nil, err
	}
	return &Adapter{codec: &tiktokenCodec{enc: enc}, name: fallback}, nil
}

// Name returns the resolved tokenizer name for logging and diagnostics.
func (a *Adapter) Name() string {
	return a.name
}

// Count returns the token count of text.
func (a *Adapter) Count(text string) int {
	return a.codec.Count(text)
}

// Encode converts text to token ids.
func (a *Adapter) Encode(text string) []int {
	return a.codec.Encode(text)
}

// Decode converts token ids back to text.
func (a *Adapter) Decode(ids []int) string {
	return a.codec.Decode(ids)
}

// tiktokenCodec adapts a tiktoken encoding to the Codec contract.
type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCodec) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(ids []int) string {
	return c.enc.Decode(ids)
}
