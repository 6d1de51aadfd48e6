// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCodec treats every whitespace-delimited word as one token.
type fakeCodec struct {
	ids   map[string]int
	words []string
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{ids: make(map[string]int)}
}

func (c *fakeCodec) Count(text string) int {
	return len(strings.Fields(text))
}

func (c *fakeCodec) Encode(text string) []int {
	fields := strings.Fields(text)
	out := make([]int, 0, len(fields))
	for _, w := range fields {
		id, ok := c.ids[w]
		if !ok {
			id = len(c.words)
			c.ids[w] = id
			c.words = append(c.words, w)
		}
		out = append(out, id)
	}
	return out
}

func (c *fakeCodec) Decode(ids []int) string {
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		words = append(words, c.words[id])
	}
	return strings.Join(words, " ")
}

// TestResolve_CallerCodecWins verifies a caller-supplied codec takes
// precedence over model and fallback resolution.
func TestResolve_CallerCodecWins(t *testing.T) {
	codec := newFakeCodec()

	adapter, err := Resolve(ResolveOptions{
		Codec: codec,
		Name:  "words",
		Model: "gpt-4",
	})
	require.NoError(t, err)
	assert.Equal(t, "words", adapter.Name())
	assert.Equal(t, 3, adapter.Count("one two three"))
}

// TestResolve_CallerCodecDefaultName verifies an unnamed caller codec gets
// the "caller" label.
func TestResolve_CallerCodecDefaultName(t *testing.T) {
	adapter, err := Resolve(ResolveOptions{Codec: newFakeCodec()})
	require.NoError(t, err)
	assert.Equal(t, "caller", adapter.Name())
}

// TestAdapter_Delegation verifies the adapter forwards to its codec.
func TestAdapter_Delegation(t *testing.T) {
	adapter, err := Resolve(ResolveOptions{Codec: newFakeCodec(), Name: "words"})
	require.NoError(t, err)

	text := "alpha beta gamma"
	ids := adapter.Encode(text)
	require.Len(t, ids, 3)
	assert.Equal(t, adapter.Count(text), len(ids))
	assert.Equal(t, text, adapter.Decode(ids))
}

// TestCodec_RoundTripContract verifies the contract the batching layer
// depends on: re-encoding a decoded slice reproduces the ids.
func TestCodec_RoundTripContract(t *testing.T) {
	codec := newFakeCodec()
	ids := codec.Encode("the quick brown fox jumps over the lazy dog")

	mid := len(ids) / 2
	first := codec.Encode(codec.Decode(ids[:mid]))
	second := codec.Encode(codec.Decode(ids[mid:]))

	assert.Equal(t, ids, append(first, second...))
}

// TestResolve_UnknownNamesSurfaceSentinels verifies that a model identifier
// and a fallback encoding that both fail lookup are reported through the
// package sentinels, so callers can branch with errors.Is.
func TestResolve_UnknownNamesSurfaceSentinels(t *testing.T) {
	_, err := Resolve(ResolveOptions{
		Model:    "bogus-model",
		Fallback: "bogus-encoding",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTokenizer)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

// TestResolve_UnknownFallbackWrapsEncodingSentinel verifies a bad fallback
// alone does not claim a model lookup failed.
func TestResolve_UnknownFallbackWrapsEncodingSentinel(t *testing.T) {
	_, err := Resolve(ResolveOptions{Fallback: "bogus-encoding"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTokenizer)
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.NotErrorIs(t, err, ErrUnknownModel)
}
