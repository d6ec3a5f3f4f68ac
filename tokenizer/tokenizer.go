// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer provides text tokenization for Loom encoder input.
//
// Example:
//
//	tok, err := tokenizer.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, err := tokenizer.PadBatch(tok, []string{"hello world", "hi"}, tok.EosToken(), 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// batch.IDs and batch.Valid feed tensor construction for the encoder.
package tokenizer

import (
	"github.com/loom-ml/loom/internal/tokenizer"
)

// Tokenizer converts text to token IDs and back.
type Tokenizer = tokenizer.Tokenizer

// Batch is a padded batch of encoded sequences.
type Batch = tokenizer.Batch

// NewTikToken creates a TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" (GPT-3).
func NewTikToken(encodingName string) (Tokenizer, error) {
	return tokenizer.NewTikToken(encodingName)
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model,
// e.g. "gpt-4" or "text-embedding-ada-002".
func NewTikTokenForModel(modelName string) (Tokenizer, error) {
	return tokenizer.NewTikTokenForModel(modelName)
}

// PadBatch encodes texts and pads them to a common length with padID.
func PadBatch(tok Tokenizer, texts []string, padID int32, maxLen int) (*Batch, error) {
	return tokenizer.PadBatch(tok, texts, padID, maxLen)
}
