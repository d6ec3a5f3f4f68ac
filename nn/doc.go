// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for Loom.
//
// # Layers
//
//   - Linear: fully connected layer with Xavier initialization
//   - LayerNorm: layer normalization over the last dimension
//   - ReLU: rectified linear unit activation
//   - FeedForward: expand/ReLU/contract transformer feed-forward
//   - Embedding: token ID to vector lookup
//   - SinusoidalPositionalEncoding: fixed position encodings
//   - MultiHeadAttention: multi-head scaled dot-product attention
//   - EncoderBlock: post-norm transformer encoder block
//   - Encoder: embedding + positional encoding + stacked blocks
//
// # Example
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/nn"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	backend := cpu.New()
//	block := nn.NewEncoderBlock(nn.EncoderConfig{
//	    NumHeads:  8,
//	    EmbedDim:  256,
//	    HiddenDim: 1024,
//	}, backend)
//
//	x := tensor.Randn[float32](tensor.Shape{2, 32, 256}, backend)
//	padding := tensor.Ones[bool](tensor.Shape{2, 32}, backend)
//	out := block.Forward(x, padding)
package nn
