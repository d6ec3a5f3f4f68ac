// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Attention

// MultiHeadAttention implements the multi-head attention mechanism.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention module. embedDim must
// be divisible by numHeads.
func NewMultiHeadAttention[B tensor.Backend](embedDim, numHeads int, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention[B](embedDim, numHeads, backend)
}

// ScaledDotProductAttention computes softmax(QK^T/sqrt(d_k) + mask)V over
// [batch, heads, seq, head_dim] tensors, returning the attended values and
// the attention weights. Pass scale 0 to auto-compute 1/sqrt(head_dim).
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(query, key, value, mask, scale)
}

// PaddingMask converts a [batch, seq] boolean validity mask (true = real
// token) into the [batch, 1, 1, seq] additive attention mask with -Inf at
// padding positions.
func PaddingMask[B tensor.Backend](valid *tensor.Tensor[bool, B]) *tensor.Tensor[float32, B] {
	return nn.PaddingMask(valid)
}

// CausalMask creates a [1, 1, seq, seq] additive causal mask: -Inf above the
// diagonal.
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.CausalMask[B](seqLen, backend)
}

// PaddingMaskFromIDs derives a [batch, seq] boolean validity mask from token
// IDs: true where the ID differs from padID.
func PaddingMaskFromIDs[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	return nn.PaddingMaskFromIDs(ids, padID)
}

// Encoder

// EncoderConfig holds the hyperparameters of an encoder block.
type EncoderConfig = nn.EncoderConfig

// DefaultNormEps is the layer normalization epsilon used when EncoderConfig
// leaves NormEps zero.
const DefaultNormEps = nn.DefaultNormEps

// EncoderBlock is a post-norm transformer encoder block: self-attention with
// residual and layer norm, then feed-forward with residual and layer norm.
//
// Example:
//
//	backend := cpu.New()
//	block := nn.NewEncoderBlock(nn.EncoderConfig{
//	    NumHeads:  8,
//	    EmbedDim:  256,
//	    HiddenDim: 1024,
//	}, backend)
//
//	x := tensor.Randn[float32](tensor.Shape{2, 32, 256}, backend)
//	out := block.Forward(x, nil) // [2, 32, 256]
type EncoderBlock[B tensor.Backend] = nn.EncoderBlock[B]

// NewEncoderBlock creates an encoder block from a config.
func NewEncoderBlock[B tensor.Backend](config EncoderConfig, backend B) *EncoderBlock[B] {
	return nn.NewEncoderBlock[B](config, backend)
}

// EncoderStackConfig describes a full encoder: token embedding, positional
// encoding, and a stack of encoder blocks.
type EncoderStackConfig = nn.EncoderStackConfig

// Encoder turns token IDs into contextual embeddings.
type Encoder[B tensor.Backend] = nn.Encoder[B]

// NewEncoder creates an encoder from a config.
func NewEncoder[B tensor.Backend](config EncoderStackConfig, backend B) *Encoder[B] {
	return nn.NewEncoder[B](config, backend)
}
