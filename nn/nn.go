// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the common interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor owned by a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(256, 1024, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// LayerNorm applies layer normalization along the last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a LayerNorm over the last dimension of size dim.
func NewLayerNorm[B tensor.Backend](dim int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(dim, epsilon, backend)
}

// ReLU is the rectified linear unit activation module.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// FeedForward is the position-wise feed-forward network of a transformer
// block: expand, ReLU, contract.
type FeedForward[B tensor.Backend] = nn.FeedForward[B]

// NewFeedForward creates a feed-forward network.
func NewFeedForward[B tensor.Backend](embedDim, hiddenDim int, backend B) *FeedForward[B] {
	return nn.NewFeedForward(embedDim, hiddenDim, backend)
}

// Embedding is a lookup table mapping token IDs to dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding layer with N(0, 1) initialization.
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, backend)
}

// NewEmbeddingWithWeight creates an embedding layer around pre-initialized
// weights [numEmbeddings, embeddingDim].
func NewEmbeddingWithWeight[B tensor.Backend](weight *tensor.Tensor[float32, B]) *Embedding[B] {
	return nn.NewEmbeddingWithWeight(weight)
}

// SinusoidalPositionalEncoding holds fixed sinusoidal position encodings.
type SinusoidalPositionalEncoding[B tensor.Backend] = nn.SinusoidalPositionalEncoding[B]

// NewSinusoidalPositionalEncoding pre-computes encodings for positions
// [0, maxLen).
func NewSinusoidalPositionalEncoding[B tensor.Backend](maxLen, dim int, backend B) *SinusoidalPositionalEncoding[B] {
	return nn.NewSinusoidalPositionalEncoding(maxLen, dim, backend)
}

// Initialization helpers

// Xavier initializes a weight tensor with Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
