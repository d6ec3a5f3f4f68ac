package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MultiHeadAttention implements the multi-head attention mechanism:
//
//	MHA(Q, K, V) = Concat(head_1, ..., head_h) W_O
//	head_i = SDPA(Q W_Q_i, K W_K_i, V W_V_i)
//
// The embedding dimension is split evenly across heads; each head attends in
// its own subspace and the results are concatenated and projected back.
type MultiHeadAttention[B tensor.Backend] struct {
	WQ       *Linear[B] // query projection [embed_dim, embed_dim]
	WK       *Linear[B] // key projection
	WV       *Linear[B] // value projection
	WO       *Linear[B] // output projection
	NumHeads int
	HeadDim  int
	EmbedDim int
	backend  B
}

// NewMultiHeadAttention creates a multi-head attention module.
// Panics when embedDim is not divisible by numHeads: the heads could not
// split the embedding evenly.
func NewMultiHeadAttention[B tensor.Backend](embedDim, numHeads int, backend B) *MultiHeadAttention[B] {
	if numHeads <= 0 {
		panic(fmt.Sprintf("MultiHeadAttention: num_heads must be positive, got %d", numHeads))
	}
	if embedDim%numHeads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: embed_dim (%d) must be divisible by num_heads (%d)", embedDim, numHeads))
	}

	return &MultiHeadAttention[B]{
		WQ:       NewLinear[B](embedDim, embedDim, backend),
		WK:       NewLinear[B](embedDim, embedDim, backend),
		WV:       NewLinear[B](embedDim, embedDim, backend),
		WO:       NewLinear[B](embedDim, embedDim, backend),
		NumHeads: numHeads,
		HeadDim:  embedDim / numHeads,
		EmbedDim: embedDim,
		backend:  backend,
	}
}

// Forward computes multi-head attention.
//
//   - query: [batch, seq_q, embed_dim]
//   - key:   [batch, seq_k, embed_dim]
//   - value: [batch, seq_k, embed_dim]
//   - mask:  optional additive mask broadcastable to
//     [batch, heads, seq_q, seq_k], or nil
//
// Returns [batch, seq_q, embed_dim]. Pass the same tensor as query, key, and
// value for self-attention.
func (m *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	output, _ := m.ForwardWithWeights(query, key, value, mask)
	return output
}

// ForwardWithWeights is Forward plus the attention weights
// [batch, heads, seq_q, seq_k], for analysis and testing.
func (m *MultiHeadAttention[B]) ForwardWithWeights(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	batch := query.Shape()[0]
	seqQ := query.Shape()[1]
	seqK := key.Shape()[1]

	// Project and split into heads:
	// [batch, seq, embed] -> [batch, heads, seq, head_dim]
	q := m.project(query, m.WQ, batch, seqQ)
	k := m.project(key, m.WK, batch, seqK)
	v := m.project(value, m.WV, batch, seqK)

	attnOut, weights := ScaledDotProductAttention(q, k, v, mask, 0)

	// Merge heads back: [batch, heads, seq_q, head_dim] -> [batch, seq_q, embed]
	attnOut = attnOut.Transpose(0, 2, 1, 3).Reshape(batch*seqQ, m.EmbedDim)

	output := m.WO.Forward(attnOut).Reshape(batch, seqQ, m.EmbedDim)
	return output, weights
}

// project applies a linear projection to a 3D input and reshapes the result
// into per-head layout [batch, heads, seq, head_dim].
func (m *MultiHeadAttention[B]) project(
	input *tensor.Tensor[float32, B],
	linear *Linear[B],
	batch, seq int,
) *tensor.Tensor[float32, B] {
	projected := linear.Forward(input.Reshape(batch*seq, m.EmbedDim))
	return projected.Reshape(batch, seq, m.NumHeads, m.HeadDim).Transpose(0, 2, 1, 3)
}

// Parameters returns the parameters of all four projections.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 8)
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.WO.Parameters()...)
	return params
}
