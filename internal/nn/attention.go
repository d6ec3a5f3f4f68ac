package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// ScaledDotProductAttention computes
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(d_k) + mask) V
//
// over 4D tensors:
//   - query: [batch, heads, seq_q, head_dim]
//   - key:   [batch, heads, seq_k, head_dim]
//   - value: [batch, heads, seq_k, head_dim]
//   - mask:  optional additive mask broadcastable to
//     [batch, heads, seq_q, seq_k]; -Inf entries exclude a key position
//   - scale: scaling factor, 0 to auto-compute 1/sqrt(head_dim)
//
// Returns the attended values [batch, heads, seq_q, head_dim] and the
// attention weights [batch, heads, seq_q, seq_k].
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	validateAttentionInputs(query, key, value)

	if scale == 0 {
		scale = float32(1.0 / math.Sqrt(float64(query.Shape()[3])))
	}

	// scores = Q @ K^T / sqrt(d_k): [batch, heads, seq_q, seq_k]
	kT := key.Transpose(0, 1, 3, 2)
	scores := query.BatchMatMul(kT).MulScalar(scale)

	if mask != nil {
		scores = scores.Add(mask)
	}

	// softmax over keys; -Inf masked entries get exactly zero weight
	weights := scores.Softmax(-1)

	return weights.BatchMatMul(value), weights
}

func validateAttentionInputs[B tensor.Backend](query, key, value *tensor.Tensor[float32, B]) {
	if len(query.Shape()) != 4 || len(key.Shape()) != 4 || len(value.Shape()) != 4 {
		panic("ScaledDotProductAttention: inputs must be 4D [batch, heads, seq, head_dim]")
	}
	if query.Shape()[3] != key.Shape()[3] {
		panic(fmt.Sprintf("ScaledDotProductAttention: query head_dim %d != key head_dim %d",
			query.Shape()[3], key.Shape()[3]))
	}
	if key.Shape()[2] != value.Shape()[2] {
		panic(fmt.Sprintf("ScaledDotProductAttention: key seq length %d != value seq length %d",
			key.Shape()[2], value.Shape()[2]))
	}
}

// PaddingMask converts a boolean validity mask into the additive attention
// mask the encoder applies.
//
// The broadcasting rule: a [batch, seq] mask (true = real token, false =
// padding) expands to [batch, 1, 1, seq] with 0 at valid positions and -Inf
// at padding positions. Broadcast over the head and query axes, it forbids
// every query from attending to padded key positions while leaving padded
// query rows free to compute their (ignored) outputs.
//
// Each sequence must have at least one valid position, otherwise its
// attention rows would have no finite score to normalize.
func PaddingMask[B tensor.Backend](valid *tensor.Tensor[bool, B]) *tensor.Tensor[float32, B] {
	shape := valid.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("PaddingMask: expected [batch, seq] mask, got shape %v", shape))
	}

	mask := tensor.Zeros[float32](tensor.Shape{shape[0], 1, 1, shape[1]}, valid.Backend())

	negInf := float32(math.Inf(-1))
	src := valid.Data()
	dst := mask.Data()
	for i, ok := range src {
		if !ok {
			dst[i] = negInf
		}
	}

	return mask
}

// CausalMask creates an additive causal mask of shape [1, 1, seq, seq]:
// zero on and below the diagonal, -Inf above it. Broadcastable to
// [batch, heads, seq, seq]. Used by autoregressive decoders; the encoder
// block does not apply it.
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	mask := tensor.Zeros[float32](tensor.Shape{1, 1, seqLen, seqLen}, backend)

	negInf := float32(math.Inf(-1))
	data := mask.Data()
	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			data[i*seqLen+j] = negInf
		}
	}

	return mask
}
