package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// FeedForward implements the position-wise feed-forward network of a
// transformer block:
//
//	FFN(x) = Linear2(ReLU(Linear1(x)))
//
// Linear1 expands from embedDim to hiddenDim, Linear2 contracts back to
// embedDim with no activation so the output can be added to the residual
// stream.
type FeedForward[B tensor.Backend] struct {
	Expand   *Linear[B] // [embed_dim -> hidden_dim]
	Contract *Linear[B] // [hidden_dim -> embed_dim]
	act      *ReLU[B]
	backend  B
}

// NewFeedForward creates a feed-forward network. hiddenDim is typically a
// small multiple of embedDim (4x in the original transformer).
func NewFeedForward[B tensor.Backend](embedDim, hiddenDim int, backend B) *FeedForward[B] {
	return &FeedForward[B]{
		Expand:   NewLinear[B](embedDim, hiddenDim, backend),
		Contract: NewLinear[B](hiddenDim, embedDim, backend),
		act:      NewReLU[B](),
		backend:  backend,
	}
}

// Forward applies the two projections with ReLU in between.
//
// Accepts 2D [batch, embed_dim] or 3D [batch, seq, embed_dim] input and
// returns the same shape. Linear layers work on 2D input, so 3D input is
// flattened and restored around them.
func (f *FeedForward[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	is3D := len(shape) == 3

	if is3D {
		x = x.Reshape(shape[0]*shape[1], shape[2])
	}

	x = f.Expand.Forward(x)
	x = f.act.Forward(x)
	x = f.Contract.Forward(x)

	if is3D {
		x = x.Reshape(shape[0], shape[1], shape[2])
	}

	return x
}

// Parameters returns the parameters of both projections.
func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 4)
	params = append(params, f.Expand.Parameters()...)
	params = append(params, f.Contract.Parameters()...)
	return params
}
