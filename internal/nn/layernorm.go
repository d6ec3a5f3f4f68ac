package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// LayerNorm applies layer normalization along the last dimension:
//
//	y = gamma * (x - mean(x)) / sqrt(var(x) + eps) + beta
//
// Mean and variance are computed per position across the feature dimension,
// so every sequence position is normalized to zero mean and unit variance
// before the learned scale (gamma) and shift (beta) are applied.
type LayerNorm[B tensor.Backend] struct {
	Gamma   *Parameter[B] // learnable scale [dim]
	Beta    *Parameter[B] // learnable shift [dim]
	Epsilon float32
	backend B
}

// NewLayerNorm creates a LayerNorm over the last dimension of size dim.
// Gamma is initialized to ones, beta to zeros. Typical epsilon is 1e-5.
func NewLayerNorm[B tensor.Backend](dim int, epsilon float32, backend B) *LayerNorm[B] {
	if dim <= 0 {
		panic(fmt.Sprintf("LayerNorm: dim must be positive, got %d", dim))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("LayerNorm: epsilon must be positive, got %g", epsilon))
	}

	return &LayerNorm[B]{
		Gamma:   NewParameter("gamma", Ones(tensor.Shape{dim}, backend)),
		Beta:    NewParameter("beta", Zeros(tensor.Shape{dim}, backend)),
		Epsilon: epsilon,
		backend: backend,
	}
}

// Forward normalizes the input along its last dimension.
//
// Input and output have identical shape [..., dim].
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)
	variance := centered.Mul(centered).MeanDim(-1, true)

	// x_norm = (x - mean) / sqrt(var + eps)
	norm := centered.Mul(variance.AddScalar(l.Epsilon).Rsqrt())

	// gamma and beta are [dim]; unsqueeze to broadcast over the leading axes.
	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(x.Shape())-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}

	return norm.Mul(gamma).Add(beta)
}

// Parameters returns gamma and beta.
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
