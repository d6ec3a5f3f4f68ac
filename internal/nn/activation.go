package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// ReLUBackend is implemented by backends that support the rectified linear
// unit natively.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU is the rectified linear unit activation module: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()

	if rb, ok := any(backend).(ReLUBackend); ok {
		return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
	}

	panic("ReLU: backend must implement the ReLU operation")
}

// Parameters returns nil: ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}
