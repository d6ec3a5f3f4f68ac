// Package nn provides the neural network building blocks for Loom:
// linear projections, layer normalization, multi-head attention, and the
// transformer encoder block composed from them.
package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the base interface for neural network components.
//
// Every module computes an output from an input and exposes its trainable
// parameters. Components whose Forward takes extra arguments (attention
// masks, multiple inputs) follow the same shape without satisfying the
// interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, including
	// those of nested modules. Modules without parameters return nil.
	Parameters() []*Parameter[B]
}
