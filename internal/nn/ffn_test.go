package nn

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestFeedForwardShape2D(t *testing.T) {
	backend := cpu.New()

	ffn := NewFeedForward[*cpu.CPUBackend](16, 64, backend)
	x := tensor.Randn[float32](tensor.Shape{3, 16}, backend)

	out := ffn.Forward(x)
	if !out.Shape().Equal(tensor.Shape{3, 16}) {
		t.Errorf("output shape = %v, want [3 16]", out.Shape())
	}
}

func TestFeedForwardShape3D(t *testing.T) {
	backend := cpu.New()

	ffn := NewFeedForward[*cpu.CPUBackend](8, 32, backend)
	x := tensor.Randn[float32](tensor.Shape{2, 5, 8}, backend)

	out := ffn.Forward(x)
	if !out.Shape().Equal(tensor.Shape{2, 5, 8}) {
		t.Errorf("output shape = %v, want [2 5 8]", out.Shape())
	}
}

func TestFeedForwardParameterCount(t *testing.T) {
	backend := cpu.New()

	embedDim, hiddenDim := 8, 32
	ffn := NewFeedForward[*cpu.CPUBackend](embedDim, hiddenDim, backend)

	total := 0
	for _, p := range ffn.Parameters() {
		total += p.Tensor().NumElements()
	}

	want := embedDim*hiddenDim + hiddenDim + hiddenDim*embedDim + embedDim
	if total != want {
		t.Errorf("parameter count = %d, want %d", total, want)
	}
}

func TestFeedForwardReLUGating(t *testing.T) {
	backend := cpu.New()

	// With the expand layer forced to identity-negative weights and the
	// contract layer to sum, a positive input passes through and a negative
	// one is zeroed by the ReLU.
	ffn := NewFeedForward[*cpu.CPUBackend](1, 1, backend)
	copy(ffn.Expand.Weight().Tensor().Data(), []float32{1})
	copy(ffn.Expand.Bias().Tensor().Data(), []float32{0})
	copy(ffn.Contract.Weight().Tensor().Data(), []float32{1})
	copy(ffn.Contract.Bias().Tensor().Data(), []float32{0})

	x, _ := tensor.FromSlice[float32]([]float32{2, -3}, tensor.Shape{2, 1}, backend)
	out := ffn.Forward(x).Data()

	if !floatEqual(out[0], 2, 1e-5) {
		t.Errorf("positive input -> %v, want 2", out[0])
	}
	if !floatEqual(out[1], 0, 1e-5) {
		t.Errorf("negative input -> %v, want 0 after ReLU", out[1])
	}
}
