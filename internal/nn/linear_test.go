package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

func TestLinearForward(t *testing.T) {
	backend := cpu.New()

	linear := NewLinear[*cpu.CPUBackend](3, 2, backend)

	// Fix the weights so the output is checkable:
	// W = [[1, 0, 0], [0, 1, 0]], b = [10, 20]
	copy(linear.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 0})
	copy(linear.Bias().Tensor().Data(), []float32{10, 20})

	x, _ := tensor.FromSlice[float32]([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	out := linear.Forward(x)

	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("output shape = %v, want [2 2]", out.Shape())
	}
	want := []float32{11, 22, 14, 25}
	for i, v := range out.Data() {
		if !floatEqual(v, want[i], 1e-5) {
			t.Errorf("element %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestLinearParameters(t *testing.T) {
	backend := cpu.New()

	linear := NewLinear[*cpu.CPUBackend](4, 3, backend)
	params := linear.Parameters()

	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}
	if !params[0].Tensor().Shape().Equal(tensor.Shape{3, 4}) {
		t.Errorf("weight shape = %v, want [3 4]", params[0].Tensor().Shape())
	}
	if !params[1].Tensor().Shape().Equal(tensor.Shape{3}) {
		t.Errorf("bias shape = %v, want [3]", params[1].Tensor().Shape())
	}
}

func TestLinearXavierRange(t *testing.T) {
	backend := cpu.New()

	linear := NewLinear[*cpu.CPUBackend](100, 100, backend)
	bound := float32(math.Sqrt(6.0/200.0)) * 1.0001

	for i, v := range linear.Weight().Tensor().Data() {
		if v < -bound || v > bound {
			t.Fatalf("weight %d = %v outside Xavier bound ±%v", i, v, bound)
		}
	}

	for i, v := range linear.Bias().Tensor().Data() {
		if v != 0 {
			t.Fatalf("bias %d = %v, want 0", i, v)
		}
	}
}

func TestLinearWrongWidthPanics(t *testing.T) {
	backend := cpu.New()

	linear := NewLinear[*cpu.CPUBackend](3, 2, backend)
	x := tensor.Zeros[float32](tensor.Shape{2, 4}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Forward with wrong feature width should panic")
		}
	}()
	linear.Forward(x)
}
