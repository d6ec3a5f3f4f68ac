package nn

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestLayerNormBasic(t *testing.T) {
	backend := cpu.New()

	ln := NewLayerNorm[*cpu.CPUBackend](3, 1e-5, backend)

	input, err := tensor.FromSlice[float32]([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	output := ln.Forward(input)

	if !output.Shape().Equal(input.Shape()) {
		t.Fatalf("output shape = %v, want %v", output.Shape(), input.Shape())
	}

	// Both rows are arithmetic sequences with the same spread, so both
	// normalize to [-1.2247, 0, 1.2247].
	want := []float32{-1.2247, 0, 1.2247, -1.2247, 0, 1.2247}
	for i, v := range output.Data() {
		if !floatEqual(v, want[i], 0.01) {
			t.Errorf("element %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestLayerNormZeroMeanUnitVariance(t *testing.T) {
	backend := cpu.New()

	dim := 64
	ln := NewLayerNorm[*cpu.CPUBackend](dim, 1e-5, backend)
	x := tensor.Randn[float32](tensor.Shape{2, 5, dim}, backend)

	out := ln.Forward(x)
	data := out.Data()

	for pos := 0; pos < 10; pos++ {
		row := data[pos*dim : (pos+1)*dim]

		var sum float32
		for _, v := range row {
			sum += v
		}
		mean := sum / float32(dim)
		if !floatEqual(mean, 0, 1e-4) {
			t.Errorf("position %d mean = %v, want 0", pos, mean)
		}

		var sumSq float32
		for _, v := range row {
			sumSq += (v - mean) * (v - mean)
		}
		variance := sumSq / float32(dim)
		if !floatEqual(variance, 1, 0.01) {
			t.Errorf("position %d variance = %v, want 1", pos, variance)
		}
	}
}

func TestLayerNormGammaBeta(t *testing.T) {
	backend := cpu.New()

	ln := NewLayerNorm[*cpu.CPUBackend](2, 1e-5, backend)
	copy(ln.Gamma.Tensor().Data(), []float32{2, 2})
	copy(ln.Beta.Tensor().Data(), []float32{10, 10})

	x, _ := tensor.FromSlice[float32]([]float32{-1, 1}, tensor.Shape{1, 2}, backend)
	out := ln.Forward(x)

	// Normalized to roughly [-1, 1], then scaled and shifted: [8, 12].
	data := out.Data()
	if !floatEqual(data[0], 8, 0.05) || !floatEqual(data[1], 12, 0.05) {
		t.Errorf("output = %v, want roughly [8 12]", data)
	}
}

func TestLayerNormParameters(t *testing.T) {
	backend := cpu.New()

	ln := NewLayerNorm[*cpu.CPUBackend](8, 1e-5, backend)
	params := ln.Parameters()

	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}
	for _, v := range params[0].Tensor().Data() {
		if v != 1 {
			t.Fatal("gamma should initialize to ones")
		}
	}
	for _, v := range params[1].Tensor().Data() {
		if v != 0 {
			t.Fatal("beta should initialize to zeros")
		}
	}
}

func TestLayerNormIndependentInstances(t *testing.T) {
	backend := cpu.New()

	a := NewLayerNorm[*cpu.CPUBackend](4, 1e-5, backend)
	b := NewLayerNorm[*cpu.CPUBackend](4, 1e-5, backend)

	a.Gamma.Tensor().Data()[0] = 99
	if b.Gamma.Tensor().Data()[0] == 99 {
		t.Error("two LayerNorm instances must not share parameters")
	}
}
