package tensor_test

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestZeros(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	for i, v := range x.Data() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestOnes(t *testing.T) {
	backend := cpu.New()

	x := tensor.Ones[float32](tensor.Shape{4}, backend)
	for i, v := range x.Data() {
		if v != 1 {
			t.Errorf("element %d = %v, want 1", i, v)
		}
	}

	b := tensor.Ones[bool](tensor.Shape{3}, backend)
	for i, v := range b.Data() {
		if !v {
			t.Errorf("bool element %d = false, want true", i)
		}
	}
}

func TestFull(t *testing.T) {
	backend := cpu.New()

	x := tensor.Full[float32](tensor.Shape{2, 2}, 3.5, backend)
	for i, v := range x.Data() {
		if v != 3.5 {
			t.Errorf("element %d = %v, want 3.5", i, v)
		}
	}
}

func TestRandn(t *testing.T) {
	backend := cpu.New()

	x := tensor.Randn[float32](tensor.Shape{10000}, backend)

	var sum, sumSq float64
	for _, v := range x.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Randn produced non-finite value %v", v)
		}
		sum += float64(v)
		sumSq += float64(v) * float64(v)
	}
	n := float64(x.NumElements())
	mean := sum / n
	variance := sumSq/n - mean*mean

	// Loose statistical bounds for N(0, 1) with 10k samples.
	if math.Abs(mean) > 0.1 {
		t.Errorf("sample mean = %v, want near 0", mean)
	}
	if variance < 0.8 || variance > 1.2 {
		t.Errorf("sample variance = %v, want near 1", variance)
	}
}

func TestRand(t *testing.T) {
	backend := cpu.New()

	x := tensor.Rand[float32](tensor.Shape{1000}, backend)
	for i, v := range x.Data() {
		if v < 0 || v >= 1 {
			t.Errorf("element %d = %v, want in [0, 1)", i, v)
		}
	}
}
