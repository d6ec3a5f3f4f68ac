package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestPositionalEncodingShape(t *testing.T) {
	backend := cpu.New()

	pe := NewSinusoidalPositionalEncoding[*cpu.CPUBackend](64, 16, backend)
	out := pe.Forward(10)

	if !out.Shape().Equal(tensor.Shape{1, 10, 16}) {
		t.Errorf("output shape = %v, want [1 10 16]", out.Shape())
	}
}

func TestPositionalEncodingValues(t *testing.T) {
	backend := cpu.New()

	dim := 4
	pe := NewSinusoidalPositionalEncoding[*cpu.CPUBackend](8, dim, backend)
	out := pe.Forward(2)

	// Position 0: sin(0)=0 at even dims, cos(0)=1 at odd dims.
	if !floatEqual(out.At(0, 0, 0), 0, 1e-6) || !floatEqual(out.At(0, 0, 1), 1, 1e-6) {
		t.Errorf("position 0 = [%v %v ...], want [0 1 ...]", out.At(0, 0, 0), out.At(0, 0, 1))
	}

	// Position 1, dim 0: sin(1 / 10000^0) = sin(1).
	if !floatEqual(out.At(0, 1, 0), float32(math.Sin(1)), 1e-5) {
		t.Errorf("PE(1, 0) = %v, want sin(1) = %v", out.At(0, 1, 0), math.Sin(1))
	}
	// Position 1, dim 1: cos(1).
	if !floatEqual(out.At(0, 1, 1), float32(math.Cos(1)), 1e-5) {
		t.Errorf("PE(1, 1) = %v, want cos(1) = %v", out.At(0, 1, 1), math.Cos(1))
	}
}

func TestPositionalEncodingBounded(t *testing.T) {
	backend := cpu.New()

	pe := NewSinusoidalPositionalEncoding[*cpu.CPUBackend](128, 32, backend)
	for i, v := range pe.Encoding.Data() {
		if v < -1 || v > 1 {
			t.Fatalf("encoding element %d = %v outside [-1, 1]", i, v)
		}
	}
}

func TestPositionalEncodingTooLongPanics(t *testing.T) {
	backend := cpu.New()

	pe := NewSinusoidalPositionalEncoding[*cpu.CPUBackend](8, 4, backend)

	defer func() {
		if recover() == nil {
			t.Error("seqLen beyond MaxLen should panic")
		}
	}()
	pe.Forward(9)
}
