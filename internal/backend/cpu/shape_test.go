package cpu

import (
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

func TestReshape(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	got := backend.Reshape(x, tensor.Shape{3, 2})

	if !got.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", got.Shape())
	}
	// Reshape is a view: data order unchanged, buffer shared.
	checkFloat32(t, got, []float32{1, 2, 3, 4, 5, 6})
	x.AsFloat32()[0] = 100
	if got.AsFloat32()[0] != 100 {
		t.Error("reshape should share the underlying buffer")
	}
}

func TestTranspose2D(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	got := backend.Transpose(x)

	if !got.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", got.Shape())
	}
	checkFloat32(t, got, []float32{1, 4, 2, 5, 3, 6})
}

func TestTranspose4DHeadSplit(t *testing.T) {
	backend := New()

	// [batch=1, seq=2, heads=2, head_dim=2] -> [1, 2, 2, 2] with axes
	// (0, 2, 1, 3): the head-split layout used by attention.
	x := rawFromFloat32(t, []float32{
		1, 2, 3, 4, // seq 0: head0=(1,2) head1=(3,4)
		5, 6, 7, 8, // seq 1: head0=(5,6) head1=(7,8)
	}, tensor.Shape{1, 2, 2, 2})

	got := backend.Transpose(x, 0, 2, 1, 3)
	if !got.Shape().Equal(tensor.Shape{1, 2, 2, 2}) {
		t.Fatalf("shape = %v, want [1 2 2 2]", got.Shape())
	}
	// head0 rows first, then head1 rows.
	checkFloat32(t, got, []float32{1, 2, 5, 6, 3, 4, 7, 8})
}

func TestTransposeRoundTrip(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	back := backend.Transpose(backend.Transpose(x, 1, 0, 2), 1, 0, 2)

	checkFloat32(t, back, []float32{1, 2, 3, 4, 5, 6, 7, 8})
}

func TestUnsqueezeSqueeze(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	up := backend.Unsqueeze(x, 0)
	if !up.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("Unsqueeze(0) shape = %v, want [1 3]", up.Shape())
	}

	up = backend.Unsqueeze(up, -1)
	if !up.Shape().Equal(tensor.Shape{1, 3, 1}) {
		t.Fatalf("Unsqueeze(-1) shape = %v, want [1 3 1]", up.Shape())
	}

	down := backend.Squeeze(up, 2)
	if !down.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("Squeeze(2) shape = %v, want [1 3]", down.Shape())
	}

	defer func() {
		if recover() == nil {
			t.Error("Squeeze on a non-unit dimension should panic")
		}
	}()
	backend.Squeeze(down, 1)
}

func TestExpand(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
	got := backend.Expand(x, tensor.Shape{2, 3})

	if !got.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want [2 3]", got.Shape())
	}
	checkFloat32(t, got, []float32{1, 2, 3, 1, 2, 3})
}

func TestExpandIncompatiblePanics(t *testing.T) {
	backend := New()

	x := rawFromFloat32(t, []float32{1, 2, 3}, tensor.Shape{1, 3})

	defer func() {
		if recover() == nil {
			t.Error("Expand to an incompatible shape should panic")
		}
	}()
	backend.Expand(x, tensor.Shape{2, 4})
}
