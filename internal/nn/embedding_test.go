package nn

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestEmbeddingLookup(t *testing.T) {
	backend := cpu.New()

	weight, _ := tensor.FromSlice[float32]([]float32{
		0, 0, // id 0
		1, 2, // id 1
		3, 4, // id 2
	}, tensor.Shape{3, 2}, backend)
	embed := NewEmbeddingWithWeight(weight)

	ids, _ := tensor.FromSlice[int32]([]int32{2, 0, 1}, tensor.Shape{3}, backend)
	out := embed.Forward(ids)

	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("output shape = %v, want [3 2]", out.Shape())
	}
	want := []float32{3, 4, 0, 0, 1, 2}
	for i, v := range out.Data() {
		if v != want[i] {
			t.Errorf("element %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestEmbeddingBatchShape(t *testing.T) {
	backend := cpu.New()

	embed := NewEmbedding[*cpu.CPUBackend](50, 16, backend)
	ids := tensor.Zeros[int32](tensor.Shape{2, 7}, backend)

	out := embed.Forward(ids)
	if !out.Shape().Equal(tensor.Shape{2, 7, 16}) {
		t.Errorf("output shape = %v, want [2 7 16]", out.Shape())
	}
}

func TestEmbeddingOutOfRangePanics(t *testing.T) {
	backend := cpu.New()

	embed := NewEmbedding[*cpu.CPUBackend](10, 4, backend)
	ids, _ := tensor.FromSlice[int32]([]int32{10}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("out-of-range index should panic")
		}
	}()
	embed.Forward(ids)
}

func TestPaddingMaskFromIDs(t *testing.T) {
	backend := cpu.New()

	ids, _ := tensor.FromSlice[int32]([]int32{5, 7, 0, 0, 3, 0}, tensor.Shape{2, 3}, backend)
	mask := PaddingMaskFromIDs(ids, 0)

	if !mask.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("mask shape = %v, want [2 3]", mask.Shape())
	}
	want := []bool{true, true, false, false, true, false}
	for i, v := range mask.Data() {
		if v != want[i] {
			t.Errorf("mask element %d = %v, want %v", i, v, want[i])
		}
	}
}
