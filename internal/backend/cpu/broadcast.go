package cpu

import "github.com/loom-ml/loom/internal/tensor"

// broadcastStrides returns the effective strides of inShape when broadcast to
// outShape: broadcast dimensions (size 1, or missing on the left) get stride
// 0 so every output coordinate maps back into the smaller input.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	inStrides := inShape.ComputeStrides()
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)

	for i := range outShape {
		j := i - offset
		if j < 0 || inShape[j] == 1 {
			strides[i] = 0
		} else {
			strides[i] = inStrides[j]
		}
	}
	return strides
}

// flatIndex translates a flat output index into the flat index of a
// (possibly broadcast) input, given output strides and broadcast strides.
func flatIndex(outIdx int, outShape tensor.Shape, outStrides, inStrides []int) int {
	idx := 0
	for i := range outShape {
		coord := (outIdx / outStrides[i]) % outShape[i]
		idx += coord * inStrides[i]
	}
	return idx
}

func broadcastFloat32(dst []float32, a, b *tensor.RawTensor, outShape tensor.Shape, f func(a, b float32) float32) {
	av, bv := a.AsFloat32(), b.AsFloat32()
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range dst {
		dst[i] = f(av[flatIndex(i, outShape, outStrides, aStrides)],
			bv[flatIndex(i, outShape, outStrides, bStrides)])
	}
}

func broadcastFloat64(dst []float64, a, b *tensor.RawTensor, outShape tensor.Shape, f func(a, b float64) float64) {
	av, bv := a.AsFloat64(), b.AsFloat64()
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range dst {
		dst[i] = f(av[flatIndex(i, outShape, outStrides, aStrides)],
			bv[flatIndex(i, outShape, outStrides, bStrides)])
	}
}
