package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Softmax computes softmax along the specified dimension:
// softmax(x_i) = exp(x_i - max) / sum_j exp(x_j - max).
// The max subtraction keeps the exponentials in range; additive -Inf mask
// entries come out as exactly zero weight.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxFloat32(result.AsFloat32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		softmaxFloat64(result.AsFloat64(), x.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func softmaxFloat32(dst, src []float32, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := 1
	for i, size := range shape {
		if i != dim {
			numRows *= size
		}
	}

	for row := 0; row < numRows; row++ {
		base := rowBaseIndex(row, shape, strides, dim)

		maxVal := float32(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[base+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for i := 0; i < dimSize; i++ {
			idx := base + i*dimStride
			e := float32(math.Exp(float64(src[idx] - maxVal)))
			dst[idx] = e
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			dst[base+i*dimStride] /= sum
		}
	}
}

func softmaxFloat64(dst, src []float64, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := 1
	for i, size := range shape {
		if i != dim {
			numRows *= size
		}
	}

	for row := 0; row < numRows; row++ {
		base := rowBaseIndex(row, shape, strides, dim)

		maxVal := math.Inf(-1)
		for i := 0; i < dimSize; i++ {
			if v := src[base+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float64
		for i := 0; i < dimSize; i++ {
			idx := base + i*dimStride
			e := math.Exp(src[idx] - maxVal)
			dst[idx] = e
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			dst[base+i*dimStride] /= sum
		}
	}
}

// rowBaseIndex computes the flat index of the first element of the row'th
// group of elements sharing one reduction over dimension dim.
func rowBaseIndex(row int, shape tensor.Shape, strides []int, dim int) int {
	base := 0
	remaining := row
	for i := range shape {
		if i == dim {
			continue
		}
		coord := remaining % shape[i]
		remaining /= shape[i]
		base += coord * strides[i]
	}
	return base
}
