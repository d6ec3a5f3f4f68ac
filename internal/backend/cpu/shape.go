package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Reshape returns a view of the same data under a new shape.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := x.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions. With no axes, all dimensions
// are reversed.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	// Walk the output in order; for each output index recover the source
	// coordinate through the axis permutation.
	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := range dst {
			dst[i] = src[transposeSrcIndex(i, newShape, dstStrides, srcStrides, axes)]
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := range dst {
			dst[i] = src[transposeSrcIndex(i, newShape, dstStrides, srcStrides, axes)]
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i := range dst {
			dst[i] = src[transposeSrcIndex(i, newShape, dstStrides, srcStrides, axes)]
		}
	case tensor.Bool:
		src, dst := x.AsBool(), result.AsBool()
		for i := range dst {
			dst[i] = src[transposeSrcIndex(i, newShape, dstStrides, srcStrides, axes)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", x.DType()))
	}

	return result
}

func transposeSrcIndex(dstIdx int, dstShape tensor.Shape, dstStrides, srcStrides []int, axes []int) int {
	srcIdx := 0
	for i := range dstShape {
		coord := (dstIdx / dstStrides[i]) % dstShape[i]
		srcIdx += coord * srcStrides[axes[i]]
	}
	return srcIdx
}

// Unsqueeze inserts a dimension of size 1 at the given position.
// Supports negative dim indexing (relative to the output rank).
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	result, err := x.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("unsqueeze: %v", err))
	}
	return result
}

// Squeeze removes a dimension of size 1 at the given position.
// Panics if the dimension size is not 1.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	result, err := x.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("squeeze: %v", err))
	}
	return result
}

// Expand broadcasts the tensor to the given shape, materializing the result.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), newShape)
	if err != nil || !outShape.Equal(newShape) {
		panic(fmt.Sprintf("expand: cannot broadcast %v to %v", x.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	outStrides := newShape.ComputeStrides()
	inStrides := broadcastStrides(x.Shape(), newShape)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := range dst {
			dst[i] = src[flatIndex(i, newShape, outStrides, inStrides)]
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i := range dst {
			dst[i] = src[flatIndex(i, newShape, outStrides, inStrides)]
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i := range dst {
			dst[i] = src[flatIndex(i, newShape, outStrides, inStrides)]
		}
	case tensor.Bool:
		src, dst := x.AsBool(), result.AsBool()
		for i := range dst {
			dst[i] = src[flatIndex(i, newShape, outStrides, inStrides)]
		}
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %s", x.DType()))
	}

	return result
}
