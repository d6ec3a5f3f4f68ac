package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		matmulFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulFloat64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// BatchMatMul performs batched matrix multiplication over the last two
// dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// All leading (batch) dimensions must match.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	kAlt, n := bShape[ndim-2], bShape[ndim-1]
	if k != kAlt {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, kAlt))
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := aShape.Clone()
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		av, bv, cv := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for batch := 0; batch < batchSize; batch++ {
			matmulFloat32(cv[batch*m*n:(batch+1)*m*n], av[batch*m*k:(batch+1)*m*k], bv[batch*k*n:(batch+1)*k*n], m, k, n)
		}
	case tensor.Float64:
		av, bv, cv := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for batch := 0; batch < batchSize; batch++ {
			matmulFloat64(cv[batch*m*n:(batch+1)*m*n], av[batch*m*k:(batch+1)*m*k], bv[batch*k*n:(batch+1)*k*n], m, k, n)
		}
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulFloat32 computes C[i,j] = sum_k A[i,k] * B[k,j].
// Loop order (i, k, j) keeps the inner loop sequential in both B and C.
func matmulFloat32(c, a, b []float32, m, k, n int) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < m; i++ {
		for kIdx := 0; kIdx < k; kIdx++ {
			aik := a[i*k+kIdx]
			row := b[kIdx*n : (kIdx+1)*n]
			out := c[i*n : (i+1)*n]
			for j := range row {
				out[j] += aik * row[j]
			}
		}
	}
}

func matmulFloat64(c, a, b []float64, m, k, n int) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < m; i++ {
		for kIdx := 0; kIdx < k; kIdx++ {
			aik := a[i*k+kIdx]
			row := b[kIdx*n : (kIdx+1)*n]
			out := c[i*n : (i+1)*n]
			for j := range row {
				out[j] += aik * row[j]
			}
		}
	}
}
