// Package cpu implements the pure Go CPU backend for Loom tensors.
package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// CPUBackend implements tensor operations with plain Go loops.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, addKernel)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, subKernel)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, mulKernel)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, divKernel)
}

// binaryKernel applies one element pair; the dispatch below keeps the
// broadcasting machinery shared across the four arithmetic ops.
type binaryKernel struct {
	f32 func(a, b float32) float32
	f64 func(a, b float64) float64
}

var (
	addKernel = binaryKernel{
		f32: func(a, b float32) float32 { return a + b },
		f64: func(a, b float64) float64 { return a + b },
	}
	subKernel = binaryKernel{
		f32: func(a, b float32) float32 { return a - b },
		f64: func(a, b float64) float64 { return a - b },
	}
	mulKernel = binaryKernel{
		f32: func(a, b float32) float32 { return a * b },
		f64: func(a, b float64) float64 { return a * b },
	}
	divKernel = binaryKernel{
		f32: func(a, b float32) float32 { return a / b },
		f64: func(a, b float64) float64 { return a / b },
	}
)

func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, k binaryKernel) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		if !needsBroadcast {
			dst, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
			for i := range dst {
				dst[i] = k.f32(av[i], bv[i])
			}
		} else {
			broadcastFloat32(result.AsFloat32(), a, b, outShape, k.f32)
		}
	case tensor.Float64:
		if !needsBroadcast {
			dst, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
			for i := range dst {
				dst[i] = k.f64(av[i], bv[i])
			}
		} else {
			broadcastFloat64(result.AsFloat64(), a, b, outShape, k.f64)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, a.DType()))
	}

	return result
}
