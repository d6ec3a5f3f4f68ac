package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	// make() already zero-initialized the buffer.
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones (true for bool tensors).
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, oneValue[T](), b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](tensor.Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from a standard normal
// distribution via the Box-Muller transform. Float types only.
// Uses math/rand, not crypto/rand: statistical, not security, randomness.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		dst := any(data).([]float32)
		for i := 0; i < len(dst); i += 2 {
			z0, z1 := boxMuller()
			dst[i] = float32(z0)
			if i+1 < len(dst) {
				dst[i+1] = float32(z1)
			}
		}
	case float64:
		dst := any(data).([]float64)
		for i := 0; i < len(dst); i += 2 {
			z0, z1 := boxMuller()
			dst[i] = z0
			if i+1 < len(dst) {
				dst[i+1] = z1
			}
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
// Float types only.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		dst := any(data).([]float32)
		for i := range dst {
			dst[i] = rand.Float32() //nolint:gosec // statistical randomness
		}
	case float64:
		dst := any(data).([]float64)
		for i := range dst {
			dst[i] = rand.Float64() //nolint:gosec // statistical randomness
		}
	default:
		panic("Rand only supports float32 and float64 types")
	}
	return t
}

func boxMuller() (float64, float64) {
	u1 := rand.Float64() //nolint:gosec // statistical randomness
	u2 := rand.Float64() //nolint:gosec // statistical randomness
	r := math.Sqrt(-2.0 * math.Log(1-u1))
	return r * math.Cos(2.0*math.Pi*u2), r * math.Sin(2.0*math.Pi*u2)
}

func oneValue[T DType]() T {
	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case int32:
		one = int32(1)
	case bool:
		one = true
	}
	return one.(T)
}
