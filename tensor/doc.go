// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for Loom.
//
// # Overview
//
// Tensors are the fundamental data structure in Loom. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy views where possible
//   - Device abstraction behind the Backend interface
//
// # Basic Usage
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	    fmt.Println(z)
//	}
//
// Operations panic on shape or dtype mismatches; constructors that take
// user-provided data return errors instead.
package tensor
