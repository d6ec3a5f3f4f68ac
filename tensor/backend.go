// Copyright 2025 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/loom-ml/loom/internal/tensor"

// Backend defines the interface compute backends implement. Backends do the
// actual numeric work for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go kernels
//
// Example:
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
type Backend = tensor.Backend
