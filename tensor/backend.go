// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/shellnet/internal/tensor"
)

// Backend is the interface every compute backend implements: element-wise
// arithmetic with broadcasting, matrix multiplication, shape
// manipulation, indexing, reductions, windowed max pooling and the fused
// MSE loss.
type Backend = tensor.Backend
