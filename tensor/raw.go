// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/shellnet/internal/tensor"
)

// RawTensor is the untyped tensor storage: flat row-major data plus a
// shape and dtype. Gradient maps are keyed by RawTensor identity.
type RawTensor = tensor.RawTensor

// NewRaw creates a new raw tensor with the given shape and dtype.
//
// This is a low-level function. Most users should use high-level creation
// functions instead.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}
