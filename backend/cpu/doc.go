// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// The backend implements every operation of the tensor.Backend interface
// without CGO: broadcast arithmetic, matrix multiplication, shape
// manipulation, gather, reductions, windowed max pooling and the fused
// MSE loss.
//
// Basic usage:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
//
// Each operation allocates its result; no operation mutates its inputs.
// The backend holds no mutable state and is safe for concurrent use.
package cpu
