// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shellnet provides the point-cloud convolution layer and its
// building blocks: k-nearest-neighbor search, per-point feature
// gathering, the offset-lifting MLP and the ShellConv layer.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	layer, err := shellnet.NewShellConv(shellnet.ShellConvConfig{
//	    OutFeatures:  256,
//	    PrevFeatures: 128,
//	    Neighbor:     32,
//	    Division:     4,
//	    WithNorm:     true,
//	}, backend)
//	out, err := layer.Forward(points, queries, features)
package shellnet

import (
	"github.com/born-ml/shellnet/internal/shellnet"
	"github.com/born-ml/shellnet/internal/tensor"
)

// ShellConv is a point-cloud convolution layer.
type ShellConv[B tensor.Backend] = shellnet.ShellConv[B]

// ShellConvConfig configures a ShellConv layer.
type ShellConvConfig = shellnet.ShellConvConfig

// NewShellConv creates a ShellConv layer, validating the configuration
// eagerly.
func NewShellConv[B tensor.Backend](cfg ShellConvConfig, backend B) (*ShellConv[B], error) {
	return shellnet.NewShellConv(cfg, backend)
}

// Lift maps 3-D neighbor offsets to per-neighbor feature vectors.
type Lift[B tensor.Backend] = shellnet.Lift[B]

// NewLift creates a Lift network.
func NewLift[B tensor.Backend](withNorm bool, backend B) *Lift[B] {
	return shellnet.NewLift(withNorm, backend)
}

// KNN finds the k nearest points for every query position, ordered by
// ascending distance with ties broken by the lower point index.
func KNN[B tensor.Backend](points, queries *tensor.Tensor[float32, B], k int) (*tensor.Tensor[float32, B], *tensor.Tensor[int32, B], error) {
	return shellnet.KNN(points, queries, k)
}

// GatherFeatures looks up per-point feature vectors for every neighbor
// index produced by KNN.
func GatherFeatures[B tensor.Backend](features *tensor.Tensor[float32, B], indices *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	return shellnet.GatherFeatures(features, indices)
}
