// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks: modules,
// parameters, layers and loss functions.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(3, 64, backend)
//	out := layer.Forward(input)
package nn

import (
	"github.com/born-ml/shellnet/internal/nn"
	"github.com/born-ml/shellnet/internal/tensor"
)

// Module is the interface all neural network layers implement.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter wraps a tensor as a named trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Linear is a fully connected layer: y = x @ W.T + b.
// Inputs of any rank are mapped over their last dimension.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear[B](inFeatures, outFeatures, backend)
}

// ReLU applies the rectified linear unit element-wise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// BatchNorm normalizes per channel (axis 1) with batch statistics in
// training mode and running statistics in eval mode.
type BatchNorm[B tensor.Backend] = nn.BatchNorm[B]

// NewBatchNorm creates a BatchNorm layer for the given channel count.
func NewBatchNorm[B tensor.Backend](numFeatures int, backend B) *BatchNorm[B] {
	return nn.NewBatchNorm[B](numFeatures, backend)
}

// Sequential chains modules, feeding each module's output to the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// MSELoss computes mean squared error as one fused backend operation.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates an MSE loss with mean reduction.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// NewMSELossSum creates an MSE loss with sum reduction.
func NewMSELossSum[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELossSum[B]()
}

// Xavier initializes a tensor with Xavier/Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
