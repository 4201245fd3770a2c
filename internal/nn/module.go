// Package nn implements neural network modules for point cloud models.
//
// This package provides the building blocks the shell convolution layers
// are composed from:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient tracking
//   - Linear: fully connected layer over the last input dimension
//   - BatchNorm: batch normalization over the channel dimension
//   - ReLU activation, MSE loss, Sequential container
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/shellnet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger architectures:
//
//	mlp := nn.NewSequential[Backend](
//	    nn.NewLinear(3, 32, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(32, 64, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without trainable
	// parameters return an empty slice.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
