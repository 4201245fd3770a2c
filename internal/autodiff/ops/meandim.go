package ops

import "github.com/born-ml/shellnet/internal/tensor"

// MeanDimOp represents a reduction mean along a dimension: output = mean(x, dim).
//
// Forward:
//
//	y = mean(x, dim, keepDim) = sum(x, dim, keepDim) / size[dim]
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape) / size[dim]
type MeanDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // mean(x, dim)
	dim     int                 // resolved reduced dimension
	keepDim bool
	dimSize int // size of the reduced dimension
}

// NewMeanDimOp creates a new MeanDimOp. dim must be the resolved
// non-negative dimension used in the forward pass.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
		dimSize: x.Shape()[dim],
	}
}

// Backward broadcasts the output gradient to the input shape and divides
// by the size of the reduced dimension.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	grad := outputGrad
	if !op.keepDim && len(grad.Shape()) < len(x.Shape()) {
		grad = backend.Unsqueeze(grad, op.dim)
	}
	gradX := backend.Expand(grad, x.Shape())
	gradX = scaleGrad(gradX, 1/float32(op.dimSize))

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MeanDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor mean(x, dim).
func (op *MeanDimOp) Output() *tensor.RawTensor {
	return op.output
}
