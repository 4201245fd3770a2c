package ops

import "github.com/born-ml/shellnet/internal/tensor"

// SumDimOp represents a reduction sum along a dimension: output = sum(x, dim).
//
// Backward pass: broadcast the output gradient back to the input shape.
// With keepDim=false the reduced dimension is restored first so the
// broadcast lines up.
type SumDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // sum(x, dim)
	dim     int                 // resolved reduced dimension
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must be the resolved
// non-negative dimension used in the forward pass.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
	}
}

// Backward broadcasts the output gradient to the input shape.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	// Reducing a 1-D tensor already yields shape [1], which broadcasts
	// directly; only restore the dimension when the rank actually dropped.
	grad := outputGrad
	if !op.keepDim && len(grad.Shape()) < len(x.Shape()) {
		grad = backend.Unsqueeze(grad, op.dim)
	}
	gradX := backend.Expand(grad, x.Shape())

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
