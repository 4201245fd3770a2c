package ops

import "github.com/born-ml/shellnet/internal/tensor"

// SqrtOp represents an element-wise square root: output = sqrt(x).
//
// Backward pass:
//   - d(sqrt(x))/dx = 1 / (2 * sqrt(x)) = 1 / (2 * output)
type SqrtOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // sqrt(x)
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(x, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient, reusing the forward output.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := backend.Div(scaleGrad(outputGrad, 0.5), op.output)
	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sqrt(x).
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
