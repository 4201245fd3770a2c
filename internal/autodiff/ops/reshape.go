package ops

import "github.com/born-ml/shellnet/internal/tensor"

// ReshapeOp represents a shape change that preserves element order.
// Unsqueeze and Squeeze are recorded through this op as well, since they
// are reshapes with a computed target shape.
//
// Backward pass: reshape the output gradient back to the input shape.
type ReshapeOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x viewed with the new shape
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward reshapes the output gradient to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := backend.Reshape(outputGrad, op.inputs[0].Shape())
	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *ReshapeOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the reshaped output tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor {
	return op.output
}
