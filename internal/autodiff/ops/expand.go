package ops

import "github.com/born-ml/shellnet/internal/tensor"

// ExpandOp represents a broadcast to a larger shape: output = expand(x, shape).
//
// Backward pass: sum the output gradient along the broadcast dimensions
// back to the input shape, since every replica contributed the same value.
type ExpandOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // x broadcast to the target shape
}

// NewExpandOp creates a new ExpandOp.
func NewExpandOp(x, output *tensor.RawTensor) *ExpandOp {
	return &ExpandOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward reduces the output gradient to the input shape.
func (op *ExpandOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradX := reduceBroadcast(outputGrad, op.inputs[0].Shape(), backend)
	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *ExpandOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the broadcast output tensor.
func (op *ExpandOp) Output() *tensor.RawTensor {
	return op.output
}
