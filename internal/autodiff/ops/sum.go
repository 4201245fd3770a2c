package ops

import "github.com/born-ml/shellnet/internal/tensor"

// SumOp represents a full reduction: output = sum(x) with shape [1].
//
// Backward pass: every element contributed with weight 1, so the scalar
// output gradient is broadcast to the input shape.
type SumOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // sum(x), shape [1]
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward fills the input gradient with the scalar output gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	gradX := zeroGrad(x.Shape())
	g := outputGrad.AsFloat32()[0]
	dst := gradX.AsFloat32()
	for i := range dst {
		dst[i] = g
	}

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sum(x).
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
