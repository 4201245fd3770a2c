package ops

import "github.com/born-ml/shellnet/internal/tensor"

// ReLUOp represents a rectified linear unit activation: output = max(0, x).
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
type ReLUOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // max(0, x)
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(x, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient by masking outputGrad where x <= 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	gradX := zeroGrad(x.Shape())
	src := x.AsFloat32()
	g := outputGrad.AsFloat32()
	dst := gradX.AsFloat32()
	for i, v := range src {
		if v > 0 {
			dst[i] = g[i]
		}
	}

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}
