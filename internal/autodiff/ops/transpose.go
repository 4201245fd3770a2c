package ops

import "github.com/born-ml/shellnet/internal/tensor"

// TransposeOp represents a dimension permutation: output = transpose(x, axes).
//
// Backward pass: apply the inverse permutation to the output gradient.
// If axes[i] = j then the inverse permutation maps j back to i.
type TransposeOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // permuted x
	axes   []int               // resolved permutation (never empty)
}

// NewTransposeOp creates a new TransposeOp. axes must be the resolved
// permutation actually applied in the forward pass.
func NewTransposeOp(x, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		axes:   axes,
	}
}

// Backward applies the inverse permutation to the output gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}

	gradX := backend.Transpose(outputGrad, inverse...)
	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *TransposeOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the permuted output tensor.
func (op *TransposeOp) Output() *tensor.RawTensor {
	return op.output
}
