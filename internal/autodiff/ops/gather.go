package ops

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// GatherOp represents a gather operation that selects values along a
// dimension using an index tensor.
//
// Forward: output = Gather(input, dim, index)
//
// Backward: scatter-add the output gradient back to the indexed positions
// of a zero-initialized input gradient. Indices that point at the same
// position accumulate.
//
// The index tensor is not an input for differentiation purposes.
type GatherOp struct {
	input  *tensor.RawTensor // gathered-from tensor
	dim    int               // resolved gather dimension
	index  *tensor.RawTensor // int32 index tensor
	output *tensor.RawTensor // gathered output
}

// NewGatherOp creates a new GatherOp. dim must be the resolved
// non-negative dimension used in the forward pass.
func NewGatherOp(input *tensor.RawTensor, dim int, index, output *tensor.RawTensor) *GatherOp {
	return &GatherOp{
		input:  input,
		dim:    dim,
		index:  index,
		output: output,
	}
}

// Backward scatter-adds the output gradient into the input's positions.
func (op *GatherOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	inputShape := op.input.Shape()
	gradInput := zeroGrad(inputShape)

	gradShape := outputGrad.Shape()
	gradStrides := gradShape.ComputeStrides()
	inputStrides := inputShape.ComputeStrides()
	ndim := len(gradShape)

	idx := op.index.AsInt32()
	src := outputGrad.AsFloat32()
	dst := gradInput.AsFloat32()
	dimSize := inputShape[op.dim]

	n := gradShape.NumElements()
	for i := 0; i < n; i++ {
		rem := i
		dstIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / gradStrides[d]
			rem %= gradStrides[d]
			if d == op.dim {
				j := int(idx[i])
				if j < 0 || j >= dimSize {
					panic(fmt.Sprintf("gather backward: index %d out of range for dimension %d of size %d", j, op.dim, dimSize))
				}
				coord = j
			}
			dstIdx += coord * inputStrides[d]
		}
		dst[dstIdx] += src[i]
	}

	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the gathered-from tensor. The index tensor carries no
// gradient and is excluded.
func (op *GatherOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the gathered output tensor.
func (op *GatherOp) Output() *tensor.RawTensor {
	return op.output
}
