package ops

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// CatOp represents a concatenation operation along a dimension.
//
// Forward: output = Cat([input1, input2, ...], dim)
//
// Backward: split the output gradient along dim at the input boundaries
// and hand each input the slice that corresponds to its contribution.
type CatOp struct {
	inputs []*tensor.RawTensor // concatenated inputs
	dim    int                 // resolved concatenation dimension
	sizes  []int               // size of each input along dim
	output *tensor.RawTensor   // concatenated output
}

// NewCatOp creates a new CatOp. dim must be the resolved non-negative
// dimension used in the forward pass.
func NewCatOp(inputs []*tensor.RawTensor, dim int, output *tensor.RawTensor) *CatOp {
	sizes := make([]int, len(inputs))
	for i, in := range inputs {
		sizes[i] = in.Shape()[dim]
	}

	return &CatOp{
		inputs: inputs,
		dim:    dim,
		sizes:  sizes,
		output: output,
	}
}

// Backward slices the output gradient back into per-input gradients.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradShape := outputGrad.Shape()
	srcStrides := gradShape.ComputeStrides()

	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, size := range op.sizes {
		sliceShape := gradShape.Clone()
		sliceShape[op.dim] = size

		gradInput, err := tensor.NewRaw(sliceShape, outputGrad.DType())
		if err != nil {
			panic(fmt.Sprintf("cat backward: %v", err))
		}

		copySliceAlongDim(gradInput, outputGrad, op.dim, offset, srcStrides)

		grads[i] = gradInput
		offset += size
	}

	return grads
}

// copySliceAlongDim copies the [offset, offset+dst.Shape()[dim]) slice of
// src along dim into dst.
func copySliceAlongDim(dst, src *tensor.RawTensor, dim, offset int, srcStrides []int) {
	dstShape := dst.Shape()
	dstStrides := dstShape.ComputeStrides()
	n := dstShape.NumElements()

	srcData := src.AsFloat32()
	dstData := dst.AsFloat32()
	for i := 0; i < n; i++ {
		rem := i
		srcIdx := 0
		for d := 0; d < len(dstShape); d++ {
			coord := rem / dstStrides[d]
			rem %= dstStrides[d]
			if d == dim {
				coord += offset
			}
			srcIdx += coord * srcStrides[d]
		}
		dstData[i] = srcData[srcIdx]
	}
}

// Inputs returns the concatenated input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated output tensor.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}
