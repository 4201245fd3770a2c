package ops

import "github.com/born-ml/shellnet/internal/tensor"

// MaxPool1DOp represents max pooling along a single dimension.
//
// Forward: output = MaxPool1D(x, dim, kernel, stride)
//
// Backward: the gradient of each window flows only to the element that
// produced the maximum; all other window elements get zero. The argmax is
// recomputed from the stored input, taking the first occurrence on ties,
// matching the forward pass.
type MaxPool1DOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // pooled x
	dim    int                 // resolved pooled dimension
	kernel int
	stride int
}

// NewMaxPool1DOp creates a new MaxPool1DOp. dim must be the resolved
// non-negative dimension used in the forward pass.
func NewMaxPool1DOp(x, output *tensor.RawTensor, dim, kernel, stride int) *MaxPool1DOp {
	return &MaxPool1DOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
		dim:    dim,
		kernel: kernel,
		stride: stride,
	}
}

// Backward routes each window's gradient to its argmax position.
func (op *MaxPool1DOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	shape := x.Shape()
	ndim := len(shape)

	gradX := zeroGrad(shape)

	outer := 1
	for d := 0; d < op.dim; d++ {
		outer *= shape[d]
	}
	dimSize := shape[op.dim]
	inner := 1
	for d := op.dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	outDim := (dimSize-op.kernel)/op.stride + 1

	src := x.AsFloat32()
	g := outputGrad.AsFloat32()
	dst := gradX.AsFloat32()

	for o := 0; o < outer; o++ {
		for w := 0; w < outDim; w++ {
			for in := 0; in < inner; in++ {
				base := o*dimSize*inner + w*op.stride*inner + in
				argmax := base
				best := src[base]
				for k := 1; k < op.kernel; k++ {
					if v := src[base+k*inner]; v > best {
						best = v
						argmax = base + k*inner
					}
				}
				dst[argmax] += g[o*outDim*inner+w*inner+in]
			}
		}
	}

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MaxPool1DOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the pooled output tensor.
func (op *MaxPool1DOp) Output() *tensor.RawTensor {
	return op.output
}
