package cpu

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// MaxPool1D applies non-overlapping max pooling along dim with the given
// kernel size and stride. The pooled dimension shrinks to
// (size - kernel) / stride + 1; trailing elements outside a full window
// are dropped.
func (cpu *CPUBackend) MaxPool1D(x *tensor.RawTensor, dim, kernel, stride int) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("max_pool1d: only float32 supported, got %s", x.DType()))
	}
	if kernel <= 0 || stride <= 0 {
		panic(fmt.Sprintf("max_pool1d: kernel %d and stride %d must be positive", kernel, stride))
	}

	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("max_pool1d: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] < kernel {
		panic(fmt.Sprintf("max_pool1d: dimension size %d smaller than kernel %d", shape[dim], kernel))
	}

	dimSize := shape[dim]
	outDim := (dimSize-kernel)/stride + 1

	outShape := shape.Clone()
	outShape[dim] = outDim

	result, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("max_pool1d: %v", err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	src, dst := x.AsFloat32(), result.AsFloat32()
	for o := 0; o < outer; o++ {
		for w := 0; w < outDim; w++ {
			for in := 0; in < inner; in++ {
				base := o*dimSize*inner + w*stride*inner + in
				best := src[base]
				for k := 1; k < kernel; k++ {
					if v := src[base+k*inner]; v > best {
						best = v
					}
				}
				dst[o*outDim*inner+w*inner+in] = best
			}
		}
	}

	return result
}
