package cpu

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sum: only float32 supported, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	var total float32
	for _, v := range x.AsFloat32() {
		total += v
	}
	result.AsFloat32()[0] = total

	return result
}

// SumDim sums along the given dimension. With keepDim the reduced
// dimension stays as size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return reduceDim("sum_dim", x, dim, keepDim, false)
}

// MeanDim averages along the given dimension. With keepDim the reduced
// dimension stays as size 1, otherwise it is removed.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return reduceDim("mean_dim", x, dim, keepDim, true)
}

func reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: only float32 supported, got %s", name, x.DType()))
	}

	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", name, dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for d := 0; d < ndim; d++ {
		switch {
		case d != dim:
			outShape = append(outShape, shape[d])
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	dimSize := shape[dim]
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	src, dst := x.AsFloat32(), result.AsFloat32()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var total float32
			base := o*dimSize*inner + in
			for k := 0; k < dimSize; k++ {
				total += src[base+k*inner]
			}
			if mean {
				total /= float32(dimSize)
			}
			dst[o*inner+in] = total
		}
	}

	return result
}
