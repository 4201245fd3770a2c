package cpu

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Gather collects values from x along dim according to index.
//
// Follows gather semantics where the output has the shape of index and
//
//	out[i][j][k] = x[i][j][index[i][j][k]]   (for dim=2)
//
// index must be Int32 and match x's rank, with every dimension except dim
// no larger than x's. Out-of-range indices panic.
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	xShape := x.Shape()
	idxShape := index.Shape()
	ndim := len(xShape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("gather: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("gather: index must be int32, got %s", index.DType()))
	}
	if len(idxShape) != ndim {
		panic(fmt.Sprintf("gather: index rank %d does not match input rank %d", len(idxShape), ndim))
	}
	for d := 0; d < ndim; d++ {
		if d != dim && idxShape[d] > xShape[d] {
			panic(fmt.Sprintf("gather: index dimension %d is %d, exceeds input %d", d, idxShape[d], xShape[d]))
		}
	}

	result, err := tensor.NewRaw(idxShape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("gather: %v", err))
	}

	xStrides := xShape.ComputeStrides()
	idxStrides := idxShape.ComputeStrides()
	idx := index.AsInt32()
	n := idxShape.NumElements()
	dimSize := xShape[dim]

	gatherSrc := func(i int) int {
		rem := i
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / idxStrides[d]
			rem %= idxStrides[d]
			if d == dim {
				j := int(idx[i])
				if j < 0 || j >= dimSize {
					panic(fmt.Sprintf("gather: index %d out of range for dimension %d of size %d", j, dim, dimSize))
				}
				coord = j
			}
			srcIdx += coord * xStrides[d]
		}
		return srcIdx
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = src[gatherSrc(i)]
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			dst[i] = src[gatherSrc(i)]
		}
	default:
		panic(fmt.Sprintf("gather: unsupported dtype %s", x.DType()))
	}

	return result
}
