package cpu

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Reshape returns a view of t with a new shape.
// The total number of elements must be unchanged.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v to %v: element count mismatch", t.Shape(), newShape))
	}
	return t.WithShape(newShape)
}

// Transpose permutes the tensor's dimensions, copying data into the new
// layout. With no axes the dimension order is reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	n := t.NumElements()

	// srcIdx(out flat i) = sum over output dims of coord * srcStride[axes[d]].
	switch t.DType() {
	case tensor.Float32:
		src, dst := t.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = src[permutedIndex(i, outStrides, srcStrides, axes)]
		}
	case tensor.Int32:
		src, dst := t.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			dst[i] = src[permutedIndex(i, outStrides, srcStrides, axes)]
		}
	case tensor.Bool:
		src, dst := t.AsBool(), result.AsBool()
		for i := 0; i < n; i++ {
			dst[i] = src[permutedIndex(i, outStrides, srcStrides, axes)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

// permutedIndex maps an output flat index to the source flat index for a
// dimension permutation.
func permutedIndex(outIdx int, outStrides, srcStrides []int, axes []int) int {
	srcIdx := 0
	for d := range outStrides {
		coord := outIdx / outStrides[d]
		outIdx %= outStrides[d]
		srcIdx += coord * srcStrides[axes[d]]
	}
	return srcIdx
}

// Expand broadcasts x to the given shape, materializing the repeated data.
//
// The target shape must be broadcast-compatible: every dimension of x must
// either match the target or be 1, aligning from the right.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	inShape := x.Shape()
	if len(shape) < len(inShape) {
		panic(fmt.Sprintf("expand: target %v has fewer dimensions than input %v", shape, inShape))
	}
	offset := len(shape) - len(inShape)
	for i, dim := range inShape {
		if dim != 1 && dim != shape[offset+i] {
			panic(fmt.Sprintf("expand: cannot expand %v to %v", inShape, shape))
		}
	}

	result, err := tensor.NewRaw(shape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	outStrides := shape.ComputeStrides()
	inStrides := broadcastStrides(inShape, shape)
	n := shape.NumElements()

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = src[flatIndex(i, outStrides, inStrides)]
		}
	case tensor.Int32:
		src, dst := x.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			dst[i] = src[flatIndex(i, outStrides, inStrides)]
		}
	case tensor.Bool:
		src, dst := x.AsBool(), result.AsBool()
		for i := 0; i < n; i++ {
			dst[i] = src[flatIndex(i, outStrides, inStrides)]
		}
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %s", x.DType()))
	}

	return result
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing; valid range is [0, ndim].
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return cpu.Reshape(x, newShape)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Panics if the dimension size is not 1.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)

	return cpu.Reshape(x, newShape)
}

// Cat concatenates tensors along the specified dimension.
//
// All tensors must share dtype and shape except along the concatenation
// dimension. Supports negative dim indexing.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// View every tensor as [outer, size_dim * inner] blocks and copy each
	// input's block row into its slot of the output row.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	switch dtype {
	case tensor.Float32:
		dst := result.AsFloat32()
		rowOffset := 0
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			src := t.AsFloat32()
			for o := 0; o < outer; o++ {
				copy(dst[o*totalDim*inner+rowOffset:], src[o*block:(o+1)*block])
			}
			rowOffset += block
		}
	case tensor.Int32:
		dst := result.AsInt32()
		rowOffset := 0
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			src := t.AsInt32()
			for o := 0; o < outer; o++ {
				copy(dst[o*totalDim*inner+rowOffset:], src[o*block:(o+1)*block])
			}
			rowOffset += block
		}
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", dtype))
	}

	return result
}
