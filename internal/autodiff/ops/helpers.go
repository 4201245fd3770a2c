package ops

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]  (a was broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on the no-op path so accumulation never aliases the caller's
	// gradient buffer.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// NumPy broadcasting aligns shapes from the right: sum away leading
	// dimensions the target does not have.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Then sum along dimensions where the target is 1.
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// scaleGrad returns grad * s as a fresh tensor.
func scaleGrad(grad *tensor.RawTensor, s float32) *tensor.RawTensor {
	result, err := tensor.NewRaw(grad.Shape(), grad.DType())
	if err != nil {
		panic(fmt.Sprintf("scaleGrad: %v", err))
	}

	src, dst := grad.AsFloat32(), result.AsFloat32()
	for i, v := range src {
		dst[i] = v * s
	}

	return result
}

// zeroGrad returns a zero-filled float32 tensor of the given shape.
func zeroGrad(shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("zeroGrad: %v", err))
	}
	return result
}
