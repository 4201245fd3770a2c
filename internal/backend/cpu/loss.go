package cpu

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// MSELoss computes the squared error between predictions and targets,
// reduced to a single-element tensor of shape [1].
func (cpu *CPUBackend) MSELoss(pred, target *tensor.RawTensor, reduction tensor.Reduction) *tensor.RawTensor {
	if pred.DType() != tensor.Float32 || target.DType() != tensor.Float32 {
		panic(fmt.Sprintf("mse_loss: only float32 supported, got %s and %s", pred.DType(), target.DType()))
	}
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("mse_loss: shape mismatch %v vs %v", pred.Shape(), target.Shape()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("mse_loss: %v", err))
	}

	p, t := pred.AsFloat32(), target.AsFloat32()
	var total float32
	for i := range p {
		d := p[i] - t[i]
		total += d * d
	}

	switch reduction {
	case tensor.ReductionMean:
		total /= float32(len(p))
	case tensor.ReductionSum:
	default:
		panic(fmt.Sprintf("mse_loss: unknown reduction %d", reduction))
	}

	result.AsFloat32()[0] = total
	return result
}
