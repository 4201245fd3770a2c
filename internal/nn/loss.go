package nn

import (
	"github.com/born-ml/shellnet/internal/tensor"
)

// MSELoss computes mean squared error between predictions and targets.
//
// The loss and its reduction run as one fused backend operation, so the
// gradient of the reduced loss reaches the network exactly.
type MSELoss[B tensor.Backend] struct {
	reduction tensor.Reduction
}

// NewMSELoss creates an MSE loss with mean reduction.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{reduction: tensor.ReductionMean}
}

// NewMSELossSum creates an MSE loss with sum reduction.
func NewMSELossSum[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{reduction: tensor.ReductionSum}
}

// Loss computes the scalar loss for predictions against targets.
// Both tensors must share the same shape.
func (m *MSELoss[B]) Loss(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := pred.Backend().MSELoss(pred.Raw(), target.Raw(), m.reduction)
	return tensor.New[float32](raw, pred.Backend())
}
