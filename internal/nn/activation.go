package nn

import (
	"github.com/born-ml/shellnet/internal/tensor"
)

// ReLU applies the rectified linear unit activation: max(0, x).
//
// ReLU has no trainable parameters.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies max(0, x) element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := input.Backend().ReLU(input.Raw())
	return tensor.New[float32](raw, input.Backend())
}

// Parameters returns an empty slice; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// StateDict returns an empty map; ReLU has no state.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op; ReLU has no state.
func (r *ReLU[B]) LoadStateDict(_ map[string]*tensor.RawTensor) error {
	return nil
}
