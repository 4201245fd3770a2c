package shellnet

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/nn"
	"github.com/born-ml/shellnet/internal/tensor"
)

const (
	liftHidden = 32
	liftOut    = 64
)

// Lift maps raw 3-D neighbor offsets to per-neighbor feature vectors.
//
// It is a two-layer pointwise MLP (3 -> 32 -> 64) with ReLU after each
// layer. With normalization enabled each linear layer is preceded by
// batch normalization over the coordinate/feature axis; the axis is
// swapped into the channel position for the norm and swapped back.
type Lift[B tensor.Backend] struct {
	linear1 *nn.Linear[B]
	linear2 *nn.Linear[B]
	norm1   *nn.BatchNorm[B]
	norm2   *nn.BatchNorm[B]
	relu    *nn.ReLU[B]
}

// NewLift creates a Lift network. withNorm enables the batch
// normalization in front of each linear layer.
func NewLift[B tensor.Backend](withNorm bool, backend B) *Lift[B] {
	l := &Lift[B]{
		linear1: nn.NewLinear[B](3, liftHidden, backend),
		linear2: nn.NewLinear[B](liftHidden, liftOut, backend),
		relu:    nn.NewReLU[B](),
	}
	if withNorm {
		l.norm1 = nn.NewBatchNorm[B](3, backend)
		l.norm2 = nn.NewBatchNorm[B](liftHidden, backend)
	}
	return l
}

// Forward lifts offsets of shape [batch, groups, queries, k, 3] to
// features of shape [batch, groups, queries, k, 64].
func (l *Lift[B]) Forward(offsets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := offsets
	if l.norm1 != nil {
		x = channelNorm(l.norm1, x)
	}
	x = l.relu.Forward(l.linear1.Forward(x))
	if l.norm2 != nil {
		x = channelNorm(l.norm2, x)
	}
	return l.relu.Forward(l.linear2.Forward(x))
}

// channelNorm applies bn with the trailing feature axis swapped into the
// channel position. The permutation swapping axes 1 and 4 is its own
// inverse.
func channelNorm[B tensor.Backend](bn *nn.BatchNorm[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	swapped := x.Transpose(0, 4, 2, 3, 1)
	return bn.Forward(swapped).Transpose(0, 4, 2, 3, 1)
}

// SetTraining switches the normalization layers between batch and
// running statistics. No-op without normalization.
func (l *Lift[B]) SetTraining(training bool) {
	if l.norm1 != nil {
		l.norm1.SetTraining(training)
		l.norm2.SetTraining(training)
	}
}

// Parameters returns all trainable parameters.
func (l *Lift[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 8)
	if l.norm1 != nil {
		params = append(params, l.norm1.Parameters()...)
	}
	params = append(params, l.linear1.Parameters()...)
	if l.norm2 != nil {
		params = append(params, l.norm2.Parameters()...)
	}
	params = append(params, l.linear2.Parameters()...)
	return params
}

// StateDict returns parameters and running statistics of all
// sub-modules, with names prefixed by the sub-module.
func (l *Lift[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	mergeStateDict(stateDict, "linear1", l.linear1.StateDict())
	mergeStateDict(stateDict, "linear2", l.linear2.StateDict())
	if l.norm1 != nil {
		mergeStateDict(stateDict, "norm1", l.norm1.StateDict())
		mergeStateDict(stateDict, "norm2", l.norm2.StateDict())
	}
	return stateDict
}

// LoadStateDict loads parameters and running statistics from a state
// dictionary produced by StateDict.
func (l *Lift[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := l.linear1.LoadStateDict(subStateDict(stateDict, "linear1")); err != nil {
		return fmt.Errorf("lift: %w", err)
	}
	if err := l.linear2.LoadStateDict(subStateDict(stateDict, "linear2")); err != nil {
		return fmt.Errorf("lift: %w", err)
	}
	if l.norm1 != nil {
		if err := l.norm1.LoadStateDict(subStateDict(stateDict, "norm1")); err != nil {
			return fmt.Errorf("lift: %w", err)
		}
		if err := l.norm2.LoadStateDict(subStateDict(stateDict, "norm2")); err != nil {
			return fmt.Errorf("lift: %w", err)
		}
	}
	return nil
}
