package nn

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// BatchNorm implements batch normalization over the channel dimension.
//
// The input is expected as [batch, channels, ...] with any number of
// trailing dimensions; statistics are computed per channel over the batch
// and all trailing dimensions.
//
// Training mode normalizes with batch statistics and maintains running
// estimates with exponential averaging:
//
//	running = (1 - momentum) * running + momentum * batch
//
// Eval mode normalizes with the running estimates. Batch statistics use
// biased variance for normalization; the running variance stores the
// unbiased estimate.
//
// Example:
//
//	bn := nn.NewBatchNorm(64, backend)
//	bn.SetTraining(true)
//	y := bn.Forward(x) // x: [batch, 64, ...]
type BatchNorm[B tensor.Backend] struct {
	numFeatures int
	eps         float32
	momentum    float32

	gamma *Parameter[B] // [num_features] scale
	beta  *Parameter[B] // [num_features] shift

	runningMean []float32
	runningVar  []float32

	training bool
	backend  B
}

// NewBatchNorm creates a BatchNorm layer for the given channel count,
// with eps 1e-5 and momentum 0.1. Scale starts at one, shift at zero,
// running mean at zero and running variance at one.
func NewBatchNorm[B tensor.Backend](numFeatures int, backend B) *BatchNorm[B] {
	shape := tensor.Shape{numFeatures}
	gamma := NewParameter("gamma", Ones(shape, backend))
	beta := NewParameter("beta", Zeros(shape, backend))

	runningVar := make([]float32, numFeatures)
	for i := range runningVar {
		runningVar[i] = 1
	}

	return &BatchNorm[B]{
		numFeatures: numFeatures,
		eps:         1e-5,
		momentum:    0.1,
		gamma:       gamma,
		beta:        beta,
		runningMean: make([]float32, numFeatures),
		runningVar:  runningVar,
		training:    true,
		backend:     backend,
	}
}

// SetTraining switches between batch statistics (true) and running
// statistics (false).
func (bn *BatchNorm[B]) SetTraining(training bool) {
	bn.training = training
}

// Training reports whether the layer is in training mode.
func (bn *BatchNorm[B]) Training() bool {
	return bn.training
}

// Forward normalizes the input per channel.
//
// Input shape: [batch, num_features, ...]
// Output shape: same as input.
func (bn *BatchNorm[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("BatchNorm.Forward: expected at least 2D input, got shape %v", shape))
	}
	if shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm.Forward: expected %d channels, got %d", bn.numFeatures, shape[1]))
	}

	if bn.training {
		return bn.forwardTrain(input)
	}
	return bn.forwardEval(input)
}

// forwardTrain normalizes with batch statistics, keeping the statistic
// computation on the tape so gradients flow through mean and variance.
func (bn *BatchNorm[B]) forwardTrain(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()

	// Per-channel mean over every dimension except the channel axis,
	// keeping dims so the result broadcasts back over the input.
	mean := input
	for d := 0; d < len(shape); d++ {
		if d != 1 {
			mean = mean.MeanDim(d, true)
		}
	}

	centered := input.Sub(mean)
	variance := centered.Mul(centered)
	for d := 0; d < len(shape); d++ {
		if d != 1 {
			variance = variance.MeanDim(d, true)
		}
	}

	bn.updateRunningStats(mean, variance, shape)

	eps := tensor.Full(tensor.Shape{1}, bn.eps, bn.backend)
	normalized := centered.Div(variance.Add(eps).Sqrt())

	return bn.scaleShift(normalized, len(shape))
}

// forwardEval normalizes with the running statistics as constants.
func (bn *BatchNorm[B]) forwardEval(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	ndim := len(input.Shape())
	statShape := bn.broadcastShape(ndim)

	mean, err := tensor.FromSlice[float32, B](bn.runningMean, tensor.Shape{bn.numFeatures}, bn.backend)
	if err != nil {
		panic(err)
	}
	variance, err := tensor.FromSlice[float32, B](bn.runningVar, tensor.Shape{bn.numFeatures}, bn.backend)
	if err != nil {
		panic(err)
	}

	eps := tensor.Full(tensor.Shape{1}, bn.eps, bn.backend)
	normalized := input.Sub(mean.Reshape(statShape...)).Div(variance.Reshape(statShape...).Add(eps).Sqrt())

	return bn.scaleShift(normalized, ndim)
}

// scaleShift applies y = normalized * gamma + beta with gamma and beta
// broadcast over the channel dimension.
func (bn *BatchNorm[B]) scaleShift(normalized *tensor.Tensor[float32, B], ndim int) *tensor.Tensor[float32, B] {
	statShape := bn.broadcastShape(ndim)
	gamma := bn.gamma.Tensor().Reshape(statShape...)
	beta := bn.beta.Tensor().Reshape(statShape...)
	return normalized.Mul(gamma).Add(beta)
}

// broadcastShape returns [1, num_features, 1, ...] with ndim entries.
func (bn *BatchNorm[B]) broadcastShape(ndim int) []int {
	shape := make([]int, ndim)
	for i := range shape {
		shape[i] = 1
	}
	shape[1] = bn.numFeatures
	return shape
}

// updateRunningStats folds the batch statistics into the running
// estimates. This happens outside the tape: running statistics are state,
// not part of the differentiated graph.
func (bn *BatchNorm[B]) updateRunningStats(mean, variance *tensor.Tensor[float32, B], inputShape tensor.Shape) {
	n := inputShape.NumElements() / bn.numFeatures

	// Unbiased correction for the running variance estimate.
	correction := float32(1)
	if n > 1 {
		correction = float32(n) / float32(n-1)
	}

	meanData := mean.Raw().AsFloat32()
	varData := variance.Raw().AsFloat32()
	for c := 0; c < bn.numFeatures; c++ {
		bn.runningMean[c] = (1-bn.momentum)*bn.runningMean[c] + bn.momentum*meanData[c]
		bn.runningVar[c] = (1-bn.momentum)*bn.runningVar[c] + bn.momentum*varData[c]*correction
	}
}

// NumFeatures returns the channel count.
func (bn *BatchNorm[B]) NumFeatures() int {
	return bn.numFeatures
}

// Parameters returns the trainable parameters [gamma, beta].
func (bn *BatchNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// StateDict returns the learnable parameters and running statistics.
func (bn *BatchNorm[B]) StateDict() map[string]*tensor.RawTensor {
	mean, err := tensor.FromSlice[float32, B](bn.runningMean, tensor.Shape{bn.numFeatures}, bn.backend)
	if err != nil {
		panic(err)
	}
	variance, err := tensor.FromSlice[float32, B](bn.runningVar, tensor.Shape{bn.numFeatures}, bn.backend)
	if err != nil {
		panic(err)
	}

	return map[string]*tensor.RawTensor{
		"gamma":        bn.gamma.Tensor().Raw(),
		"beta":         bn.beta.Tensor().Raw(),
		"running_mean": mean.Raw(),
		"running_var":  variance.Raw(),
	}
}

// LoadStateDict loads parameters and running statistics.
func (bn *BatchNorm[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	want := tensor.Shape{bn.numFeatures}
	if err := loadParam(stateDict, "gamma", bn.gamma, want); err != nil {
		return err
	}
	if err := loadParam(stateDict, "beta", bn.beta, want); err != nil {
		return err
	}

	for name, dst := range map[string][]float32{
		"running_mean": bn.runningMean,
		"running_var":  bn.runningVar,
	} {
		raw, ok := stateDict[name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", name)
		}
		if !raw.Shape().Equal(want) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, want, raw.Shape())
		}
		copy(dst, raw.AsFloat32())
	}

	return nil
}
