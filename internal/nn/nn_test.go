package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shellnet/internal/backend/cpu"
	"github.com/born-ml/shellnet/internal/nn"
	"github.com/born-ml/shellnet/internal/tensor"
)

func TestLinearShape(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(4, 8, backend)

	input := tensor.Randn(tensor.Shape{2, 4}, backend)
	output := layer.Forward(input)

	assert.Equal(t, tensor.Shape{2, 8}, output.Shape())
}

func TestLinearKnownValues(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(2, 2, backend)

	// W = [[1, 2], [3, 4]], b = [10, 20].
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	input, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)

	// y = x @ W.T + b = [1+2+10, 3+4+20].
	assert.Equal(t, []float32{13, 27}, output.Data())
}

func TestLinearAppliesToLastDimOfHighRankInput(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 5, backend)

	input := tensor.Randn(tensor.Shape{2, 4, 6, 3}, backend)
	output := layer.Forward(input)

	require.Equal(t, tensor.Shape{2, 4, 6, 5}, output.Shape())

	// Row (1, 2, 3) through the flattened 2-D path must match.
	flat := layer.Forward(input.Reshape(2*4*6, 3))
	assert.Equal(t, flat.Data(), output.Data())
}

func TestLinearRejectsWrongFeatureCount(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(4, 8, backend)

	input := tensor.Randn(tensor.Shape{2, 3}, backend)

	assert.Panics(t, func() { layer.Forward(input) })
}

func TestLinearXavierInitBounds(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(100, 50, backend)

	bound := float32(math.Sqrt(6.0 / 150.0))
	for _, w := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, w, bound)
		assert.GreaterOrEqual(t, w, -bound)
	}
	for _, b := range layer.Bias().Tensor().Data() {
		assert.Zero(t, b)
	}
}

func TestReLUModule(t *testing.T) {
	backend := cpu.New()
	relu := nn.NewReLU[*cpu.CPUBackend]()

	input, err := tensor.FromSlice([]float32{-1, 0, 2}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	output := relu.Forward(input)

	assert.Equal(t, []float32{0, 0, 2}, output.Data())
	assert.Empty(t, relu.Parameters())
}

func TestSequentialChainsModules(t *testing.T) {
	backend := cpu.New()
	mlp := nn.NewSequential[*cpu.CPUBackend](
		nn.NewLinear(3, 4, backend),
		nn.NewReLU[*cpu.CPUBackend](),
		nn.NewLinear(4, 2, backend),
	)

	input := tensor.Randn(tensor.Shape{5, 3}, backend)
	output := mlp.Forward(input)

	assert.Equal(t, tensor.Shape{5, 2}, output.Shape())
	// 2 linears with weight+bias each.
	assert.Len(t, mlp.Parameters(), 4)
}

func TestBatchNormTrainingNormalizesBatch(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm(2, backend)
	require.True(t, bn.Training())

	input, err := tensor.FromSlice([]float32{
		1, 10,
		3, 20,
		5, 30,
	}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)

	// Per channel, the normalized batch has zero mean and unit variance.
	data := output.Data()
	for c := 0; c < 2; c++ {
		var mean float64
		for i := 0; i < 3; i++ {
			mean += float64(data[i*2+c])
		}
		mean /= 3
		assert.InDelta(t, 0, mean, 1e-5)

		var variance float64
		for i := 0; i < 3; i++ {
			d := float64(data[i*2+c]) - mean
			variance += d * d
		}
		variance /= 3
		assert.InDelta(t, 1, variance, 1e-3)
	}
}

func TestBatchNormRunningStats(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm(1, backend)

	input, err := tensor.FromSlice([]float32{0, 2, 4}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	bn.Forward(input)

	state := bn.StateDict()
	// running_mean = 0.9*0 + 0.1*2 = 0.2.
	assert.InDelta(t, 0.2, state["running_mean"].AsFloat32()[0], 1e-6)
	// batch var (biased) = 8/3, unbiased = 4; running_var = 0.9*1 + 0.1*4 = 1.3.
	assert.InDelta(t, 1.3, state["running_var"].AsFloat32()[0], 1e-5)
}

func TestBatchNormEvalUsesRunningStats(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm(1, backend)
	bn.SetTraining(false)

	// Fresh running stats are mean 0, var 1, so eval is near-identity.
	input, err := tensor.FromSlice([]float32{1, -2, 3}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)

	for i, v := range input.Data() {
		assert.InDelta(t, v, output.Data()[i], 1e-4)
	}
}

func TestBatchNorm5DInput(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm(3, backend)

	input := tensor.Randn(tensor.Shape{2, 3, 4, 5, 6}, backend)
	output := bn.Forward(input)

	assert.Equal(t, input.Shape(), output.Shape())
}

func TestBatchNormRejectsChannelMismatch(t *testing.T) {
	backend := cpu.New()
	bn := nn.NewBatchNorm(4, backend)

	input := tensor.Randn(tensor.Shape{2, 3}, backend)

	assert.Panics(t, func() { bn.Forward(input) })
}

func TestMSELossMean(t *testing.T) {
	backend := cpu.New()
	loss := nn.NewMSELoss[*cpu.CPUBackend]()

	pred, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{1, 2, 3, 0}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	l := loss.Loss(pred, target)

	assert.InDelta(t, 4.0, l.Item(), 1e-6)
}

func TestMSELossSum(t *testing.T) {
	backend := cpu.New()
	loss := nn.NewMSELossSum[*cpu.CPUBackend]()

	pred, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	l := loss.Loss(pred, target)

	assert.InDelta(t, 5.0, l.Item(), 1e-6)
}

func TestLinearStateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	src := nn.NewLinear(3, 2, backend)
	dst := nn.NewLinear(3, 2, backend)

	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	assert.Equal(t, src.Weight().Tensor().Data(), dst.Weight().Tensor().Data())
	assert.Equal(t, src.Bias().Tensor().Data(), dst.Bias().Tensor().Data())
}

func TestSequentialStateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	build := func() *nn.Sequential[*cpu.CPUBackend] {
		return nn.NewSequential[*cpu.CPUBackend](
			nn.NewLinear(3, 4, backend),
			nn.NewReLU[*cpu.CPUBackend](),
			nn.NewLinear(4, 2, backend),
		)
	}
	src := build()
	dst := build()

	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	srcParams, dstParams := src.Parameters(), dst.Parameters()
	require.Len(t, dstParams, len(srcParams))
	for i := range srcParams {
		assert.Equal(t, srcParams[i].Tensor().Data(), dstParams[i].Tensor().Data())
	}
}
