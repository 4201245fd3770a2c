package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shellnet/internal/autodiff"
	"github.com/born-ml/shellnet/internal/backend/cpu"
	"github.com/born-ml/shellnet/internal/tensor"
)

// numericalGrad approximates dLoss/dx[i] with central finite differences,
// evaluating the forward pass on the plain CPU backend.
func numericalGrad(x *tensor.RawTensor, i int, eps float32, forward func() float32) float32 {
	data := x.AsFloat32()
	orig := data[i]

	data[i] = orig + eps
	plus := forward()

	data[i] = orig - eps
	minus := forward()

	data[i] = orig
	return (plus - minus) / (2 * eps)
}

// TestGradientCheckMatMulReLUSum verifies autodiff against finite
// differences for loss = sum(relu(x @ w)).
func TestGradientCheckMatMulReLUSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	inner := cpu.New()

	x := randomRaw(t, rng, tensor.Shape{3, 4})
	w := randomRaw(t, rng, tensor.Shape{4, 2})

	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	loss := backend.Sum(backend.ReLU(backend.MatMul(x, w)))
	grads := backend.Tape().Backward(onesLike(t, loss.Shape()), inner)

	forward := func() float32 {
		return inner.Sum(inner.ReLU(inner.MatMul(x, w))).AsFloat32()[0]
	}

	checkAgainstNumerical(t, grads[x], x, forward)
	checkAgainstNumerical(t, grads[w], w, forward)
}

// TestGradientCheckPoolingPipeline verifies autodiff for a pipeline that
// exercises reshape, pooling and the fused loss together:
// loss = mse_sum(maxpool(x), target).
func TestGradientCheckPoolingPipeline(t *testing.T) {
	inner := cpu.New()

	// Window maxima are well separated so the finite-difference probe
	// cannot flip an argmax.
	xData := make([]float32, 2*8*3)
	for i := range xData {
		xData[i] = float32((i*7)%13) - 6
	}
	tData := make([]float32, 2*2*3)
	for i := range tData {
		tData[i] = float32(i%5) - 2
	}
	x := rawFrom(t, tensor.Shape{2, 8, 3}, xData)
	target := rawFrom(t, tensor.Shape{2, 2, 3}, tData)

	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	pooled := backend.MaxPool1D(x, 1, 4, 4)
	loss := backend.MSELoss(pooled, target, tensor.ReductionSum)
	grads := backend.Tape().Backward(onesLike(t, loss.Shape()), inner)

	forward := func() float32 {
		return inner.MSELoss(inner.MaxPool1D(x, 1, 4, 4), target, tensor.ReductionSum).AsFloat32()[0]
	}

	checkAgainstNumerical(t, grads[x], x, forward)
}

// TestGradientCheckNormalization verifies autodiff for a mean/variance
// normalization built from primitives, the same composition batch norm
// uses.
func TestGradientCheckNormalization(t *testing.T) {
	rng := rand.New(rand.NewSource(11)) //nolint:gosec // deterministic test data
	inner := cpu.New()

	x := randomRaw(t, rng, tensor.Shape{4, 3})
	eps := rawFrom(t, tensor.Shape{1}, []float32{1e-5})

	normalize := func(b tensor.Backend) *tensor.RawTensor {
		mean := b.MeanDim(x, 0, true)
		centered := b.Sub(x, mean)
		variance := b.MeanDim(b.Mul(centered, centered), 0, true)
		return b.Div(centered, b.Sqrt(b.Add(variance, eps)))
	}

	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	loss := backend.Sum(backend.Mul(normalize(backend), normalize(backend)))
	grads := backend.Tape().Backward(onesLike(t, loss.Shape()), inner)

	forward := func() float32 {
		n := normalize(inner)
		return inner.Sum(inner.Mul(n, n)).AsFloat32()[0]
	}

	checkAgainstNumerical(t, grads[x], x, forward)
}

func randomRaw(t *testing.T, rng *rand.Rand, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	return raw
}

func checkAgainstNumerical(t *testing.T, grad, x *tensor.RawTensor, forward func() float32) {
	t.Helper()
	require.NotNil(t, grad)
	require.Equal(t, x.Shape(), grad.Shape())

	const eps = 1e-2
	analytic := grad.AsFloat32()
	for i := range x.AsFloat32() {
		numeric := numericalGrad(x, i, eps, forward)
		// Finite differences in float32 carry noticeable error, so the
		// tolerance is loose.
		assert.InDelta(t, numeric, analytic[i], 0.05, "element %d", i)
	}
}
