package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shellnet/internal/autodiff"
	"github.com/born-ml/shellnet/internal/backend/cpu"
	"github.com/born-ml/shellnet/internal/tensor"
)

func rawFrom(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func rawIndex(t *testing.T, shape tensor.Shape, data []int32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int32)
	require.NoError(t, err)
	copy(raw.AsInt32(), data)
	return raw
}

func onesLike(t *testing.T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = 1
	}
	return raw
}

func TestBackendName(t *testing.T) {
	backend := autodiff.New(cpu.New())
	assert.Equal(t, "Autodiff(CPU)", backend.Name())
}

func TestTapeRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	assert.False(t, tape.IsRecording())

	tape.StartRecording()
	assert.True(t, tape.IsRecording())

	tape.StopRecording()
	assert.False(t, tape.IsRecording())
}

func TestTapeClearPreservesRecordingState(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	a := rawFrom(t, tensor.Shape{2}, []float32{1, 2})
	b := rawFrom(t, tensor.Shape{2}, []float32{3, 4})
	backend.Add(a, b)

	require.NotZero(t, tape.NumOps())

	tape.Clear()

	assert.Zero(t, tape.NumOps())
	assert.True(t, tape.IsRecording())
}

func TestNoRecordingWhenStopped(t *testing.T) {
	backend := autodiff.New(cpu.New())

	a := rawFrom(t, tensor.Shape{2}, []float32{1, 2})
	b := rawFrom(t, tensor.Shape{2}, []float32{3, 4})
	backend.Add(a, b)

	assert.Zero(t, backend.Tape().NumOps())
}

func TestAddBackward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := rawFrom(t, tensor.Shape{2}, []float32{1, 2})
	b := rawFrom(t, tensor.Shape{2}, []float32{3, 4})
	c := backend.Add(a, b)

	grads := backend.Tape().Backward(onesLike(t, c.Shape()), backend.Inner())

	assert.Equal(t, []float32{1, 1}, grads[a].AsFloat32())
	assert.Equal(t, []float32{1, 1}, grads[b].AsFloat32())
}

func TestAddBackwardBroadcastReduces(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	bias := rawFrom(t, tensor.Shape{3}, []float32{1, 1, 1})
	c := backend.Add(a, bias)

	grads := backend.Tape().Backward(onesLike(t, c.Shape()), backend.Inner())

	// Each bias element fed 2 output positions.
	assert.Equal(t, tensor.Shape{3}, grads[bias].Shape())
	assert.Equal(t, []float32{2, 2, 2}, grads[bias].AsFloat32())
}

func TestMulChainRule(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// y = x * x, dy/dx = 2x.
	x := rawFrom(t, tensor.Shape{1}, []float32{3})
	y := backend.Mul(x, x)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.InDelta(t, 6.0, grads[x].AsFloat32()[0], 1e-6)
}

func TestSubBackwardNegatesSecondInput(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := rawFrom(t, tensor.Shape{2}, []float32{5, 6})
	b := rawFrom(t, tensor.Shape{2}, []float32{1, 2})
	c := backend.Sub(a, b)

	grads := backend.Tape().Backward(onesLike(t, c.Shape()), backend.Inner())

	assert.Equal(t, []float32{1, 1}, grads[a].AsFloat32())
	assert.Equal(t, []float32{-1, -1}, grads[b].AsFloat32())
}

func TestDivBackward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// y = a / b at a=6, b=2: dy/da = 1/b = 0.5, dy/db = -a/b^2 = -1.5.
	a := rawFrom(t, tensor.Shape{1}, []float32{6})
	b := rawFrom(t, tensor.Shape{1}, []float32{2})
	y := backend.Div(a, b)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.InDelta(t, 0.5, grads[a].AsFloat32()[0], 1e-6)
	assert.InDelta(t, -1.5, grads[b].AsFloat32()[0], 1e-6)
}

func TestMatMulBackward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := rawFrom(t, tensor.Shape{1, 2}, []float32{1, 2})
	b := rawFrom(t, tensor.Shape{2, 1}, []float32{3, 4})
	y := backend.MatMul(a, b)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	// grad_a = g @ b^T = [3, 4], grad_b = a^T @ g = [1, 2]^T.
	assert.Equal(t, []float32{3, 4}, grads[a].AsFloat32())
	assert.Equal(t, []float32{1, 2}, grads[b].AsFloat32())
}

func TestReLUBackwardMasksNegatives(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{4}, []float32{-1, 2, 0, 3})
	y := backend.ReLU(x)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, []float32{0, 1, 0, 1}, grads[x].AsFloat32())
}

func TestReshapeBackwardRestoresShape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	y := backend.Reshape(x, tensor.Shape{3, 2})

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, tensor.Shape{2, 3}, grads[x].Shape())
}

func TestTransposeBackwardInvertsPermutation(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	x := rawFrom(t, tensor.Shape{2, 3, 4}, data)
	y := backend.Transpose(x, 2, 0, 1)

	g, err := tensor.NewRaw(y.Shape(), tensor.Float32)
	require.NoError(t, err)
	for i := range g.AsFloat32() {
		g.AsFloat32()[i] = float32(i)
	}
	grads := backend.Tape().Backward(g, backend.Inner())

	require.Equal(t, tensor.Shape{2, 3, 4}, grads[x].Shape())
	// Round-tripping the gradient through the forward permutation must
	// reproduce the seed.
	back := cpu.New().Transpose(grads[x], 2, 0, 1)
	assert.Equal(t, g.AsFloat32(), back.AsFloat32())
}

func TestGatherBackwardScatterAdds(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{1, 4}, []float32{10, 20, 30, 40})
	// Index 1 appears twice: its gradients must accumulate.
	idx := rawIndex(t, tensor.Shape{1, 3}, []int32{1, 1, 3})
	y := backend.Gather(x, 1, idx)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, []float32{0, 2, 0, 1}, grads[x].AsFloat32())
}

func TestCatBackwardSplitsGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a := rawFrom(t, tensor.Shape{1, 2}, []float32{1, 2})
	b := rawFrom(t, tensor.Shape{1, 3}, []float32{3, 4, 5})
	y := backend.Cat([]*tensor.RawTensor{a, b}, 1)

	g, err := tensor.NewRaw(y.Shape(), tensor.Float32)
	require.NoError(t, err)
	copy(g.AsFloat32(), []float32{10, 20, 30, 40, 50})
	grads := backend.Tape().Backward(g, backend.Inner())

	assert.Equal(t, []float32{10, 20}, grads[a].AsFloat32())
	assert.Equal(t, []float32{30, 40, 50}, grads[b].AsFloat32())
}

func TestMaxPool1DBackwardRoutesToArgmax(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{1, 4}, []float32{1, 5, 2, 7})
	y := backend.MaxPool1D(x, 1, 2, 2)

	g, err := tensor.NewRaw(y.Shape(), tensor.Float32)
	require.NoError(t, err)
	copy(g.AsFloat32(), []float32{10, 20})
	grads := backend.Tape().Backward(g, backend.Inner())

	assert.Equal(t, []float32{0, 10, 0, 20}, grads[x].AsFloat32())
}

func TestSumDimBackwardBroadcasts(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	y := backend.SumDim(x, 1, false)

	g, err := tensor.NewRaw(y.Shape(), tensor.Float32)
	require.NoError(t, err)
	copy(g.AsFloat32(), []float32{10, 20})
	grads := backend.Tape().Backward(g, backend.Inner())

	assert.Equal(t, []float32{10, 10, 10, 20, 20, 20}, grads[x].AsFloat32())
}

func TestMeanDimBackwardDividesByDimSize(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{1, 4}, []float32{1, 2, 3, 4})
	y := backend.MeanDim(x, 1, true)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, grads[x].AsFloat32())
}

func TestMSELossBackwardSum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	pred := rawFrom(t, tensor.Shape{2}, []float32{3, 1})
	target := rawFrom(t, tensor.Shape{2}, []float32{1, 1})
	loss := backend.MSELoss(pred, target, tensor.ReductionSum)

	assert.Equal(t, float32(4), loss.AsFloat32()[0])

	grads := backend.Tape().Backward(onesLike(t, loss.Shape()), backend.Inner())

	// d/dp sum((p-t)^2) = 2(p-t).
	assert.Equal(t, []float32{4, 0}, grads[pred].AsFloat32())
	assert.Nil(t, grads[target])
}

func TestMSELossBackwardMean(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	pred := rawFrom(t, tensor.Shape{2}, []float32{3, 1})
	target := rawFrom(t, tensor.Shape{2}, []float32{1, 1})
	loss := backend.MSELoss(pred, target, tensor.ReductionMean)

	assert.Equal(t, float32(2), loss.AsFloat32()[0])

	grads := backend.Tape().Backward(onesLike(t, loss.Shape()), backend.Inner())

	assert.Equal(t, []float32{2, 0}, grads[pred].AsFloat32())
}

func TestGradientAccumulatesAcrossUses(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// y = x + x, dy/dx = 2.
	x := rawFrom(t, tensor.Shape{2}, []float32{1, 2})
	y := backend.Add(x, x)

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, []float32{2, 2}, grads[x].AsFloat32())
}

func TestExpandBackwardSumsReplicas(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x := rawFrom(t, tensor.Shape{1, 2}, []float32{1, 2})
	y := backend.Expand(x, tensor.Shape{3, 2})

	grads := backend.Tape().Backward(onesLike(t, y.Shape()), backend.Inner())

	assert.Equal(t, tensor.Shape{1, 2}, grads[x].Shape())
	assert.Equal(t, []float32{3, 3}, grads[x].AsFloat32())
}
