package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shellnet/internal/tensor"
)

func rawFromFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func rawFromInt32(t *testing.T, shape tensor.Shape, data []int32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int32)
	require.NoError(t, err)
	copy(raw.AsInt32(), data)
	return raw
}

func TestAddSameShape(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	c := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	out := b.Add(a, c)

	assert.Equal(t, []float32{11, 22, 33, 44}, out.AsFloat32())
}

func TestAddBroadcastRow(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	bias := rawFromFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

	out := b.Add(a, bias)

	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())
}

func TestMulBroadcastScalar(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	s := rawFromFloat32(t, tensor.Shape{1}, []float32{2})

	out := b.Mul(a, s)

	assert.Equal(t, []float32{2, 4, 6, 8}, out.AsFloat32())
}

func TestDivElementwise(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{3}, []float32{6, 9, 12})
	c := rawFromFloat32(t, tensor.Shape{3}, []float32{2, 3, 4})

	out := b.Div(a, c)

	assert.Equal(t, []float32{3, 3, 3}, out.AsFloat32())
}

func TestMatMul(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	c := rawFromFloat32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	out := b.MatMul(a, c)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
}

func TestMatMulDimMismatchPanics(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
	c := rawFromFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))

	assert.Panics(t, func() { b.MatMul(a, c) })
}

func TestTransposeReverse(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	out := b.Transpose(a)

	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
}

func TestTransposePermutation(t *testing.T) {
	b := New()
	// Shape (2, 3, 4), permute to (4, 2, 3).
	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	a := rawFromFloat32(t, tensor.Shape{2, 3, 4}, data)

	out := b.Transpose(a, 2, 0, 1)

	assert.Equal(t, tensor.Shape{4, 2, 3}, out.Shape())
	// out[k][i][j] = a[i][j][k]: out[1][0][2] = a[0][2][1] = 9.
	assert.Equal(t, float32(9), out.AsFloat32()[1*6+0*3+2])
}

func TestTransposeSelfInverse(t *testing.T) {
	b := New()
	data := make([]float32, 2*3*4*5*6)
	for i := range data {
		data[i] = float32(i)
	}
	a := rawFromFloat32(t, tensor.Shape{2, 3, 4, 5, 6}, data)

	// [0,4,2,3,1] is its own inverse.
	swapped := b.Transpose(a, 0, 4, 2, 3, 1)
	back := b.Transpose(swapped, 0, 4, 2, 3, 1)

	assert.Equal(t, a.Shape(), back.Shape())
	assert.Equal(t, a.AsFloat32(), back.AsFloat32())
}

func TestExpand(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{1, 3}, []float32{1, 2, 3})

	out := b.Expand(a, tensor.Shape{2, 3})

	assert.Equal(t, []float32{1, 2, 3, 1, 2, 3}, out.AsFloat32())
}

func TestUnsqueezeSqueeze(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	up := b.Unsqueeze(a, 1)
	assert.Equal(t, tensor.Shape{2, 1, 3}, up.Shape())

	down := b.Squeeze(up, 1)
	assert.Equal(t, tensor.Shape{2, 3}, down.Shape())

	neg := b.Unsqueeze(a, -1)
	assert.Equal(t, tensor.Shape{2, 3, 1}, neg.Shape())
}

func TestCatMiddleDim(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 1, 2}, []float32{1, 2, 3, 4})
	c := rawFromFloat32(t, tensor.Shape{2, 2, 2}, []float32{5, 6, 7, 8, 9, 10, 11, 12})

	out := b.Cat([]*tensor.RawTensor{a, c}, 1)

	assert.Equal(t, tensor.Shape{2, 3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 2, 5, 6, 7, 8, 3, 4, 9, 10, 11, 12}, out.AsFloat32())
}

func TestCatShapeMismatchPanics(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))
	c := rawFromFloat32(t, tensor.Shape{3, 3}, make([]float32, 9))

	assert.Panics(t, func() { b.Cat([]*tensor.RawTensor{a, c}, 0) })
}

func TestGather(t *testing.T) {
	b := New()
	x := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	idx := rawFromInt32(t, tensor.Shape{2, 2}, []int32{0, 2, 1, 1})

	out := b.Gather(x, 1, idx)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 3, 5, 5}, out.AsFloat32())
}

func TestGatherDim0(t *testing.T) {
	b := New()
	x := rawFromFloat32(t, tensor.Shape{3, 2}, []float32{1, 2, 3, 4, 5, 6})
	idx := rawFromInt32(t, tensor.Shape{2, 2}, []int32{2, 0, 1, 2})

	out := b.Gather(x, 0, idx)

	assert.Equal(t, []float32{5, 2, 3, 6}, out.AsFloat32())
}

func TestGatherOutOfRangePanics(t *testing.T) {
	b := New()
	x := rawFromFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))
	idx := rawFromInt32(t, tensor.Shape{2, 2}, []int32{0, 5, 0, 0})

	assert.Panics(t, func() { b.Gather(x, 1, idx) })
}

func TestReLU(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{4}, []float32{-2, -0.5, 0, 3})

	out := b.ReLU(a)

	assert.Equal(t, []float32{0, 0, 0, 3}, out.AsFloat32())
}

func TestSqrt(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{3}, []float32{4, 9, 16})

	out := b.Sqrt(a)

	assert.Equal(t, []float32{2, 3, 4}, out.AsFloat32())
}

func TestSum(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})

	out := b.Sum(a)

	assert.Equal(t, tensor.Shape{1}, out.Shape())
	assert.Equal(t, float32(10), out.AsFloat32()[0])
}

func TestSumDim(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	out := b.SumDim(a, 0, false)
	assert.Equal(t, tensor.Shape{3}, out.Shape())
	assert.Equal(t, []float32{5, 7, 9}, out.AsFloat32())

	kept := b.SumDim(a, 1, true)
	assert.Equal(t, tensor.Shape{2, 1}, kept.Shape())
	assert.Equal(t, []float32{6, 15}, kept.AsFloat32())
}

func TestMeanDim(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 3, 5, 7})

	out := b.MeanDim(a, 1, true)

	assert.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.Equal(t, []float32{2, 6}, out.AsFloat32())
}

func TestMeanDimNegativeDim(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 3, 5, 7})

	out := b.MeanDim(a, -1, false)

	assert.Equal(t, tensor.Shape{2}, out.Shape())
	assert.Equal(t, []float32{2, 6}, out.AsFloat32())
}

func TestMaxPool1D(t *testing.T) {
	b := New()
	// Shape (1, 6, 2): pool along dim 1 with kernel 3.
	a := rawFromFloat32(t, tensor.Shape{1, 6, 2}, []float32{
		1, 10,
		5, 2,
		3, 8,
		7, 0,
		2, 9,
		4, 4,
	})

	out := b.MaxPool1D(a, 1, 3, 3)

	assert.Equal(t, tensor.Shape{1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{5, 10, 7, 9}, out.AsFloat32())
}

func TestMaxPool1DKernelTooLargePanics(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))

	assert.Panics(t, func() { b.MaxPool1D(a, 1, 3, 3) })
}

func TestMSELossSum(t *testing.T) {
	b := New()
	pred := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	target := rawFromFloat32(t, tensor.Shape{2, 2}, []float32{0, 0, 0, 0})

	out := b.MSELoss(pred, target, tensor.ReductionSum)

	assert.Equal(t, float32(30), out.AsFloat32()[0])
}

func TestMSELossMean(t *testing.T) {
	b := New()
	pred := rawFromFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})
	target := rawFromFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 0})

	out := b.MSELoss(pred, target, tensor.ReductionMean)

	assert.Equal(t, float32(4), out.AsFloat32()[0])
}

func TestMSELossShapeMismatchPanics(t *testing.T) {
	b := New()
	pred := rawFromFloat32(t, tensor.Shape{2}, make([]float32, 2))
	target := rawFromFloat32(t, tensor.Shape{3}, make([]float32, 3))

	assert.Panics(t, func() { b.MSELoss(pred, target, tensor.ReductionSum) })
}

func TestReshapeSharesData(t *testing.T) {
	b := New()
	a := rawFromFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	out := b.Reshape(a, tensor.Shape{3, 2})

	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	out.AsFloat32()[0] = 99
	assert.Equal(t, float32(99), a.AsFloat32()[0])
}

func TestName(t *testing.T) {
	assert.Equal(t, "CPU", New().Name())
}
