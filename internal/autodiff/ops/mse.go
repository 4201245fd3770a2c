package ops

import "github.com/born-ml/shellnet/internal/tensor"

// MSELossOp represents a fused mean-squared-error loss.
//
// Forward:
//
//	loss = reduce((pred - target)^2)  where reduce is mean or sum
//
// Backward:
//
//	grad_pred = 2 * (pred - target) * outputGrad      (sum reduction)
//	grad_pred = 2 * (pred - target) * outputGrad / N  (mean reduction)
//
// The target is treated as a constant and receives no gradient.
type MSELossOp struct {
	pred      *tensor.RawTensor
	target    *tensor.RawTensor
	output    *tensor.RawTensor // scalar loss, shape [1]
	reduction tensor.Reduction
}

// NewMSELossOp creates a new MSELossOp.
func NewMSELossOp(pred, target, output *tensor.RawTensor, reduction tensor.Reduction) *MSELossOp {
	return &MSELossOp{
		pred:      pred,
		target:    target,
		output:    output,
		reduction: reduction,
	}
}

// Backward computes the prediction gradient.
func (op *MSELossOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	gradPred := zeroGrad(op.pred.Shape())

	p := op.pred.AsFloat32()
	t := op.target.AsFloat32()
	dst := gradPred.AsFloat32()

	scale := 2 * outputGrad.AsFloat32()[0]
	if op.reduction == tensor.ReductionMean {
		scale /= float32(len(p))
	}

	for i := range p {
		dst[i] = scale * (p[i] - t[i])
	}

	return []*tensor.RawTensor{gradPred}
}

// Inputs returns the prediction tensor. The target is a constant and is
// excluded.
func (op *MSELossOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.pred}
}

// Output returns the scalar loss tensor.
func (op *MSELossOp) Output() *tensor.RawTensor {
	return op.output
}
