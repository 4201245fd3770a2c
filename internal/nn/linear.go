package nn

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [..., in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [..., out_features]
//
// Inputs with more than two dimensions are flattened to
// [prod(leading), in_features] for the matrix multiplication and restored
// afterwards, so the layer applies to the last dimension of any rank.
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	layer := nn.NewLinear(3, 32, backend)
//	input := tensor.Randn(tensor.Shape{1, 16, 64, 32, 3}, backend)
//	output := layer.Forward(input) // shape: [1, 16, 64, 32, 32]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
	backend     B
}

// NewLinear creates a new Linear layer with Xavier-initialized weights
// and zero biases.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, backend))

	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b over the last input dimension.
//
// Input shape: [..., in_features]
// Output shape: [..., out_features]
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	ndim := len(inputShape)
	if ndim < 2 {
		panic(fmt.Sprintf("Linear.Forward: expected at least 2D input, got shape %v", inputShape))
	}
	if inputShape[ndim-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[ndim-1]))
	}

	// Flatten leading dimensions for the 2-D matmul.
	x := input
	if ndim > 2 {
		rows := 1
		for _, d := range inputShape[:ndim-1] {
			rows *= d
		}
		x = x.Reshape(rows, l.inFeatures)
	}

	w := l.weight.Tensor() // [out_features, in_features]
	wT := w.Transpose()    // [in_features, out_features]
	output := x.MatMul(wT)

	b := l.bias.Tensor().Reshape(1, l.outFeatures)
	output = output.Add(b)

	if ndim > 2 {
		outShape := make([]int, ndim)
		copy(outShape, inputShape[:ndim-1])
		outShape[ndim-1] = l.outFeatures
		output = output.Reshape(outShape...)
	}

	return output
}

// Parameters returns the trainable parameters [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := loadParam(stateDict, "weight", l.weight, tensor.Shape{l.outFeatures, l.inFeatures}); err != nil {
		return err
	}
	return loadParam(stateDict, "bias", l.bias, tensor.Shape{l.outFeatures})
}

// loadParam copies a named entry of a state dictionary into a parameter,
// validating shape and dtype.
func loadParam[B tensor.Backend](stateDict map[string]*tensor.RawTensor, name string, p *Parameter[B], want tensor.Shape) error {
	raw, ok := stateDict[name]
	if !ok {
		return fmt.Errorf("missing %s in state dict", name)
	}
	if !raw.Shape().Equal(want) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, want, raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		return fmt.Errorf("%s dtype mismatch: expected float32, got %v", name, raw.DType())
	}
	copy(p.Tensor().Data(), raw.AsFloat32())
	return nil
}
