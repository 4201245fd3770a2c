package tensor

// Reduction selects how a loss op collapses element-wise terms.
type Reduction int

// Supported loss reductions.
const (
	ReductionMean Reduction = iota
	ReductionSum
)

// String returns a human-readable reduction name.
func (r Reduction) String() string {
	switch r {
	case ReductionMean:
		return "mean"
	case ReductionSum:
		return "sum"
	default:
		return "unknown"
	}
}

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go, single-threaded reference implementation
//
// Decorator backends for additional functionality:
//   - autodiff: automatic differentiation (wraps any backend)
//
// Every operation allocates and returns a fresh result tensor; inputs are
// never mutated. Shape errors are programmer errors and panic; callers that
// need recoverable validation check shapes before invoking the backend.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // 2-D matrix multiplication

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor // no axes = reverse dims
	Expand(x *RawTensor, shape Shape) *RawTensor    // broadcast to shape (materialized)
	Unsqueeze(x *RawTensor, dim int) *RawTensor     // add dimension of size 1
	Squeeze(x *RawTensor, dim int) *RawTensor       // remove dimension of size 1

	// Manipulation operations.
	Cat(tensors []*RawTensor, dim int) *RawTensor // concatenate along dimension

	// Indexing operations.
	Gather(x *RawTensor, dim int, index *RawTensor) *RawTensor // select along dim using int32 indices

	// Activation functions.
	ReLU(x *RawTensor) *RawTensor

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Pooling.
	// MaxPool1D slides a window of size kernel with the given stride along
	// a single dimension and takes the element-wise maximum in each window.
	MaxPool1D(x *RawTensor, dim, kernel, stride int) *RawTensor

	// Losses (fused forward; the autodiff decorator supplies the backward).
	MSELoss(pred, target *RawTensor, reduction Reduction) *RawTensor

	// Metadata.
	Name() string
}
