package shellnet

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

// GatherFeatures looks up per-point feature vectors for every neighbor
// index produced by KNN.
//
// features has shape [batch, groups, count_points, f] and indices
// [batch, groups, count_queries, k]. The result is
// [batch, groups, count_queries, k, f], preserving the neighbor order of
// the index tensor. Gradients scatter-add back to the feature tensor, so
// stacked layers can train through the lookup.
func GatherFeatures[B tensor.Backend](features *tensor.Tensor[float32, B], indices *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], error) {
	fShape := features.Shape()
	iShape := indices.Shape()

	if len(fShape) != 4 {
		return nil, fmt.Errorf("gather features: features must have shape [batch, groups, count, f], got %v", fShape)
	}
	if len(iShape) != 4 {
		return nil, fmt.Errorf("gather features: indices must have shape [batch, groups, queries, k], got %v", iShape)
	}
	if fShape[0] != iShape[0] || fShape[1] != iShape[1] {
		return nil, fmt.Errorf("gather features: batch/group mismatch: features %v vs indices %v", fShape, iShape)
	}

	batch, groups := fShape[0], fShape[1]
	numQueries, k := iShape[2], iShape[3]
	f := fShape[3]

	// Index every (query, neighbor) pair along the point axis, repeating
	// the index across the feature axis.
	idx := indices.Reshape(batch, groups, numQueries*k).
		Unsqueeze(3).
		Expand(tensor.Shape{batch, groups, numQueries * k, f})

	gathered := features.Gather(2, idx)
	return gathered.Reshape(batch, groups, numQueries, k, f), nil
}
