package shellnet

import (
	"fmt"
	"sort"

	"github.com/born-ml/shellnet/internal/tensor"
)

// KNN finds the k nearest points for every query position.
//
// points has shape [batch, groups, count_points, 3] and queries
// [batch, groups, count_queries, 3]; the search runs independently per
// (batch, group) pair. The result is the neighbor coordinates with shape
// [batch, groups, count_queries, k, 3] and the neighbor indices into the
// point axis with shape [batch, groups, count_queries, k].
//
// Neighbors are ordered by ascending Euclidean distance; equal distances
// are broken by the lower point index. The search is exhaustive: every
// query is compared against every point in its group.
func KNN[B tensor.Backend](points, queries *tensor.Tensor[float32, B], k int) (*tensor.Tensor[float32, B], *tensor.Tensor[int32, B], error) {
	pShape := points.Shape()
	qShape := queries.Shape()

	if len(pShape) != 4 || pShape[3] != 3 {
		return nil, nil, fmt.Errorf("knn: points must have shape [batch, groups, count, 3], got %v", pShape)
	}
	if len(qShape) != 4 || qShape[3] != 3 {
		return nil, nil, fmt.Errorf("knn: queries must have shape [batch, groups, count, 3], got %v", qShape)
	}
	if pShape[0] != qShape[0] || pShape[1] != qShape[1] {
		return nil, nil, fmt.Errorf("knn: batch/group mismatch: points %v vs queries %v", pShape, qShape)
	}

	batch, groups := pShape[0], pShape[1]
	numPoints, numQueries := pShape[2], qShape[2]

	if k <= 0 {
		return nil, nil, fmt.Errorf("knn: k must be positive, got %d", k)
	}
	if k > numPoints {
		return nil, nil, fmt.Errorf("knn: k=%d exceeds point count %d", k, numPoints)
	}

	pData := points.Data()
	qData := queries.Data()

	coordData := make([]float32, batch*groups*numQueries*k*3)
	idxData := make([]int32, batch*groups*numQueries*k)

	dists := make([]float32, numPoints)
	order := make([]int, numPoints)

	for b := 0; b < batch; b++ {
		for g := 0; g < groups; g++ {
			pBase := (b*groups + g) * numPoints * 3
			qBase := (b*groups + g) * numQueries * 3

			for m := 0; m < numQueries; m++ {
				qx := qData[qBase+m*3]
				qy := qData[qBase+m*3+1]
				qz := qData[qBase+m*3+2]

				// Squared distances order identically to Euclidean ones.
				for n := 0; n < numPoints; n++ {
					dx := qx - pData[pBase+n*3]
					dy := qy - pData[pBase+n*3+1]
					dz := qz - pData[pBase+n*3+2]
					dists[n] = dx*dx + dy*dy + dz*dz
					order[n] = n
				}

				sort.Slice(order, func(i, j int) bool {
					pi, pj := order[i], order[j]
					if dists[pi] != dists[pj] {
						return dists[pi] < dists[pj]
					}
					return pi < pj
				})

				outBase := ((b*groups+g)*numQueries + m) * k
				for r := 0; r < k; r++ {
					n := order[r]
					idxData[outBase+r] = int32(n)
					copy(coordData[(outBase+r)*3:], pData[pBase+n*3:pBase+n*3+3])
				}
			}
		}
	}

	coords, err := tensor.FromSlice[float32, B](coordData, tensor.Shape{batch, groups, numQueries, k, 3}, points.Backend())
	if err != nil {
		return nil, nil, fmt.Errorf("knn: %w", err)
	}
	indices, err := tensor.FromSlice[int32, B](idxData, tensor.Shape{batch, groups, numQueries, k}, points.Backend())
	if err != nil {
		return nil, nil, fmt.Errorf("knn: %w", err)
	}
	return coords, indices, nil
}
