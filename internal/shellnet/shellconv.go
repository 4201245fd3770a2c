package shellnet

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/nn"
	"github.com/born-ml/shellnet/internal/tensor"
)

// ShellConvConfig configures a ShellConv layer.
type ShellConvConfig struct {
	// OutFeatures is the output feature count per query point.
	OutFeatures int
	// PrevFeatures is the feature count of the previous layer's point
	// features, or 0 when the layer consumes coordinates only.
	PrevFeatures int
	// Neighbor is the number of nearest neighbors gathered per query.
	Neighbor int
	// Division is the number of concentric shells the neighbors are
	// split into. Must divide Neighbor evenly.
	Division int
	// WithNorm enables batch normalization inside the layer.
	WithNorm bool
}

// ShellConv is a point-cloud convolution layer.
//
// For every query point it gathers the Neighbor nearest points, lifts
// their local offsets to 64-dimensional features, optionally concatenates
// features carried over from a previous layer, max-pools the neighbors
// into Division distance-ordered shells, and projects the pooled shells
// to OutFeatures output channels.
type ShellConv[B tensor.Backend] struct {
	cfg        ShellConvConfig
	shellSize  int
	inChannels int

	lift *Lift[B]
	norm *nn.BatchNorm[B]
	proj *nn.Linear[B]

	backend B
}

// NewShellConv creates a ShellConv layer. The configuration is validated
// eagerly: feature and neighbor counts must be positive (PrevFeatures may
// be zero) and Division must divide Neighbor evenly, so that every shell
// pools the same number of neighbors.
func NewShellConv[B tensor.Backend](cfg ShellConvConfig, backend B) (*ShellConv[B], error) {
	if cfg.OutFeatures <= 0 {
		return nil, fmt.Errorf("shellconv: out features must be positive, got %d", cfg.OutFeatures)
	}
	if cfg.PrevFeatures < 0 {
		return nil, fmt.Errorf("shellconv: prev features must be non-negative, got %d", cfg.PrevFeatures)
	}
	if cfg.Neighbor <= 0 {
		return nil, fmt.Errorf("shellconv: neighbor count must be positive, got %d", cfg.Neighbor)
	}
	if cfg.Division <= 0 {
		return nil, fmt.Errorf("shellconv: division must be positive, got %d", cfg.Division)
	}
	if cfg.Neighbor%cfg.Division != 0 {
		return nil, fmt.Errorf("shellconv: neighbor count %d not divisible by division %d", cfg.Neighbor, cfg.Division)
	}

	inChannels := liftOut + cfg.PrevFeatures

	sc := &ShellConv[B]{
		cfg:        cfg,
		shellSize:  cfg.Neighbor / cfg.Division,
		inChannels: inChannels,
		lift:       NewLift[B](cfg.WithNorm, backend),
		proj:       nn.NewLinear[B](inChannels*cfg.Division, cfg.OutFeatures, backend),
		backend:    backend,
	}
	if cfg.WithNorm {
		sc.norm = nn.NewBatchNorm[B](inChannels, backend)
	}
	return sc, nil
}

// Forward runs the layer.
//
// points has shape [batch, groups, count_points, 3], queries
// [batch, groups, count_queries, 3]. prevFeatures carries per-point
// features of shape [batch, groups, count_points, PrevFeatures] from an
// earlier layer and must be nil when the layer was configured with
// PrevFeatures == 0. The output has shape
// [batch, groups, count_queries, OutFeatures].
func (sc *ShellConv[B]) Forward(points, queries, prevFeatures *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := sc.checkInputs(points, queries, prevFeatures); err != nil {
		return nil, err
	}

	coords, indices, err := KNN(points, queries, sc.cfg.Neighbor)
	if err != nil {
		return nil, err
	}

	// Local frame: offset of each neighbor from its query point.
	offsets := queries.Unsqueeze(3).Sub(coords)

	feat := sc.lift.Forward(offsets)

	if prevFeatures != nil {
		gathered, err := GatherFeatures(prevFeatures, indices)
		if err != nil {
			return nil, err
		}
		feat = tensor.Cat([]*tensor.Tensor[float32, B]{feat, gathered}, 4)
	}

	// Neighbors arrive sorted by distance, so pooling consecutive
	// windows of shellSize along the neighbor axis pools concentric
	// shells.
	pooled := feat.MaxPool1D(3, sc.shellSize, sc.shellSize)

	if sc.norm != nil {
		pooled = channelNorm(sc.norm, pooled)
	}

	// Fold the (shell, channel) axes together and project them to the
	// output channels in one dense map.
	shape := pooled.Shape()
	flat := pooled.Transpose(0, 1, 2, 4, 3).Reshape(shape[0], shape[1], shape[2], sc.inChannels*sc.cfg.Division)

	return sc.proj.Forward(flat), nil
}

// checkInputs validates input shapes before any compute happens.
func (sc *ShellConv[B]) checkInputs(points, queries, prevFeatures *tensor.Tensor[float32, B]) error {
	pShape := points.Shape()
	qShape := queries.Shape()

	if len(pShape) != 4 || pShape[3] != 3 {
		return fmt.Errorf("shellconv: points must have shape [batch, groups, count, 3], got %v", pShape)
	}
	if len(qShape) != 4 || qShape[3] != 3 {
		return fmt.Errorf("shellconv: queries must have shape [batch, groups, count, 3], got %v", qShape)
	}
	if pShape[0] != qShape[0] || pShape[1] != qShape[1] {
		return fmt.Errorf("shellconv: batch/group mismatch: points %v vs queries %v", pShape, qShape)
	}

	if sc.cfg.PrevFeatures == 0 {
		if prevFeatures != nil {
			return fmt.Errorf("shellconv: layer configured without prev features, got features of shape %v", prevFeatures.Shape())
		}
		return nil
	}

	if prevFeatures == nil {
		return fmt.Errorf("shellconv: layer configured with %d prev features, got nil", sc.cfg.PrevFeatures)
	}
	fShape := prevFeatures.Shape()
	if len(fShape) != 4 || fShape[3] != sc.cfg.PrevFeatures {
		return fmt.Errorf("shellconv: prev features must have shape [batch, groups, count, %d], got %v", sc.cfg.PrevFeatures, fShape)
	}
	if fShape[0] != pShape[0] || fShape[1] != pShape[1] || fShape[2] != pShape[2] {
		return fmt.Errorf("shellconv: prev features %v do not match points %v", fShape, pShape)
	}
	return nil
}

// SetTraining switches the layer's normalization between batch and
// running statistics. No-op without normalization.
func (sc *ShellConv[B]) SetTraining(training bool) {
	sc.lift.SetTraining(training)
	if sc.norm != nil {
		sc.norm.SetTraining(training)
	}
}

// Config returns the layer configuration.
func (sc *ShellConv[B]) Config() ShellConvConfig {
	return sc.cfg
}

// ShellSize returns the number of neighbors pooled per shell.
func (sc *ShellConv[B]) ShellSize() int {
	return sc.shellSize
}

// Parameters returns all trainable parameters.
func (sc *ShellConv[B]) Parameters() []*nn.Parameter[B] {
	params := sc.lift.Parameters()
	if sc.norm != nil {
		params = append(params, sc.norm.Parameters()...)
	}
	return append(params, sc.proj.Parameters()...)
}

// StateDict returns parameters and running statistics of the layer.
func (sc *ShellConv[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	mergeStateDict(stateDict, "lift", sc.lift.StateDict())
	mergeStateDict(stateDict, "proj", sc.proj.StateDict())
	if sc.norm != nil {
		mergeStateDict(stateDict, "norm", sc.norm.StateDict())
	}
	return stateDict
}

// LoadStateDict loads parameters and running statistics from a state
// dictionary produced by StateDict.
func (sc *ShellConv[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := sc.lift.LoadStateDict(subStateDict(stateDict, "lift")); err != nil {
		return fmt.Errorf("shellconv: %w", err)
	}
	if err := sc.proj.LoadStateDict(subStateDict(stateDict, "proj")); err != nil {
		return fmt.Errorf("shellconv: %w", err)
	}
	if sc.norm != nil {
		if err := sc.norm.LoadStateDict(subStateDict(stateDict, "norm")); err != nil {
			return fmt.Errorf("shellconv: %w", err)
		}
	}
	return nil
}
