package checkpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shellnet/internal/backend/cpu"
	"github.com/born-ml/shellnet/internal/checkpoint"
	"github.com/born-ml/shellnet/internal/shellnet"
	"github.com/born-ml/shellnet/internal/tensor"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "layer.shnt")

	sc, err := shellnet.NewShellConv(shellnet.ShellConvConfig{
		OutFeatures: 16,
		Neighbor:    8,
		Division:    2,
		WithNorm:    true,
	}, backend)
	require.NoError(t, err)

	saved := sc.StateDict()
	require.NoError(t, checkpoint.Save(path, saved, map[string]string{"step": "100"}))

	loaded, metadata, err := checkpoint.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "100", metadata["step"])
	require.Len(t, loaded, len(saved))
	for name, raw := range saved {
		got, ok := loaded[name]
		require.True(t, ok, "missing tensor %s", name)
		assert.Equal(t, raw.Shape(), got.Shape())
		assert.Equal(t, raw.AsFloat32(), got.AsFloat32(), "tensor %s", name)
	}

	// A fresh layer loaded from the file matches the original.
	restored, err := shellnet.NewShellConv(sc.Config(), backend)
	require.NoError(t, err)
	require.NoError(t, restored.LoadStateDict(loaded))

	points := tensor.Randn(tensor.Shape{1, 2, 20, 3}, backend)
	queries := tensor.Randn(tensor.Shape{1, 2, 5, 3}, backend)

	sc.SetTraining(false)
	restored.SetTraining(false)

	want, err := sc.Forward(points, queries, nil)
	require.NoError(t, err)
	got, err := restored.Forward(points, queries, nil)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

func TestSaveIsDeterministic(t *testing.T) {
	dir := t.TempDir()

	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)
	copy(raw.AsFloat32(), []float32{1, 2, 3, 4, 5, 6})
	stateDict := map[string]*tensor.RawTensor{"w": raw, "b": raw.Clone()}

	first := filepath.Join(dir, "a.shnt")
	second := filepath.Join(dir, "b.shnt")
	require.NoError(t, checkpoint.Save(first, stateDict, nil))
	require.NoError(t, checkpoint.Save(second, stateDict, nil))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadRejectsCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.shnt")

	raw, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float32)
	require.NoError(t, err)
	copy(raw.AsFloat32(), []float32{1, 2, 3, 4})
	require.NoError(t, checkpoint.Save(path, map[string]*tensor.RawTensor{"w": raw}, nil))

	// Flip one byte in the data section (the file tail).
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, _, err = checkpoint.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.shnt")
	require.NoError(t, os.WriteFile(path, []byte("not a checkpoint"), 0o644))

	_, _, err := checkpoint.Load(path)
	assert.Error(t, err)
}
