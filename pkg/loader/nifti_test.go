package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMissingFile verifies the nifti library's panics are recovered into
// errors instead of crashing the caller
func TestLoadMissingFile(t *testing.T) {
	vol, err := LoadNIfTI(filepath.Join(t.TempDir(), "missing.nii.gz"))
	assert.Error(t, err)
	assert.Nil(t, vol)
}

func TestLoadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.nii")
	require.NoError(t, os.WriteFile(path, []byte("not a nifti file"), 0644))

	vol, err := LoadNIfTI(path)
	assert.Error(t, err)
	assert.Nil(t, vol)
}

// TestFromGridFlipsX verifies the left/right mirroring fix: the voxel at
// x=0 in the source grid ends up at x=nx-1 in the volume
func TestFromGridFlipsX(t *testing.T) {
	// 2x2x2 grid, value = original x index.
	data := []float64{0, 1, 0, 1, 0, 1, 0, 1}
	vol, err := FromGrid(data, 2, 2, 2, 1, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, vol.At(0, 0, 0), "source x=1 must land at volume x=0")
	assert.Equal(t, 0.0, vol.At(1, 0, 0), "source x=0 must land at volume x=1")
	assert.Equal(t, 1.0, vol.At(0, 1, 1))
}

func TestFromGridDimensionMismatch(t *testing.T) {
	_, err := FromGrid(make([]float64, 7), 2, 2, 2, 1, 1, 1)
	assert.Error(t, err)
}

// TestFromGridSpacing verifies the diagonal affine built from pixdims
func TestFromGridSpacing(t *testing.T) {
	vol, err := FromGrid(make([]float64, 8), 2, 2, 2, 0.7, 0.7, 2.5)
	require.NoError(t, err)

	assert.Equal(t, 0.7, vol.Spacing(0))
	assert.Equal(t, 0.7, vol.Spacing(1))
	assert.Equal(t, 2.5, vol.Spacing(2))
}

// TestForegroundWindow verifies the percentile window ignores background
func TestForegroundWindow(t *testing.T) {
	// Mostly background zeros with a foreground ramp 1..100.
	data := make([]float64, 0, 1100)
	for i := 0; i < 1000; i++ {
		data = append(data, 0)
	}
	for i := 1; i <= 100; i++ {
		data = append(data, float64(i))
	}

	min, max := ForegroundWindow(data)

	// The window is computed over the 100 foreground values only, so it
	// hugs the ramp instead of collapsing toward the background.
	assert.InDelta(t, 1, min, 2)
	assert.InDelta(t, 100, max, 2)
}

// TestForegroundWindowFlat verifies the fallback for constant volumes
func TestForegroundWindowFlat(t *testing.T) {
	data := []float64{5, 5, 5, 5}
	min, max := ForegroundWindow(data)
	assert.Equal(t, 5.0, min)
	assert.Equal(t, 5.0, max)
}

func TestForegroundWindowEmpty(t *testing.T) {
	min, max := ForegroundWindow(nil)
	assert.Less(t, min, max)
}

// TestFromGridWindow verifies the assembled volume carries the estimated window
func TestFromGridWindow(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i % 200)
	}
	vol, err := FromGrid(data, 10, 10, 10, 1, 1, 1)
	require.NoError(t, err)

	assert.Greater(t, vol.IntensityMax(), vol.IntensityMin())
	assert.GreaterOrEqual(t, vol.IntensityMin(), 0.0)
	assert.LessOrEqual(t, vol.IntensityMax(), 199.0)
}
