package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mprview/pkg/mpr"
	"mprview/pkg/volume"
)

func testVolume(t *testing.T) *volume.Volume {
	t.Helper()
	const nx, ny, nz = 6, 8, 4
	data := make([]float64, nx*ny*nz)
	for i := range data {
		data[i] = float64(i % 256)
	}
	vol, err := volume.New(data, nx, ny, nz, nil, 0, 255)
	require.NoError(t, err)
	return vol
}

func TestRenderShapes(t *testing.T) {
	vol := testVolume(t)
	coord := mpr.NewCoordinator(vol)
	e := NewExporter(vol, coord)

	axial := e.Render(mpr.Axial)
	b := axial.Bounds()
	assert.Equal(t, 6, b.Dx())
	assert.Equal(t, 8, b.Dy())

	coronal := e.Render(mpr.Coronal)
	b = coronal.Bounds()
	assert.Equal(t, 6, b.Dx())
	assert.Equal(t, 4, b.Dy())

	sagittal := e.Render(mpr.Sagittal)
	b = sagittal.Bounds()
	assert.Equal(t, 8, b.Dx())
	assert.Equal(t, 4, b.Dy())

	oblique := e.Render(mpr.Oblique)
	b = oblique.Bounds()
	assert.Equal(t, b.Dx(), b.Dy(), "oblique output is square")
}

func TestSaveView(t *testing.T) {
	vol := testVolume(t)
	coord := mpr.NewCoordinator(vol)
	e := NewExporter(vol, coord)

	path := filepath.Join(t.TempDir(), "axial.png")
	require.NoError(t, e.SaveView(mpr.Axial, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveViewUpscaled(t *testing.T) {
	vol := testVolume(t)
	coord := mpr.NewCoordinator(vol)
	e := NewExporter(vol, coord)
	e.SetUpscaleWidth(24)

	path := filepath.Join(t.TempDir(), "axial.jpg")
	require.NoError(t, e.SaveView(mpr.Axial, path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSaveSliceSequence(t *testing.T) {
	vol := testVolume(t)
	coord := mpr.NewCoordinator(vol)
	e := NewExporter(vol, coord)

	dir := filepath.Join(t.TempDir(), "seq", "axial")
	require.NoError(t, e.SaveSliceSequence(mpr.Axial, dir, "png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "one file per axial slice")
	assert.Equal(t, "slice_axial_000.png", entries[0].Name())
}

func TestSaveSliceSequenceObliqueRejected(t *testing.T) {
	vol := testVolume(t)
	coord := mpr.NewCoordinator(vol)
	e := NewExporter(vol, coord)

	err := e.SaveSliceSequence(mpr.Oblique, t.TempDir(), "png")
	assert.Error(t, err)
}
