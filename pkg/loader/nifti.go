// Package loader ingests NIfTI files into display-ready volumes: voxel data,
// spacing affine, and an automatic intensity window estimated from the
// foreground voxel distribution.
package loader

import (
	"fmt"
	"sort"

	"github.com/henghuang/nifti"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"mprview/pkg/volume"
)

// parseImage consumes panics emitted by the nifti library, which are
// inappropriate and must be captured in order to turn them into recoverable
// errors.
func parseImage(path string) (img nifti.Nifti1Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("failed to parse nifti file %s: %v", path, panicErr)
		}
	}()

	img.LoadImage(path, true)

	return
}

// parseHeader consumes panics from the nifti header reader the same way.
func parseHeader(path string) (header nifti.Nifti1Header, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("failed to parse nifti header %s: %v", path, panicErr)
		}
	}()

	header.LoadHeader(path)

	return
}

// LoadNIfTI reads a .nii or .nii.gz file and assembles a Volume. Only the
// first time point of 4D series is used.
func LoadNIfTI(path string) (*volume.Volume, error) {
	img, err := parseImage(path)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(path)
	if err != nil {
		return nil, err
	}

	dims := img.GetDims()
	nx, ny, nz := dims[0], dims[1], dims[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("nifti file %s has no 3D voxel data (dims %dx%dx%d)", path, nx, ny, nz)
	}

	// Copy into our X-fastest layout. The X axis is flipped here: NIfTI
	// volumes come in mirrored left/right relative to the display
	// convention (the heart would appear on the right side of the scan).
	data := make([]float64, nx*ny*nz)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data[(nx-1-x)+y*nx+z*nx*ny] = float64(img.GetAt(x, y, z, 0))
			}
		}
	}

	sx := float64(header.Pixdim[1])
	sy := float64(header.Pixdim[2])
	sz := float64(header.Pixdim[3])

	return assemble(data, nx, ny, nz, sx, sy, sz)
}

// FromGrid assembles a Volume from an already-decoded voxel grid, applying
// the same X flip and window estimation as LoadNIfTI. The grid is X-fastest
// with axes (X=sagittal, Y=coronal, Z=axial) and is not retained.
func FromGrid(data []float64, nx, ny, nz int, sx, sy, sz float64) (*volume.Volume, error) {
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("grid length %d does not match dimensions %dx%dx%d", len(data), nx, ny, nz)
	}
	flipped := make([]float64, len(data))
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				flipped[(nx-1-x)+y*nx+z*nx*ny] = data[x+y*nx+z*nx*ny]
			}
		}
	}
	return assemble(flipped, nx, ny, nz, sx, sy, sz)
}

func assemble(data []float64, nx, ny, nz int, sx, sy, sz float64) (*volume.Volume, error) {
	affine := mat.NewDense(4, 4, []float64{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	})

	intensityMin, intensityMax := ForegroundWindow(data)
	return volume.New(data, nx, ny, nz, affine, intensityMin, intensityMax)
}

// ForegroundWindow estimates a display window from the 1st and 99th
// percentiles of the foreground voxels (values above the global minimum).
// Air/background dominates medical volumes, so windowing on the full range
// would wash out the anatomy. Falls back to the full value range when there
// is no foreground.
func ForegroundWindow(data []float64) (intensityMin, intensityMax float64) {
	if len(data) == 0 {
		return 0, 1
	}

	globalMin, globalMax := data[0], data[0]
	for _, v := range data {
		if v < globalMin {
			globalMin = v
		}
		if v > globalMax {
			globalMax = v
		}
	}

	foreground := make([]float64, 0, len(data))
	for _, v := range data {
		if v > globalMin {
			foreground = append(foreground, v)
		}
	}
	if len(foreground) == 0 {
		return globalMin, globalMax
	}

	sort.Float64s(foreground)
	intensityMin = stat.Quantile(0.01, stat.Empirical, foreground, nil)
	intensityMax = stat.Quantile(0.99, stat.Empirical, foreground, nil)
	return intensityMin, intensityMax
}
