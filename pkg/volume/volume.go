// Package volume holds the loaded 3D scalar volume: voxel data, the affine
// transform mapping voxel indices to physical millimeters, and the display
// intensity window. A Volume is built once per load and replaced wholesale
// on reload or crop; it is never mutated voxel-by-voxel.
package volume

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"mprview/pkg/geometry"
	"mprview/pkg/interpolation"
)

// Volume is a 3D scalar array with axes ordered (X=sagittal, Y=coronal,
// Z=axial), laid out X-fastest in memory.
type Volume struct {
	data       []float64
	nx, ny, nz int

	// affine maps voxel index to physical coordinate. In the common case it
	// is a diagonal scale plus translation; only the diagonal spacings are
	// consumed by the slicing core.
	affine *mat.Dense

	intensityMin float64
	intensityMax float64

	// minValue is the global minimum, used as the fill value for samples
	// outside the volume.
	minValue float64
}

// New builds a Volume from an X-fastest voxel array. The affine must be 4x4;
// pass nil for an identity transform (1mm isotropic voxels).
func New(data []float64, nx, ny, nz int, affine *mat.Dense, intensityMin, intensityMax float64) (*Volume, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("invalid volume dimensions %dx%dx%d", nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("volume data length %d does not match dimensions %dx%dx%d", len(data), nx, ny, nz)
	}
	if affine == nil {
		affine = mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		})
	}
	if r, c := affine.Dims(); r != 4 || c != 4 {
		return nil, fmt.Errorf("affine must be 4x4, got %dx%d", r, c)
	}

	minValue := data[0]
	for _, v := range data {
		if v < minValue {
			minValue = v
		}
	}

	return &Volume{
		data:         data,
		nx:           nx,
		ny:           ny,
		nz:           nz,
		affine:       affine,
		intensityMin: intensityMin,
		intensityMax: intensityMax,
		minValue:     minValue,
	}, nil
}

// Dims returns the voxel counts along the sagittal, coronal and axial axes.
func (v *Volume) Dims() (nx, ny, nz int) {
	return v.nx, v.ny, v.nz
}

// At returns the voxel value at integer coordinates. Coordinates are assumed
// in range; callers clamp indices before use.
func (v *Volume) At(x, y, z int) float64 {
	return v.data[x+y*v.nx+z*v.nx*v.ny]
}

// Sample resamples the volume at a fractional voxel coordinate using
// trilinear interpolation, filling out-of-bounds contributions with the
// volume minimum.
func (v *Volume) Sample(x, y, z float64) float64 {
	return interpolation.Trilinear(v.data, v.nx, v.ny, v.nz, x, y, z, v.minValue)
}

// Data exposes the raw voxel array for serialization. Callers must treat it
// as read-only.
func (v *Volume) Data() []float64 {
	return v.data
}

// Affine returns the voxel-to-physical transform.
func (v *Volume) Affine() *mat.Dense {
	return v.affine
}

// Spacing returns the physical voxel spacing along the given axis
// (0=sagittal, 1=coronal, 2=axial), read from the affine diagonal.
func (v *Volume) Spacing(axis int) float64 {
	return v.affine.At(axis, axis)
}

// IntensityMin returns the lower bound of the display window.
func (v *Volume) IntensityMin() float64 { return v.intensityMin }

// IntensityMax returns the upper bound of the display window.
func (v *Volume) IntensityMax() float64 { return v.intensityMax }

// SetWindow overrides the display intensity window. The window is display
// state, not voxel data, so adjusting it does not violate the
// immutable-per-load contract.
func (v *Volume) SetWindow(min, max float64) {
	v.intensityMin = min
	v.intensityMax = max
}

// MinValue returns the global minimum voxel value.
func (v *Volume) MinValue() float64 { return v.minValue }

// Center returns the volume center in voxel space, the fixed origin of the
// oblique cutting plane.
func (v *Volume) Center() geometry.Vec3 {
	return geometry.Vec3{float64(v.nx) / 2, float64(v.ny) / 2, float64(v.nz) / 2}
}

// DiagonalDim returns the truncated length of the volume diagonal in voxels.
// An oblique slice of this side length covers the volume at any rotation.
func (v *Volume) DiagonalDim() int {
	diag := math.Sqrt(float64(v.nx*v.nx + v.ny*v.ny + v.nz*v.nz))
	return int(diag)
}
