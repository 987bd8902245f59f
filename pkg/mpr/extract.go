package mpr

import (
	"image"
	"math"

	"mprview/pkg/geometry"
	"mprview/pkg/interpolation"
	"mprview/pkg/volume"
)

// placeholderSize is the side of the all-zero image returned when no volume
// is loaded, so the view layer never has to special-case the empty state.
const placeholderSize = 10

func placeholderImage() *image.Gray {
	return image.NewGray(image.Rect(0, 0, placeholderSize, placeholderSize))
}

// ExtractOrthogonal cuts the slice at the given index along the view's depth
// axis and returns it as an aspect-corrected, intensity-windowed 8-bit
// grayscale image. Indices outside the axis range are clamped. Oblique is
// not an orthogonal view; asking for it yields the placeholder.
func ExtractOrthogonal(vol *volume.Volume, view View, index int) *image.Gray {
	if vol == nil {
		return placeholderImage()
	}
	axes, ok := orthoAxes[view]
	if !ok {
		return placeholderImage()
	}

	dims := [3]int{}
	dims[0], dims[1], dims[2] = vol.Dims()

	depth := dims[axes.depthAxis]
	index = clampInt(index, 0, depth-1)

	w := dims[axes.colAxis]
	h := dims[axes.rowAxis]
	if w <= 0 || h <= 0 {
		return placeholderImage()
	}

	// Materialize the plane in display orientation.
	data := make([]float64, w*h)
	coord := [3]int{}
	coord[axes.depthAxis] = index
	for i := 0; i < h; i++ {
		row := i
		if axes.rowInverted {
			row = h - 1 - i
		}
		coord[axes.rowAxis] = row
		for j := 0; j < w; j++ {
			coord[axes.colAxis] = j
			data[i*w+j] = vol.At(coord[0], coord[1], coord[2])
		}
	}

	data, h = correctAspect(data, w, h, vol.Spacing(axes.colAxis), vol.Spacing(axes.rowAxis), vol.MinValue())

	return windowToGray(data, w, h, vol.IntensityMin(), vol.IntensityMax())
}

// ExtractOblique resamples the volume on an arbitrary plane through the
// volume center, rotated by the two angles and shifted depthOffset voxels
// along the plane normal. The output is a square of the volume's diagonal
// side length, so the plane covers the volume at any rotation. Oblique
// pixels are treated as isotropic; no aspect correction is applied.
func ExtractOblique(vol *volume.Volume, rotXDeg, rotYDeg, depthOffset float64) *image.Gray {
	if vol == nil {
		return placeholderImage()
	}

	sliceDim := vol.DiagonalDim()
	if sliceDim <= 0 {
		return placeholderImage()
	}

	basis := geometry.BuildBasis(rotXDeg, rotYDeg)
	center := vol.Center()
	origin := center.Add(basis.W.Scale(depthOffset))
	half := float64(sliceDim) / 2

	data := make([]float64, sliceDim*sliceDim)
	for i := 0; i < sliceDim; i++ {
		y := float64(i) - half
		rowOrigin := origin.Add(basis.V.Scale(y))
		for j := 0; j < sliceDim; j++ {
			x := float64(j) - half
			p := rowOrigin.Add(basis.U.Scale(x))
			data[i*sliceDim+j] = vol.Sample(p.X(), p.Y(), p.Z())
		}
	}

	return windowToGray(data, sliceDim, sliceDim, vol.IntensityMin(), vol.IntensityMax())
}

// correctAspect resamples the row axis so the two in-plane spacings display
// in physical proportion. Skipped silently when either spacing is
// non-positive or when the spacings already agree.
func correctAspect(data []float64, w, h int, colSpacing, rowSpacing, fill float64) ([]float64, int) {
	if colSpacing <= 0 || rowSpacing <= 0 {
		return data, h
	}
	newH := int(math.Round(float64(h) * rowSpacing / colSpacing))
	if newH <= 0 || newH == h {
		return data, h
	}
	return interpolation.ResampleRows(data, w, h, newH, fill), newH
}

// windowToGray clips the slice to the intensity window and rescales it
// linearly to [0, 255]. A degenerate window (max <= min) yields an all-zero
// image of the same shape.
func windowToGray(data []float64, w, h int, intensityMin, intensityMax float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	if intensityMax <= intensityMin {
		return img
	}

	scale := 255 / (intensityMax - intensityMin)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			v := data[i*w+j]
			if v < intensityMin {
				v = intensityMin
			} else if v > intensityMax {
				v = intensityMax
			}
			img.Pix[i*img.Stride+j] = uint8(math.Round((v - intensityMin) * scale))
		}
	}
	return img
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
