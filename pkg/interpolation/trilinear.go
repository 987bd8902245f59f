// Package interpolation implements the resampling primitives used when
// cutting 2D slices out of a 3D scalar grid: trilinear interpolation at
// fractional voxel coordinates and linear row resampling for aspect-ratio
// correction.
package interpolation

import "math"

// Trilinear samples a 3D grid at the fractional coordinate (x, y, z) by
// blending the eight surrounding voxels. The grid is laid out X-fastest:
// data[x + y*nx + z*nx*ny]. Neighbors outside the grid contribute fill, so
// a sample point fully outside the volume returns fill exactly and points
// near the boundary blend smoothly into it.
func Trilinear(data []float64, nx, ny, nz int, x, y, z, fill float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	z0 := int(math.Floor(z))

	fx := x - float64(x0)
	fy := y - float64(y0)
	fz := z - float64(z0)

	at := func(xi, yi, zi int) float64 {
		if xi < 0 || xi >= nx || yi < 0 || yi >= ny || zi < 0 || zi >= nz {
			return fill
		}
		return data[xi+yi*nx+zi*nx*ny]
	}

	c000 := at(x0, y0, z0)
	c100 := at(x0+1, y0, z0)
	c010 := at(x0, y0+1, z0)
	c110 := at(x0+1, y0+1, z0)
	c001 := at(x0, y0, z0+1)
	c101 := at(x0+1, y0, z0+1)
	c011 := at(x0, y0+1, z0+1)
	c111 := at(x0+1, y0+1, z0+1)

	c00 := c000*(1-fx) + c100*fx
	c10 := c010*(1-fx) + c110*fx
	c01 := c001*(1-fx) + c101*fx
	c11 := c011*(1-fx) + c111*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}

// Linear samples a row-major 2D grid at a fractional row coordinate and an
// integer column, blending the two surrounding rows. Rows outside the grid
// contribute fill.
func Linear(data []float64, w, h int, row float64, col int, fill float64) float64 {
	r0 := int(math.Floor(row))
	fr := row - float64(r0)

	at := func(ri int) float64 {
		if ri < 0 || ri >= h || col < 0 || col >= w {
			return fill
		}
		return data[ri*w+col]
	}

	return at(r0)*(1-fr) + at(r0+1)*fr
}

// ResampleRows stretches or compresses a row-major 2D grid to newH rows by
// linear interpolation along the row axis, keeping the column count. The new
// row coordinates are spaced evenly over [0, h-1], so the first and last
// rows are preserved exactly.
func ResampleRows(data []float64, w, h, newH int, fill float64) []float64 {
	if newH <= 0 || w <= 0 || h <= 0 {
		return nil
	}

	out := make([]float64, w*newH)
	for i := 0; i < newH; i++ {
		row := 0.0
		if newH > 1 {
			row = float64(i) * float64(h-1) / float64(newH-1)
		}
		for j := 0; j < w; j++ {
			out[i*w+j] = Linear(data, w, h, row, j, fill)
		}
	}
	return out
}
