package interpolation

import (
	"math"
	"testing"
)

const tolerance = 1e-12

// gradientGrid builds a nx*ny*nz grid whose value at (x,y,z) is
// x + 10y + 100z, which trilinear interpolation reproduces exactly.
func gradientGrid(nx, ny, nz int) []float64 {
	data := make([]float64, nx*ny*nz)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data[x+y*nx+z*nx*ny] = float64(x) + 10*float64(y) + 100*float64(z)
			}
		}
	}
	return data
}

// TestTrilinearAtVoxelCenters verifies exact values at integer coordinates
func TestTrilinearAtVoxelCenters(t *testing.T) {
	data := gradientGrid(4, 3, 2)

	cases := []struct {
		x, y, z  float64
		expected float64
	}{
		{0, 0, 0, 0},
		{3, 2, 1, 123},
		{1, 2, 0, 21},
		{2, 0, 1, 102},
	}

	for _, c := range cases {
		got := Trilinear(data, 4, 3, 2, c.x, c.y, c.z, -1)
		if math.Abs(got-c.expected) > tolerance {
			t.Errorf("Trilinear(%v, %v, %v) = %v, expected %v", c.x, c.y, c.z, got, c.expected)
		}
	}
}

// TestTrilinearLinearField verifies that a linear field is reproduced
// exactly at fractional coordinates
func TestTrilinearLinearField(t *testing.T) {
	data := gradientGrid(4, 4, 4)

	coords := [][3]float64{
		{0.5, 0.5, 0.5},
		{1.25, 2.75, 0.1},
		{2.999, 0.001, 1.5},
	}

	for _, c := range coords {
		expected := c[0] + 10*c[1] + 100*c[2]
		got := Trilinear(data, 4, 4, 4, c[0], c[1], c[2], -1)
		if math.Abs(got-expected) > 1e-9 {
			t.Errorf("Trilinear(%v) = %v, expected %v", c, got, expected)
		}
	}
}

// TestTrilinearOutOfBounds verifies the constant fill behavior
func TestTrilinearOutOfBounds(t *testing.T) {
	data := gradientGrid(3, 3, 3)
	fill := -42.0

	// Fully outside: fill exactly
	got := Trilinear(data, 3, 3, 3, -5, 1, 1, fill)
	if got != fill {
		t.Errorf("Sample far outside the grid = %v, expected fill %v", got, fill)
	}

	// Half a voxel past the edge: blend of edge value and fill
	edge := data[2] // (2,0,0) = 2
	got = Trilinear(data, 3, 3, 3, 2.5, 0, 0, fill)
	expected := 0.5*edge + 0.5*fill
	if math.Abs(got-expected) > tolerance {
		t.Errorf("Boundary blend = %v, expected %v", got, expected)
	}
}

// TestResampleRowsIdentity verifies that resampling to the same height is lossless
func TestResampleRowsIdentity(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	out := ResampleRows(data, 2, 3, 3, 0)

	for i := range data {
		if math.Abs(out[i]-data[i]) > tolerance {
			t.Errorf("Identity resample changed element %d: %v != %v", i, out[i], data[i])
		}
	}
}

// TestResampleRowsStretch verifies doubling the height of a two-row gradient
func TestResampleRows(t *testing.T) {
	// Two rows, one column: 0 and 3
	data := []float64{0, 3}
	out := ResampleRows(data, 1, 2, 4, 0)

	expected := []float64{0, 1, 2, 3}
	if len(out) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(out))
	}
	for i := range expected {
		if math.Abs(out[i]-expected[i]) > tolerance {
			t.Errorf("Row %d = %v, expected %v", i, out[i], expected[i])
		}
	}
}

// TestResampleRowsEndpoints verifies first and last rows are preserved
func TestResampleRowsEndpoints(t *testing.T) {
	data := []float64{7, 1, 9, 4, -2, 6}
	out := ResampleRows(data, 2, 3, 7, 0)

	if out[0] != 7 || out[1] != 1 {
		t.Errorf("First row not preserved: got (%v, %v)", out[0], out[1])
	}
	if out[12] != -2 || out[13] != 6 {
		t.Errorf("Last row not preserved: got (%v, %v)", out[12], out[13])
	}
}

// TestResampleRowsDegenerate verifies guards against empty output
func TestResampleRowsDegenerate(t *testing.T) {
	if out := ResampleRows([]float64{1, 2}, 2, 1, 0, 0); out != nil {
		t.Errorf("Expected nil for zero target height, got %v", out)
	}
	if out := ResampleRows(nil, 0, 0, 5, 0); out != nil {
		t.Errorf("Expected nil for empty input, got %v", out)
	}
}
