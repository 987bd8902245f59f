// Package geometry provides the plane math used for multi-planar
// reconstruction: orthonormal bases for arbitrary cutting planes built from
// rotation angles, and point projection onto those planes.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a 3D vector in voxel space.
type Vec3 [3]float64

// X returns the first component.
func (v Vec3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vec3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vec3) Z() float64 { return v[2] }

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v multiplied by the scalar c.
func (v Vec3) Scale(c float64) Vec3 {
	return Vec3{v[0] * c, v[1] * c, v[2] * c}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Basis is an oriented orthonormal frame for a cutting plane. U and V span
// the plane, W is its normal. The three vectors are columns of a rotation
// matrix, so orthonormality is guaranteed by construction.
type Basis struct {
	U, V, W Vec3
}

// BuildBasis composes R = Ry(rotYDeg) * Rx(rotXDeg) using standard
// right-handed rotation matrices and returns the rotated frame
// (R*e1, R*e2, R*e3). Zero angles yield the identity frame, which cuts
// along the axial plane of the volume.
func BuildBasis(rotXDeg, rotYDeg float64) Basis {
	thetaX := rotXDeg * math.Pi / 180
	thetaY := rotYDeg * math.Pi / 180

	sinX, cosX := math.Sincos(thetaX)
	sinY, cosY := math.Sincos(thetaY)

	rotX := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cosX, -sinX,
		0, sinX, cosX,
	})
	rotY := mat.NewDense(3, 3, []float64{
		cosY, 0, sinY,
		0, 1, 0,
		-sinY, 0, cosY,
	})

	// Y applied after X.
	var r mat.Dense
	r.Mul(rotY, rotX)

	basis := Basis{}
	for i := 0; i < 3; i++ {
		basis.U[i] = r.At(i, 0)
		basis.V[i] = r.At(i, 1)
		basis.W[i] = r.At(i, 2)
	}
	return basis
}

// Project expresses a point relative to the plane through center with the
// given basis. The returned u and v are in-plane coordinates, depth is the
// signed distance along the plane normal. A plane shifted by depth along W
// contains the point.
func Project(point, center Vec3, b Basis) (u, v, depth float64) {
	rel := point.Sub(center)
	return rel.Dot(b.U), rel.Dot(b.V), rel.Dot(b.W)
}
