package mpr

import (
	"math"

	"mprview/pkg/geometry"
	"mprview/pkg/volume"
)

// Cursor is the canonical 3D position of the crosshair, expressed as three
// independent fractions of the sagittal, coronal and axial extents. All
// three stay clamped to [0, 1].
type Cursor struct {
	S, C, A float64
}

// ViewParams carries everything the extractor needs for one view: the slice
// index for orthogonal views, or the rotation angles plus depth offset for
// the oblique view.
type ViewParams struct {
	View View

	// Index is the slice index for orthogonal views.
	Index int

	// RotXDeg, RotYDeg and DepthOffset parameterize the oblique plane.
	RotXDeg, RotYDeg float64
	DepthOffset      float64
}

// CrosshairCoordinator owns the canonical cursor, the per-view slice
// indices, and the oblique rotation. It is constructed per loaded volume and
// driven synchronously from a single rendering thread; it performs no
// locking and no I/O.
type CrosshairCoordinator struct {
	nx, ny, nz int

	cursor  Cursor
	slices  map[View]int
	rotXDeg float64
	rotYDeg float64
}

// NewCoordinator builds a coordinator for the given volume with the cursor
// at the volume center and zero oblique rotation.
func NewCoordinator(vol *volume.Volume) *CrosshairCoordinator {
	c := &CrosshairCoordinator{slices: make(map[View]int)}
	if vol != nil {
		c.nx, c.ny, c.nz = vol.Dims()
	}
	c.Reset()
	return c
}

// Reset restores the cursor to the volume center, all slice indices to their
// middles, and the oblique rotation to zero.
func (c *CrosshairCoordinator) Reset() {
	c.cursor = Cursor{S: 0.5, C: 0.5, A: 0.5}
	c.slices[Axial] = c.nz / 2
	c.slices[Coronal] = c.ny / 2
	c.slices[Sagittal] = c.nx / 2
	c.slices[Oblique] = c.nz / 2
	c.rotXDeg = 0
	c.rotYDeg = 0
}

// Cursor returns the current normalized cursor.
func (c *CrosshairCoordinator) Cursor() Cursor {
	return c.cursor
}

// SliceIndex returns the stored slice index for a view.
func (c *CrosshairCoordinator) SliceIndex(view View) int {
	return c.slices[view]
}

// Rotation returns the oblique rotation angles in degrees.
func (c *CrosshairCoordinator) Rotation() (rotXDeg, rotYDeg float64) {
	return c.rotXDeg, c.rotYDeg
}

// Rotate applies a rotation-drag delta additively to the oblique angles.
func (c *CrosshairCoordinator) Rotate(deltaXDeg, deltaYDeg float64) {
	c.rotXDeg += deltaXDeg
	c.rotYDeg += deltaYDeg
}

// AxisLength returns the number of slices available to a view. The oblique
// depth index runs along the axial extent, matching scroll behavior of the
// axial view.
func (c *CrosshairCoordinator) AxisLength(view View) int {
	switch view {
	case Axial, Oblique:
		return c.nz
	case Coronal:
		return c.ny
	case Sagittal:
		return c.nx
	}
	return 0
}

// SetCursorFromClick handles a click or drag at the normalized position
// (u, v) inside one orthogonal view. It moves the cursor within the
// displayed slice and retargets the two other orthogonal views; the source
// view's own slice index is left untouched.
func (c *CrosshairCoordinator) SetCursorFromClick(source View, u, v float64) {
	u = clamp01(u)
	v = clamp01(v)

	switch source {
	case Axial:
		c.cursor.S = u
		c.cursor.C = v
		c.slices[Coronal] = roundIndex(c.cursor.C, c.ny)
		c.slices[Sagittal] = roundIndex(c.cursor.S, c.nx)
	case Coronal:
		c.cursor.S = u
		c.cursor.A = v
		c.slices[Axial] = roundIndex(1-c.cursor.A, c.nz)
		c.slices[Sagittal] = roundIndex(c.cursor.S, c.nx)
	case Sagittal:
		c.cursor.C = u
		c.cursor.A = v
		c.slices[Axial] = roundIndex(1-c.cursor.A, c.nz)
		c.slices[Coronal] = roundIndex(c.cursor.C, c.ny)
	}
}

// SetSliceFromScroll handles a jump to a specific slice index in one view,
// recomputing the single cursor fraction that index determines. The oblique
// index is a free depth parameter and leaves the cursor alone. Axes of size
// one keep their previous fraction.
func (c *CrosshairCoordinator) SetSliceFromScroll(view View, index int) {
	c.slices[view] = index

	switch view {
	case Axial:
		if c.nz > 1 {
			c.cursor.A = clamp01(1 - float64(index)/float64(c.nz-1))
		}
	case Coronal:
		if c.ny > 1 {
			c.cursor.C = clamp01(float64(index) / float64(c.ny-1))
		}
	case Sagittal:
		if c.nx > 1 {
			c.cursor.S = clamp01(float64(index) / float64(c.nx-1))
		}
	}
}

// Scroll advances a view by one slice in the given direction, wrapping
// around at the ends, and returns the new index.
func (c *CrosshairCoordinator) Scroll(view View, direction int) int {
	length := c.AxisLength(view)
	if length <= 0 {
		return c.slices[view]
	}
	index := ((c.slices[view]+direction)%length + length) % length
	c.SetSliceFromScroll(view, index)
	return index
}

// SetCursor jumps the cursor to an absolute normalized position,
// re-deriving every orthogonal slice index. Expressed as two click
// transitions so both update paths stay on the same formulas.
func (c *CrosshairCoordinator) SetCursor(s, cFrac, a float64) {
	c.SetCursorFromClick(Axial, s, cFrac)
	c.SetCursorFromClick(Coronal, s, a)
}

// CursorVoxel converts the normalized cursor to voxel coordinates. The
// axial fraction uses the inverted convention: the display axial index
// increases downward in screen space while A increases anatomically upward.
func (c *CrosshairCoordinator) CursorVoxel() geometry.Vec3 {
	return geometry.Vec3{
		c.cursor.S * float64(c.nx-1),
		c.cursor.C * float64(c.ny-1),
		(1 - c.cursor.A) * float64(c.nz-1),
	}
}

// ViewParams derives the extraction parameters for a view from the current
// state. For the oblique view the depth offset is the cursor's projected
// distance from the volume center along the plane normal, plus the free
// scroll offset; at the reset scroll position the plane passes exactly
// through the cursor.
func (c *CrosshairCoordinator) ViewParams(view View) ViewParams {
	if view != Oblique {
		return ViewParams{View: view, Index: c.slices[view]}
	}
	return ViewParams{
		View:        Oblique,
		RotXDeg:     c.rotXDeg,
		RotYDeg:     c.rotYDeg,
		DepthOffset: c.obliqueDepth(),
	}
}

// obliqueDepth projects the cursor onto the oblique plane normal. The
// projection path negates the rotation angles relative to the extraction
// path; rendered output depends on this sign convention, do not unify it.
func (c *CrosshairCoordinator) obliqueDepth() float64 {
	basis := geometry.BuildBasis(-c.rotXDeg, -c.rotYDeg)
	center := geometry.Vec3{float64(c.nx) / 2, float64(c.ny) / 2, float64(c.nz) / 2}
	_, _, depth := geometry.Project(c.CursorVoxel(), center, basis)
	return depth + float64(c.slices[Oblique]-c.nz/2)
}

// ObliqueBasis returns the basis the oblique depth projection uses, for
// overlay code that needs the in-plane cursor coordinates.
func (c *CrosshairCoordinator) ObliqueBasis() geometry.Basis {
	return geometry.BuildBasis(-c.rotXDeg, -c.rotYDeg)
}

// CrosshairPosition returns the normalized overlay position of the cursor
// within a view's image. The oblique plane is defined to contain the cursor,
// so its crosshair sits at the plane center.
func (c *CrosshairCoordinator) CrosshairPosition(view View) (x, y float64) {
	switch view {
	case Axial:
		return c.cursor.S, c.cursor.C
	case Coronal:
		return c.cursor.S, c.cursor.A
	case Sagittal:
		return c.cursor.C, c.cursor.A
	}
	return 0.5, 0.5
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// roundIndex maps a fraction of an axis extent to its nearest slice index.
func roundIndex(frac float64, length int) int {
	if length <= 1 {
		return 0
	}
	return int(math.Round(frac * float64(length-1)))
}
