// Package mpr is the multi-planar reconstruction core: it cuts display-ready
// 2D slices out of a 3D volume (orthogonal and oblique) and keeps the four
// views mutually consistent around a shared 3D crosshair cursor.
package mpr

import "fmt"

// View identifies one of the four simultaneous views.
type View int

const (
	Axial View = iota
	Coronal
	Sagittal
	Oblique
)

var viewNames = map[View]string{
	Axial:    "axial",
	Coronal:  "coronal",
	Sagittal: "sagittal",
	Oblique:  "oblique",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView converts a view name to its View value.
func ParseView(name string) (View, error) {
	for v, n := range viewNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", name)
}

// viewAxes describes how an orthogonal view maps onto the volume axes
// (0=sagittal/X, 1=coronal/Y, 2=axial/Z). depthAxis is the axis the slice
// index runs along; colAxis and rowAxis are the volume axes displayed left
// to right and top to bottom after the view's fixed rotate/flip convention.
// rowInverted marks views whose display rows run against the volume axis
// (top of the image is the high index).
type viewAxes struct {
	depthAxis   int
	colAxis     int
	rowAxis     int
	rowInverted bool
}

// orthoAxes is the single mapping table consulted by both extraction and
// coordination. The conventions reproduce the display orientation of each
// view: axial is rotated 90 degrees then flipped vertically (a transpose of
// the XY plane), coronal and sagittal are rotated 90 degrees so the axial
// axis runs down the image with Z decreasing.
var orthoAxes = map[View]viewAxes{
	Axial:    {depthAxis: 2, colAxis: 0, rowAxis: 1, rowInverted: false},
	Coronal:  {depthAxis: 1, colAxis: 0, rowAxis: 2, rowInverted: true},
	Sagittal: {depthAxis: 0, colAxis: 1, rowAxis: 2, rowInverted: true},
}
