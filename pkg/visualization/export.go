// Package visualization renders coordinated MPR views to image files and
// exports full slice sequences along an axis.
package visualization

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"mprview/pkg/mpr"
	"mprview/pkg/volume"
)

// Exporter renders views of one coordinated session to disk.
type Exporter struct {
	vol   *volume.Volume
	coord *mpr.CrosshairCoordinator

	// upscaleWidth, when > 0, resamples exported images to this width
	// preserving the aspect ratio.
	upscaleWidth int

	// jpegQuality controls JPEG encoding (1-100).
	jpegQuality int
}

// NewExporter creates an exporter for a loaded volume and its coordinator.
func NewExporter(vol *volume.Volume, coord *mpr.CrosshairCoordinator) *Exporter {
	return &Exporter{
		vol:         vol,
		coord:       coord,
		jpegQuality: 90,
	}
}

// SetUpscaleWidth enables output resampling to the given width.
func (e *Exporter) SetUpscaleWidth(w int) { e.upscaleWidth = w }

// SetJPEGQuality sets the JPEG encoding quality.
func (e *Exporter) SetJPEGQuality(q int) { e.jpegQuality = q }

// Render extracts the image a view currently shows, using the coordinator's
// state for slice index or oblique plane parameters.
func (e *Exporter) Render(view mpr.View) *image.Gray {
	params := e.coord.ViewParams(view)
	if view == mpr.Oblique {
		return mpr.ExtractOblique(e.vol, params.RotXDeg, params.RotYDeg, params.DepthOffset)
	}
	return mpr.ExtractOrthogonal(e.vol, view, params.Index)
}

// SaveView renders a view and writes it to path. The encoding is chosen from
// the file extension.
func (e *Exporter) SaveView(view mpr.View, path string) error {
	return e.save(e.Render(view), path)
}

// SaveSliceSequence extracts and saves every slice of an orthogonal view
// into dir, one file per index, named the way slice sequences are consumed
// downstream: slice_<view>_<index>.<format>.
func (e *Exporter) SaveSliceSequence(view mpr.View, dir, format string) error {
	if view == mpr.Oblique {
		return fmt.Errorf("slice sequences are only defined for orthogonal views, got %s", view)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	length := e.coord.AxisLength(view)
	for pos := 0; pos < length; pos++ {
		img := mpr.ExtractOrthogonal(e.vol, view, pos)
		name := fmt.Sprintf("slice_%s_%03d.%s", view, pos, format)
		if err := e.save(img, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) save(img image.Image, path string) error {
	if e.upscaleWidth > 0 {
		img = imaging.Resize(img, e.upscaleWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(e.jpegQuality)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
