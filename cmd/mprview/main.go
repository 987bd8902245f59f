package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mprview/pkg/config"
	"mprview/pkg/loader"
	"mprview/pkg/mpr"
	"mprview/pkg/segcache"
	"mprview/pkg/visualization"
	"mprview/pkg/volume"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "NIfTI file (.nii or .nii.gz) to view")
	outputDir := flag.String("output", "mprview_out", "Directory to save exported view images")
	configPath := flag.String("config", "mprview.yaml", "Path to YAML configuration file")
	cursorSpec := flag.String("cursor", "", "Normalized cursor position as S,C,A fractions (e.g. 0.5,0.5,0.5)")
	rotX := flag.Float64("rotx", 0, "Oblique rotation about the X axis in degrees")
	rotY := flag.Float64("roty", 0, "Oblique rotation about the Y axis in degrees")
	viewName := flag.String("view", "all", "View to export: axial, coronal, sagittal, oblique or all")
	sequenceView := flag.String("sequence", "", "Export every slice of this orthogonal view instead of single images")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	fmt.Println("================================")
	fmt.Println("MPRVIEW - MULTI-PLANAR RECONSTRUCTION FOR 3D MEDICAL VOLUMES")
	fmt.Println("================================")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	vol, err := loadVolume(*inputFile, cfg)
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}

	if cfg.Display.OverrideWindow {
		vol.SetWindow(cfg.Display.WindowMin, cfg.Display.WindowMax)
	}

	nx, ny, nz := vol.Dims()
	fmt.Printf("Loaded volume %dx%dx%d voxels\n", nx, ny, nz)
	fmt.Printf("Voxel spacing: %.2f x %.2f x %.2f mm\n", vol.Spacing(0), vol.Spacing(1), vol.Spacing(2))
	fmt.Printf("Intensity window: [%.1f, %.1f]\n", vol.IntensityMin(), vol.IntensityMax())

	// Build the crosshair coordinator and apply the requested view state
	coord := mpr.NewCoordinator(vol)
	if *cursorSpec != "" {
		s, c, a, err := parseCursor(*cursorSpec)
		if err != nil {
			log.Fatalf("Invalid -cursor value: %v", err)
		}
		coord.SetCursor(s, c, a)
	}
	coord.Rotate(*rotX, *rotY)

	fmt.Printf("Cursor: S=%.3f C=%.3f A=%.3f\n", coord.Cursor().S, coord.Cursor().C, coord.Cursor().A)
	fmt.Printf("Slices: axial=%d coronal=%d sagittal=%d oblique=%d\n",
		coord.SliceIndex(mpr.Axial), coord.SliceIndex(mpr.Coronal),
		coord.SliceIndex(mpr.Sagittal), coord.SliceIndex(mpr.Oblique))

	exporter := visualization.NewExporter(vol, coord)
	exporter.SetJPEGQuality(cfg.Export.JPEGQuality)
	exporter.SetUpscaleWidth(cfg.Export.UpscaleWidth)

	if *sequenceView != "" {
		view, err := mpr.ParseView(*sequenceView)
		if err != nil {
			log.Fatalf("Invalid -sequence value: %v", err)
		}
		seqDir := filepath.Join(*outputDir, view.String())
		fmt.Printf("Saving %s slice sequence to: %s\n", view, seqDir)
		if err := exporter.SaveSliceSequence(view, seqDir, cfg.Export.Format); err != nil {
			log.Fatalf("Failed to save slice sequence: %v", err)
		}
		fmt.Println("Slice sequence export completed!")
		return
	}

	views := []mpr.View{mpr.Axial, mpr.Coronal, mpr.Sagittal, mpr.Oblique}
	if *viewName != "all" {
		view, err := mpr.ParseView(*viewName)
		if err != nil {
			log.Fatalf("Invalid -view value: %v", err)
		}
		views = []mpr.View{view}
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	for _, view := range views {
		path := filepath.Join(*outputDir, fmt.Sprintf("%s.%s", view, cfg.Export.Format))
		if err := exporter.SaveView(view, path); err != nil {
			log.Fatalf("Failed to export %s view: %v", view, err)
		}
		x, y := coord.CrosshairPosition(view)
		fmt.Printf("Saved %s view to %s (crosshair at %.3f, %.3f)\n", view, path, x, y)
	}
}

// loadVolume loads the input file, going through the on-disk cache when it
// is enabled in the configuration.
func loadVolume(path string, cfg *config.Config) (*volume.Volume, error) {
	if !cfg.Cache.Enabled {
		return loader.LoadNIfTI(path)
	}

	cache, err := segcache.New(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	key, err := segcache.Key([]string{path})
	if err != nil {
		return nil, err
	}

	if cache.HasVolume(key) {
		fmt.Println("Loading volume from cache...")
		return cache.LoadVolume(key)
	}

	vol, err := loader.LoadNIfTI(path)
	if err != nil {
		return nil, err
	}
	if err := cache.StoreVolume(key, vol); err != nil {
		log.Printf("Warning: failed to cache volume: %v", err)
	}
	return vol, nil
}

// parseCursor parses "S,C,A" into three clamped fractions.
func parseCursor(spec string) (s, c, a float64, err error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected three comma-separated fractions, got %q", spec)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid fraction %q: %w", p, err)
		}
	}
	return vals[0], vals[1], vals[2], nil
}
