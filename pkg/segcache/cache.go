// Package segcache is a content-hash-keyed disk cache for derived artifacts:
// merged binary volumes and per-structure surface mesh blobs. A cache key is
// computed from the source file paths and their modification times, so
// editing any source invalidates the entry. The protocol is
// existence-check-then-load, else generate-then-store; there is no eviction
// beyond manual clearing.
package segcache

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"mprview/pkg/volume"
)

// Cache stores artifacts as flat files under a single root directory.
type Cache struct {
	root string
}

// New opens (creating if needed) a cache rooted at dir.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{root: dir}, nil
}

// Key derives the cache key for a set of source files: the hex SHA-256 of
// the sorted paths and their modification times. Order of paths does not
// matter; touching any file changes the key.
func Key(paths []string) (string, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	h := sha256.New()
	for _, p := range sorted {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("failed to stat source %s: %w", p, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", p, info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// volumeMeta is the YAML sidecar stored next to each cached volume.
type volumeMeta struct {
	Nx           int     `yaml:"nx"`
	Ny           int     `yaml:"ny"`
	Nz           int     `yaml:"nz"`
	SpacingX     float64 `yaml:"spacingX"`
	SpacingY     float64 `yaml:"spacingY"`
	SpacingZ     float64 `yaml:"spacingZ"`
	IntensityMin float64 `yaml:"intensityMin"`
	IntensityMax float64 `yaml:"intensityMax"`
}

func (c *Cache) volumePath(key string) string {
	return filepath.Join(c.root, key+".vol.bin")
}

func (c *Cache) volumeMetaPath(key string) string {
	return filepath.Join(c.root, key+".vol.yaml")
}

func (c *Cache) meshPath(key, name string) string {
	return filepath.Join(c.root, fmt.Sprintf("%s.mesh.%s.bin", key, name))
}

// validMeshName rejects structure names that would escape the cache root
// once interpolated into a filename.
func validMeshName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`)
}

// HasVolume reports whether a merged volume is cached under key.
func (c *Cache) HasVolume(key string) bool {
	if _, err := os.Stat(c.volumePath(key)); err != nil {
		return false
	}
	_, err := os.Stat(c.volumeMetaPath(key))
	return err == nil
}

// StoreVolume writes a volume as little-endian float64 voxels plus a YAML
// sidecar carrying dimensions, spacing and intensity window.
func (c *Cache) StoreVolume(key string, vol *volume.Volume) error {
	if vol == nil {
		return fmt.Errorf("cannot cache a nil volume")
	}

	f, err := os.Create(c.volumePath(key))
	if err != nil {
		return fmt.Errorf("failed to create volume file: %w", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, vol.Data()); err != nil {
		return fmt.Errorf("failed to write voxel data: %w", err)
	}

	nx, ny, nz := vol.Dims()
	meta := volumeMeta{
		Nx:           nx,
		Ny:           ny,
		Nz:           nz,
		SpacingX:     vol.Spacing(0),
		SpacingY:     vol.Spacing(1),
		SpacingZ:     vol.Spacing(2),
		IntensityMin: vol.IntensityMin(),
		IntensityMax: vol.IntensityMax(),
	}
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("failed to marshal volume metadata: %w", err)
	}
	if err := os.WriteFile(c.volumeMetaPath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write volume metadata: %w", err)
	}
	return nil
}

// LoadVolume reads a cached volume back.
func (c *Cache) LoadVolume(key string) (*volume.Volume, error) {
	metaRaw, err := os.ReadFile(c.volumeMetaPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read volume metadata: %w", err)
	}
	var meta volumeMeta
	if err := yaml.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse volume metadata: %w", err)
	}
	if meta.Nx <= 0 || meta.Ny <= 0 || meta.Nz <= 0 {
		return nil, fmt.Errorf("corrupt volume metadata: dimensions %dx%dx%d", meta.Nx, meta.Ny, meta.Nz)
	}

	f, err := os.Open(c.volumePath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open volume file: %w", err)
	}
	defer f.Close()

	// The voxel file length pins down the true element count; a sidecar that
	// disagrees with it is corrupt.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat volume file: %w", err)
	}
	want := int64(meta.Nx) * int64(meta.Ny) * int64(meta.Nz) * 8
	if info.Size() != want {
		return nil, fmt.Errorf("corrupt volume entry: %d bytes on disk, metadata says %d", info.Size(), want)
	}

	data := make([]float64, meta.Nx*meta.Ny*meta.Nz)
	if err := binary.Read(f, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to read voxel data: %w", err)
	}

	affine := mat.NewDense(4, 4, []float64{
		meta.SpacingX, 0, 0, 0,
		0, meta.SpacingY, 0, 0,
		0, 0, meta.SpacingZ, 0,
		0, 0, 0, 1,
	})
	return volume.New(data, meta.Nx, meta.Ny, meta.Nz, affine, meta.IntensityMin, meta.IntensityMax)
}

// HasMesh reports whether the named per-structure mesh is cached under key.
func (c *Cache) HasMesh(key, name string) bool {
	if !validMeshName(name) {
		return false
	}
	_, err := os.Stat(c.meshPath(key, name))
	return err == nil
}

// StoreMesh writes an opaque mesh blob for one structure.
func (c *Cache) StoreMesh(key, name string, blob []byte) error {
	if !validMeshName(name) {
		return fmt.Errorf("invalid mesh structure name %q", name)
	}
	if err := os.WriteFile(c.meshPath(key, name), blob, 0644); err != nil {
		return fmt.Errorf("failed to write mesh blob: %w", err)
	}
	return nil
}

// LoadMesh reads a cached mesh blob back.
func (c *Cache) LoadMesh(key, name string) ([]byte, error) {
	if !validMeshName(name) {
		return nil, fmt.Errorf("invalid mesh structure name %q", name)
	}
	blob, err := os.ReadFile(c.meshPath(key, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh blob: %w", err)
	}
	return blob, nil
}

// Clear removes every cached artifact, keeping the root directory.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry %s: %w", e.Name(), err)
		}
	}
	return nil
}
