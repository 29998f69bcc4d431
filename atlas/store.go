// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrTile signals a tile image of the wrong geometry.
var ErrTile = errors.New("invalid tile")

// Store keeps the tile images of an atlas. Loading a tile that has never been
// stored fails with an error wrapping [fs.ErrNotExist]. Stores must support
// concurrent loads and saves of different tiles.
type Store interface {
	Load(tile int) (*image.Gray, error)
	Save(tile int, img *image.Gray) error
}

// NewTile returns a new tile image with all pixels set to the specified grey
// value.
func NewTile(value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, TileSize, TileSize))
	if value != 0 {
		for idx := range img.Pix {
			img.Pix[idx] = value
		}
	}
	return img
}

// DirStore stores tiles as PNG files "map1.png" to "map64.png" in a directory.
type DirStore struct {
	Dir string
}

var _ Store = (*DirStore)(nil)

// Path returns the file path of the specified tile.
func (s *DirStore) Path(tile int) string {
	return filepath.Join(s.Dir, TileName(tile))
}

// Load reads and decodes the specified tile, converting it into grey if
// necessary.
func (s *DirStore) Load(tile int) (*image.Gray, error) {
	f, err := os.Open(s.Path(tile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode tile %s: %w", s.Path(tile), err)
	}
	if img.Bounds() != image.Rect(0, 0, TileSize, TileSize) {
		return nil, fmt.Errorf("tile %s has size %s: %w", s.Path(tile), img.Bounds().Size(), ErrTile)
	}
	if grey, ok := img.(*image.Gray); ok {
		return grey, nil
	}
	grey := image.NewGray(img.Bounds())
	draw.Draw(grey, grey.Bounds(), img, image.Point{}, draw.Src)
	return grey, nil
}

// Save encodes the specified tile, first into a temporary file which then
// replaces the tile file.
func (s *DirStore) Save(tile int, img *image.Gray) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.Dir, "."+TileName(tile)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op after successful rename.
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode tile %s: %w", s.Path(tile), err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.Path(tile))
}

// MemStore keeps tiles in memory; it is mainly useful for testing and
// throw-away atlases.
type MemStore struct {
	mu    sync.Mutex
	tiles map[int]*image.Gray
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns a new, empty memory store.
func NewMemStore() *MemStore {
	return &MemStore{tiles: map[int]*image.Gray{}}
}

// Load returns a copy of the specified tile.
func (s *MemStore) Load(tile int) (*image.Gray, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.tiles[tile]
	if !ok {
		return nil, fmt.Errorf("tile %s: %w", TileName(tile), fs.ErrNotExist)
	}
	return cloneTile(img), nil
}

// Save stores a copy of the specified tile.
func (s *MemStore) Save(tile int, img *image.Gray) error {
	clone := cloneTile(img)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles[tile] = clone
	return nil
}

// Len returns the number of tiles stored.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiles)
}

func cloneTile(img *image.Gray) *image.Gray {
	clone := &image.Gray{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(clone.Pix, img.Pix)
	return clone
}
