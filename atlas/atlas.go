// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"sort"
	"sync/atomic"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/thediveo/lxkns/log"
	"golang.org/x/sync/errgroup"
)

// ErrNotLoaded signals writing a pixel into a tile that hasn't been loaded.
var ErrNotLoaded = errors.New("tile not loaded")

// Atlas is the set of tiles loaded from a [Store] for rendering.
//
// Loading tiles must be finished before writing pixels: pixel writes from
// many goroutines are then safe as long as no two goroutines write the same
// address.
type Atlas struct {
	store  Store
	tiles  [Tiles]*image.Gray
	loaded atomic.Uint64 // tiles loaded by the current or latest Load.
	saved  atomic.Uint64 // tiles saved by the current or latest Save or Reset.
}

// New returns a new Atlas without any tiles loaded yet.
func New(store Store) *Atlas {
	return &Atlas{store: store}
}

// Store returns the store backing the atlas.
func (a *Atlas) Store() Store { return a.store }

// Loaded returns the numbers of the tiles currently loaded.
func (a *Atlas) Loaded() []int {
	tiles := []int{}
	for tile, img := range a.tiles {
		if img != nil {
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

// LoadProgress returns the number of tiles loaded so far by the current or
// latest Load.
func (a *Atlas) LoadProgress() uint64 { return a.loaded.Load() }

// SaveProgress returns the number of tiles saved so far by the current or
// latest Save or Reset.
func (a *Atlas) SaveProgress() uint64 { return a.saved.Load() }

// Load the specified tiles using at most the specified number of concurrent
// workers. Tiles missing from the store start out with the background color.
// Tiles already loaded are skipped.
func (a *Atlas) Load(ctx context.Context, tiles []int, workers int) error {
	tiles = unique(tiles)
	for _, tile := range tiles {
		if tile < 0 || tile >= Tiles {
			return fmt.Errorf("tile %d outside [0, %d): %w", tile, Tiles, ipv4.ErrValue)
		}
	}
	a.loaded.Store(0)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, tile := range tiles {
		tile := tile
		if a.tiles[tile] != nil {
			a.loaded.Add(1)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := a.store.Load(tile)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				log.Debugf("tile %s missing, starting from background", TileName(tile))
				img = NewTile(Background)
			case err != nil:
				return fmt.Errorf("cannot load tile %s: %w", TileName(tile), err)
			}
			a.tiles[tile] = img
			a.loaded.Add(1)
			return nil
		})
	}
	return g.Wait()
}

// WritePixel sets the pixel of the specified address according to its
// reachability. The tile the address maps to must have been loaded.
func (a *Atlas) WritePixel(addr ipv4.Address, reachable bool) error {
	pos := Locate(addr)
	img := a.tiles[pos.Tile]
	if img == nil {
		return fmt.Errorf("cannot render %s into %s: %w", addr, TileName(pos.Tile), ErrNotLoaded)
	}
	value := Unreachable
	if reachable {
		value = Reachable
	}
	img.Pix[pos.Y*img.Stride+pos.X] = value
	return nil
}

// Pixel returns the pixel value of the specified address, or false if its
// tile hasn't been loaded.
func (a *Atlas) Pixel(addr ipv4.Address) (uint8, bool) {
	pos := Locate(addr)
	img := a.tiles[pos.Tile]
	if img == nil {
		return 0, false
	}
	return img.Pix[pos.Y*img.Stride+pos.X], true
}

// Save all loaded tiles using at most the specified number of concurrent
// workers.
func (a *Atlas) Save(ctx context.Context, workers int) error {
	a.saved.Store(0)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, tile := range a.Loaded() {
		tile := tile
		img := a.tiles[tile]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.store.Save(tile, img); err != nil {
				return fmt.Errorf("cannot save tile %s: %w", TileName(tile), err)
			}
			a.saved.Add(1)
			return nil
		})
	}
	return g.Wait()
}

// Reset overwrites all tiles in the store with fresh background tiles, using
// at most the specified number of concurrent workers. Loaded tiles are
// dropped.
func (a *Atlas) Reset(ctx context.Context, workers int) error {
	a.saved.Store(0)
	a.tiles = [Tiles]*image.Gray{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for tile := 0; tile < Tiles; tile++ {
		tile := tile
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.store.Save(tile, NewTile(Background)); err != nil {
				return fmt.Errorf("cannot reset tile %s: %w", TileName(tile), err)
			}
			a.saved.Add(1)
			return nil
		})
	}
	return g.Wait()
}

// Release drops all loaded tiles.
func (a *Atlas) Release() {
	a.tiles = [Tiles]*image.Gray{}
}

// unique returns the specified tile numbers sorted and without duplicates.
func unique(tiles []int) []int {
	sorted := append([]int(nil), tiles...)
	sort.Ints(sorted)
	out := make([]int, 0, len(sorted))
	for _, tile := range sorted {
		if len(out) == 0 || out[len(out)-1] != tile {
			out = append(out, tile)
		}
	}
	return out
}
