// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/thediveo/lxkns/log"
)

// Stitch combines all tiles of the store into a single grey PNG image written
// to w. The image gets scaled down by the shrink factor, which must divide
// the tile size; a shrink factor of 1 results in the full 65536×65536 pixel
// atlas. Downscaling picks the top-left pixel of each shrink×shrink block.
// Tiles missing from the store render as background.
//
// Tiles are loaded one after another, so only a single tile is kept in memory
// in addition to the stitched image.
func Stitch(ctx context.Context, store Store, w io.Writer, shrink int) error {
	if shrink < 1 || TileSize%shrink != 0 {
		return fmt.Errorf("shrink factor %d doesn't divide tile size %d: %w", shrink, TileSize, ipv4.ErrValue)
	}
	side := TileSize / shrink
	out := image.NewGray(image.Rect(0, 0, Columns*side, Rows*side))
	for idx := range out.Pix {
		out.Pix[idx] = Background
	}
	for tile := 0; tile < Tiles; tile++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := store.Load(tile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugf("tile %s missing, stitching background", TileName(tile))
				continue
			}
			return fmt.Errorf("cannot stitch tile %s: %w", TileName(tile), err)
		}
		left, top := (tile%Columns)*side, (tile/Columns)*side
		for y := 0; y < side; y++ {
			src := img.Pix[y*shrink*img.Stride:]
			dst := out.Pix[(top+y)*out.Stride+left:]
			if shrink == 1 {
				copy(dst[:side], src[:side])
				continue
			}
			for x := 0; x < side; x++ {
				dst[x] = src[x*shrink]
			}
		}
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, out)
}
