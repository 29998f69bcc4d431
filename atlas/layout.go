// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package atlas

import (
	"fmt"

	"github.com/siemens/ipatlas/ipv4"
)

// Atlas geometry and pixel values.
const (
	Tiles    = Columns * Rows // number of tiles.
	Columns  = 8
	Rows     = 8
	TileSize = 8192               // width and height of a tile in pixels.
	Size     = Columns * TileSize // width and height of the stitched atlas.

	Reachable   uint8 = 255
	Unreachable uint8 = 0
	Background  uint8 = 18
)

const (
	blockSize  = 32 // first and third octet values per tile.
	octetRange = 256
)

// Position of an address inside the atlas.
type Position struct {
	Tile int // tile number, counting from 0.
	X, Y int // pixel coordinates inside the tile.
}

// Locate returns the position of the specified address in the atlas.
func Locate(addr ipv4.Address) Position {
	o := addr.Octets()
	a, b, c, d := int(o[0]), int(o[1]), int(o[2]), int(o[3])
	return Position{
		Tile: a/blockSize + Columns*(c/blockSize),
		X:    (a%blockSize)*octetRange + b,
		Y:    (c%blockSize)*octetRange + d,
	}
}

// Coord returns the coordinates of the position in the stitched atlas.
func (p Position) Coord() (x, y int) {
	return (p.Tile%Columns)*TileSize + p.X, (p.Tile/Columns)*TileSize + p.Y
}

// String returns the position in "mapN.png(x,y)" notation.
func (p Position) String() string {
	return fmt.Sprintf("%s(%d,%d)", TileName(p.Tile), p.X, p.Y)
}

// AddressAt returns the address at the specified position, failing with
// [ipv4.ErrValue] if the position lies outside the atlas.
func AddressAt(pos Position) (ipv4.Address, error) {
	if pos.Tile < 0 || pos.Tile >= Tiles {
		return ipv4.Address{}, fmt.Errorf("tile %d outside [0, %d): %w", pos.Tile, Tiles, ipv4.ErrValue)
	}
	if pos.X < 0 || pos.X >= TileSize || pos.Y < 0 || pos.Y >= TileSize {
		return ipv4.Address{}, fmt.Errorf("pixel (%d,%d) outside tile: %w", pos.X, pos.Y, ipv4.ErrValue)
	}
	x, y := pos.Coord()
	return AddressAtCoord(x, y)
}

// AddressAtCoord returns the address at the specified coordinates of the
// stitched atlas, failing with [ipv4.ErrValue] if the coordinates lie outside
// the atlas.
func AddressAtCoord(x, y int) (ipv4.Address, error) {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return ipv4.Address{}, fmt.Errorf("coordinates (%d,%d) outside [0, %d): %w", x, y, Size, ipv4.ErrValue)
	}
	return ipv4.New(x/octetRange, x%octetRange, y/octetRange, y%octetRange)
}

// TileName returns the file name of the specified tile, such as "map1.png"
// for tile 0.
func TileName(tile int) string {
	return fmt.Sprintf("map%d.png", tile+1)
}

// AllTiles returns the numbers of all tiles.
func AllTiles() []int {
	tiles := make([]int, Tiles)
	for idx := range tiles {
		tiles[idx] = idx
	}
	return tiles
}
