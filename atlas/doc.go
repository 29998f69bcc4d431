/*
Package atlas renders reachability verdicts into a fixed atlas of 64 grey
PNG tiles, each 8192×8192 pixels, arranged in 8 columns and 8 rows.

An address a.b.c.d maps to tile a/32 + 8·(c/32) (counting from 0, but
stored as "map1.png" to "map64.png"), at pixel x=(a%32)·256+b and
y=(c%32)·256+d inside that tile. When all tiles get stitched into a single
65536×65536 image, an address thus sits at X=a·256+b, Y=c·256+d; [Locate],
[AddressAt] and [AddressAtCoord] convert between both worlds.

Reachable addresses are white (255), unreachable ones black (0), and
addresses never probed keep the dark grey background (18).

Tiles are kept in a [Store], such as a [DirStore] directory of PNG files or
a [MemStore]. An [Atlas] loads the tiles needed, accepts pixel writes
concurrently from many workers (as long as no two workers write the same
address), and saves all loaded tiles back. Loading and saving each run on
their own bounded pools.
*/
package atlas
