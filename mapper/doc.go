/*
Package mapper runs the scan cycles of ipatlas. A cycle works as follows:

  - the coverage of previous cycles is loaded and inverted into the
    addresses still to be scanned (or the whole address space on the very
    first cycle),
  - these addresses get probed until either done or the cycle is cancelled,
  - the atlas tiles touched by the results get loaded, the results rendered
    into them, and the tiles saved back,
  - and finally, the newly covered addresses are merged with the previous
    coverage and saved.

Each stage has its own pool of workers, sized according to the
[config.ThreadAmounts]. Stages run strictly one after another.
*/
package mapper
