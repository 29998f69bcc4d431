/*
Package types defines ipatlas' small information model shared between the
scanning, sinking and reporting stages: the reachability [Result] of a single
probed address, and the [WorkerKind] of the differently sized worker pools
making up a scan cycle.

Results are plain values. Scan workers collect them into private buffers and
hand them over only after joining, so results never need locking.
*/
package types
