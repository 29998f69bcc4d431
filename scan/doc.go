/*
Package scan implements the resumable scan coordinator of ipatlas.

A [Coordinator] takes a [ipv4.Span] of addresses still to be scanned,
partitions it into as many contiguous chunks of near-equal length as it has
probing workers, and then lets each worker probe its chunk address by
address, in increasing order:

	              +-------+   chunk 1   +----------+
	              |       |------------>| worker 1 |--> results, covered
	remaining --->| Coord |     ...     |   ...    |
	              |       |------------>| worker n |--> results, covered
	              +-------+   chunk n   +----------+

Workers share nothing except their individual progress counters, which
reporters can sample using [Coordinator.Progress] at any time. Results go
into private per-worker buffers and are handed over only after all workers
have joined, as an [Outcome] with one [WorkerReport] per chunk.

Cancellation is cooperative: workers check the coordinator's context once
between two addresses, so a probe that is already in flight completes. Each
worker then reports the exact prefix of its chunk it has covered, so that
only those addresses are persisted as done and the remaining ones get
scanned in the next cycle.

# Acknowledgements

Under its hood, [Coordinator] leverages [gammazero/workerpool] as the
goroutine pool running the probing workers.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package scan
