// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// DefaultWorkers is the default number of probing workers.
const DefaultWorkers = 4

// ErrBusy is returned when trying to run a Coordinator that is still busy
// with another scan.
var ErrBusy = errors.New("scan already in progress")

// Prober tells whether an address is reachable. Probers never fail; any
// problem while probing makes the address unreachable.
type Prober interface {
	Probe(ctx context.Context, addr ipv4.Address) bool
}

// ProbeFunc adapts an ordinary function into a [Prober].
type ProbeFunc func(ctx context.Context, addr ipv4.Address) bool

// Probe calls f(ctx, addr).
func (f ProbeFunc) Probe(ctx context.Context, addr ipv4.Address) bool { return f(ctx, addr) }

// Coordinator partitions spans of addresses into chunks and probes them using
// a pool of workers, one worker per chunk.
type Coordinator struct {
	prober  Prober
	workers int

	state    atomic.Int32
	progress atomic.Pointer[progress] // progress of the current or latest scan.
}

// progress counters of a single scan; each counter has exactly one writer.
type progress struct {
	total    uint64
	counters []atomic.Uint64
}

// CoordinatorOption can be passed to New when creating new Coordinator
// objects.
type CoordinatorOption func(*Coordinator)

// New returns a new [Coordinator] probing addresses using the specified
// prober, defaulting to [DefaultWorkers] workers.
func New(prober Prober, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		prober:  prober,
		workers: DefaultWorkers,
	}
	for _, opt := range options {
		opt(c)
	}
	c.progress.Store(&progress{})
	return c
}

// WithWorkers sets the number of probing workers, and thus the number of
// chunks the addresses to scan get partitioned into.
func WithWorkers(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Workers returns the number of probing workers.
func (c *Coordinator) Workers() int { return c.workers }

// State returns the current state of the coordinator.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Total returns the number of addresses of the current or latest scan.
func (c *Coordinator) Total() uint64 { return c.progress.Load().total }

// Progress returns the number of addresses probed so far by all workers of
// the current or latest scan.
func (c *Coordinator) Progress() uint64 {
	sum := uint64(0)
	p := c.progress.Load()
	for idx := range p.counters {
		sum += p.counters[idx].Load()
	}
	return sum
}

// WorkerProgress returns the number of addresses probed so far by the
// individual workers.
func (c *Coordinator) WorkerProgress() []uint64 {
	p := c.progress.Load()
	counts := make([]uint64, len(p.counters))
	for idx := range p.counters {
		counts[idx] = p.counters[idx].Load()
	}
	return counts
}

// Remaining returns the addresses still to be scanned, given the coverage of
// previous scans. Without any prior coverage this is the whole address space.
func Remaining(prior ipv4.RangeSet, ok bool) ipv4.Span {
	if !ok {
		return ipv4.Universe()
	}
	return prior.Inverted()
}

// Run probes all addresses in the specified span until either all addresses
// have been probed or the context gets cancelled. Run then returns the outcome
// with the results and covered addresses of each worker. Cancellation isn't
// an error; Run only fails on structural problems, such as partitioning or
// when the coordinator is still busy with another scan.
func (c *Coordinator) Run(ctx context.Context, span ipv4.Span) (*Outcome, error) {
	if !c.state.CompareAndSwap(int32(Idle), int32(Running)) &&
		!c.state.CompareAndSwap(int32(Completed), int32(Running)) {
		return nil, ErrBusy
	}
	defer c.state.Store(int32(Completed))

	chunks, err := ipv4.Partition(span, c.workers)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", span, err)
	}
	p := &progress{
		total:    span.Len(),
		counters: make([]atomic.Uint64, len(chunks)),
	}
	c.progress.Store(p)

	stopWatching := context.AfterFunc(ctx, func() {
		if c.state.CompareAndSwap(int32(Running), int32(Cancelling)) {
			log.Debugf("cancelling scan, waiting for probes in flight")
		}
	})
	defer stopWatching()

	log.Debugf("scanning %d addresses using %d workers", span.Len(), len(chunks))
	reports := make([]WorkerReport, len(chunks))
	var mu sync.Mutex // protects errs
	var errs []error
	pool := workerpool.New(len(chunks))
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		pool.Submit(func() {
			report, err := c.work(ctx, idx+1, chunk, &p.counters[idx])
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			reports[idx] = report
		})
	}
	pool.StopWait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	outcome := &Outcome{Reports: reports}
	for _, report := range reports {
		if !report.Finished() {
			outcome.Cancelled = true
			break
		}
	}
	return outcome, nil
}

// work probes the addresses of a single chunk in increasing order, checking
// for cancellation before each address.
func (c *Coordinator) work(ctx context.Context, worker int, chunk ipv4.Span, counter *atomic.Uint64) (WorkerReport, error) {
	// Probes in flight must complete even after cancellation; they are
	// bounded by their own timeouts.
	probectx := context.WithoutCancel(ctx)
	results := make([]types.Result, 0, min(chunk.Len(), 1<<16))
	done := int64(0)
	chunk.Each(func(addr ipv4.Address) bool {
		if ctx.Err() != nil {
			return false
		}
		results = append(results, types.Result{
			Address:   addr,
			Reachable: c.prober.Probe(probectx, addr),
		})
		done++
		counter.Add(1)
		return true
	})
	covered, err := chunk.Section(0, done)
	if err != nil {
		return WorkerReport{}, fmt.Errorf("worker %d cannot determine covered addresses: %w", worker, err)
	}
	log.Debugf("worker %d probed %d of %d addresses", worker, done, chunk.Len())
	return WorkerReport{
		Worker:  worker,
		Chunk:   chunk,
		Results: results,
		Covered: covered,
	}, nil
}
