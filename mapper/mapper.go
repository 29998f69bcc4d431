// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mapper

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/config"
	"github.com/siemens/ipatlas/coverage"
	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/scan"
	"github.com/siemens/ipatlas/sink"
	"github.com/siemens/ipatlas/stats"
	"github.com/siemens/ipatlas/types"

	"github.com/thediveo/lxkns/log"
)

// Mapper runs scan cycles, rendering the results into an atlas and keeping
// track of the addresses covered.
type Mapper struct {
	prober       scan.Prober
	store        atlas.Store
	threads      config.ThreadAmounts
	coveragePath string
	progress     io.Writer
	interval     time.Duration
}

// MapperOption can be passed to New when creating new Mapper objects.
type MapperOption func(*Mapper)

// New returns a new [Mapper] probing with the specified prober and rendering
// into the tiles of the specified store. It defaults to the default thread
// amounts, the default coverage file, and reporting progress on stdout.
func New(prober scan.Prober, store atlas.Store, options ...MapperOption) *Mapper {
	m := &Mapper{
		prober:       prober,
		store:        store,
		threads:      config.DefaultThreadAmounts(),
		coveragePath: coverage.DefaultPath,
		progress:     os.Stdout,
		interval:     stats.DefaultInterval,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// WithThreads sets the sizes of the worker pools.
func WithThreads(threads config.ThreadAmounts) MapperOption {
	return func(m *Mapper) {
		m.threads = threads
	}
}

// WithCoveragePath sets the location of the coverage file.
func WithCoveragePath(path string) MapperOption {
	return func(m *Mapper) {
		m.coveragePath = path
	}
}

// WithProgress sets where to report progress to, and how often.
func WithProgress(w io.Writer, interval time.Duration) MapperOption {
	return func(m *Mapper) {
		m.progress = w
		if interval > 0 {
			m.interval = interval
		}
	}
}

// Summary of a scan cycle.
type Summary struct {
	Probed    uint64         // addresses probed in this cycle.
	Reachable int            // reachable addresses found in this cycle.
	Covered   ipv4.RangeSet  // addresses covered in this cycle.
	Coverage  ipv4.RangeSet  // addresses covered by all cycles so far.
	Cancelled bool           // true if the cycle ended before covering all addresses.
	Tiles     []int          // tiles rendered into.
	Prefixes  []netip.Prefix // reachable addresses in CIDR notation.
	Elapsed   time.Duration
}

// Cycle runs a single scan cycle: it scans all addresses not covered yet
// until either done or the context gets cancelled. It then renders the
// results and saves them, updating the coverage file. Cancelling the context
// only stops scanning; rendering and saving always run to completion.
func (m *Mapper) Cycle(ctx context.Context) (*Summary, error) {
	start := time.Now()
	prior, ok := coverage.Load(m.coveragePath)
	remaining := scan.Remaining(prior, ok)
	log.Infof("%d addresses remaining to be scanned", remaining.Len())

	coord := scan.New(m.prober, scan.WithWorkers(m.threads.Ping))
	var outcome *scan.Outcome
	err := m.stage(types.Probing, coord.Progress, remaining.Len(), func() (err error) {
		outcome, err = coord.Run(ctx, remaining)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	// From here on, cancellation no longer applies.
	ctx = context.WithoutCancel(ctx)
	results := sink.New()
	results.Collect(outcome)
	covered, err := results.Covered()
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Probed:    outcome.Probed(),
		Reachable: results.Reachable(),
		Covered:   covered,
		Cancelled: outcome.Cancelled,
		Tiles:     results.Tiles(),
	}
	if reachables, err := results.ReachableSet(); err == nil {
		summary.Prefixes = reachables.Prefixes()
	}
	if err := m.render(ctx, results, summary.Tiles); err != nil {
		return nil, err
	}

	summary.Coverage, err = results.Coverage(prior, ok)
	if err != nil {
		return nil, err
	}
	if err := coverage.Save(m.coveragePath, summary.Coverage); err != nil {
		return nil, fmt.Errorf("cannot save coverage: %w", err)
	}
	summary.Elapsed = time.Since(start)
	log.Infof("scan cycle probed %d addresses in %s, %d reachable",
		summary.Probed, stats.Duration(summary.Elapsed), summary.Reachable)
	return summary, nil
}

// render the collected results into the atlas tiles they belong to, loading
// these tiles first and finally saving them.
func (m *Mapper) render(ctx context.Context, results *sink.Sink, tiles []int) error {
	if len(tiles) == 0 {
		return nil
	}
	a := atlas.New(m.store)
	defer a.Release()
	if err := m.stage(types.Loading, a.LoadProgress, uint64(len(tiles)), func() error {
		return a.Load(ctx, tiles, m.threads.Load)
	}); err != nil {
		return err
	}
	if err := m.stage(types.Rendering, results.Rendered, uint64(len(results.Results())), func() error {
		return results.Render(ctx, a, m.threads.Result)
	}); err != nil {
		return err
	}
	return m.stage(types.Saving, a.SaveProgress, uint64(len(tiles)), func() error {
		return a.Save(ctx, m.threads.Save)
	})
}

// Reset all atlas tiles to the background and forget about all coverage.
func (m *Mapper) Reset(ctx context.Context) error {
	a := atlas.New(m.store)
	if err := m.stage(types.Saving, a.SaveProgress, atlas.Tiles, func() error {
		return a.Reset(ctx, m.threads.Save)
	}); err != nil {
		return err
	}
	return coverage.Reset(m.coveragePath)
}

// stage runs fn while reporting its progress.
func (m *Mapper) stage(kind types.WorkerKind, counter stats.Counter, total uint64, fn func() error) error {
	log.Debugf("%s stage started", kind)
	reporter := stats.New(kind, counter,
		stats.WithTotal(total),
		stats.WithInterval(m.interval),
		stats.WithWriter(m.progress))
	stop := reporter.Start(context.Background())
	defer stop()
	return fn()
}
