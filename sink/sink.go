// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/scan"
	"github.com/siemens/ipatlas/types"

	"github.com/gammazero/workerpool"
	"go4.org/netipx"
)

// PixelWriter renders the reachability of individual addresses. Writers must
// accept concurrent writes of different addresses.
type PixelWriter interface {
	WritePixel(addr ipv4.Address, reachable bool) error
}

var _ PixelWriter = (*atlas.Atlas)(nil)

// Sink accumulates results and covered addresses.
type Sink struct {
	results  []types.Result
	covered  []ipv4.Range
	rendered atomic.Uint64
}

// New returns a new, empty Sink.
func New() *Sink {
	return &Sink{}
}

// Collect accumulates the results and covered addresses of a scan outcome.
func (s *Sink) Collect(outcome *scan.Outcome) {
	for _, report := range outcome.Reports {
		s.Add(report.Results, report.Covered)
	}
}

// Add accumulates the specified results together with the addresses covered.
func (s *Sink) Add(results []types.Result, covered ipv4.Span) {
	s.results = append(s.results, results...)
	if covered != nil {
		s.covered = append(s.covered, covered.Ranges()...)
	}
}

// Results returns the results accumulated so far.
func (s *Sink) Results() []types.Result { return s.results }

// Covered returns the set of addresses covered so far. It fails with
// [ipv4.ErrValue] when the same addresses have been collected more than once.
func (s *Sink) Covered() (ipv4.RangeSet, error) {
	return ipv4.NewRangeSet(s.covered...)
}

// Coverage returns the union of the addresses covered so far with the prior
// coverage, if any.
func (s *Sink) Coverage(prior ipv4.RangeSet, ok bool) (ipv4.RangeSet, error) {
	covered, err := s.Covered()
	if err != nil {
		return ipv4.RangeSet{}, err
	}
	if !ok {
		return covered, nil
	}
	coverage, err := prior.Union(covered)
	if err != nil {
		return ipv4.RangeSet{}, fmt.Errorf("newly covered addresses overlap prior coverage: %w", err)
	}
	return coverage, nil
}

// Reachable returns the number of reachable addresses.
func (s *Sink) Reachable() int {
	count := 0
	for _, result := range s.results {
		if result.Reachable {
			count++
		}
	}
	return count
}

// ReachableSet returns the reachable addresses in conventional address
// order, summarized into CIDR prefixes where possible.
func (s *Sink) ReachableSet() (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, result := range s.results {
		if result.Reachable {
			b.Add(result.Address.NetIP())
		}
	}
	return b.IPSet()
}

// Tiles returns the atlas tiles touched by the results, in increasing order.
func (s *Sink) Tiles() []int {
	var touched [atlas.Tiles]bool
	for _, result := range s.results {
		touched[atlas.Locate(result.Address).Tile] = true
	}
	tiles := []int{}
	for tile, ok := range touched {
		if ok {
			tiles = append(tiles, tile)
		}
	}
	sort.Ints(tiles)
	return tiles
}

// Rendered returns the number of results rendered so far by the current or
// latest Render.
func (s *Sink) Rendered() uint64 { return s.rendered.Load() }

// renderBatch is the number of results rendered between cancellation checks.
const renderBatch = 4096

// Render writes all results to the pixel writer, splitting the results into
// as many contiguous batches as there are workers. Render returns the first
// error reported by the pixel writer, if any, or the context error when
// cancelled.
func (s *Sink) Render(ctx context.Context, pixels PixelWriter, workers int) error {
	s.rendered.Store(0)
	workers = max(workers, 1)
	var mu sync.Mutex // protects firstErr
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	pool := workerpool.New(workers)
	n := len(s.results)
	for w := 0; w < workers; w++ {
		start := w*(n/workers) + min(w, n%workers)
		stop := (w+1)*(n/workers) + min(w+1, n%workers)
		batch := s.results[start:stop]
		pool.Submit(func() {
			for idx, result := range batch {
				if idx%renderBatch == 0 {
					if err := ctx.Err(); err != nil {
						fail(err)
						return
					}
				}
				if err := pixels.WritePixel(result.Address, result.Reachable); err != nil {
					fail(err)
					return
				}
				s.rendered.Add(1)
			}
		})
	}
	pool.StopWait()
	return firstErr
}
