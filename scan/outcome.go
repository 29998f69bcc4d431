// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/types"
)

// WorkerReport tells what a single probing worker achieved on its chunk.
type WorkerReport struct {
	Worker  int            // worker number, starting at 1.
	Chunk   ipv4.Span      // the addresses assigned to the worker.
	Results []types.Result // results in increasing address order.
	Covered ipv4.Span      // prefix of Chunk actually probed.
}

// Last returns the last address the worker completed, or false if it did not
// complete any address at all.
func (r WorkerReport) Last() (ipv4.Address, bool) {
	if r.Covered == nil || r.Covered.Len() == 0 {
		return ipv4.Address{}, false
	}
	last, err := r.Covered.At(-1)
	if err != nil {
		return ipv4.Address{}, false
	}
	return last, true
}

// Finished returns true if the worker probed its complete chunk.
func (r WorkerReport) Finished() bool {
	return r.Covered != nil && r.Covered.Len() == r.Chunk.Len()
}

// Outcome of a scan cycle, with one report per chunk.
type Outcome struct {
	Reports   []WorkerReport
	Cancelled bool // true if the scan was cancelled before covering everything.
}

// Probed returns the number of addresses probed during the scan cycle.
func (o *Outcome) Probed() uint64 {
	total := uint64(0)
	for _, report := range o.Reports {
		total += uint64(len(report.Results))
	}
	return total
}

// Results returns the results of all workers.
func (o *Outcome) Results() []types.Result {
	results := make([]types.Result, 0, o.Probed())
	for _, report := range o.Reports {
		results = append(results, report.Results...)
	}
	return results
}

// Covered returns the set of addresses covered by all workers. As chunks
// never overlap, this only fails on corrupted reports.
func (o *Outcome) Covered() (ipv4.RangeSet, error) {
	ranges := []ipv4.Range{}
	for _, report := range o.Reports {
		if report.Covered != nil {
			ranges = append(ranges, report.Covered.Ranges()...)
		}
	}
	return ipv4.NewRangeSet(ranges...)
}
