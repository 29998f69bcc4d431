// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"fmt"
	"sort"
	"strings"
)

// RangeSet is a sorted set of disjoint ranges, where adjacent ranges are
// always coalesced. The zero value is an empty set. RangeSets are immutable.
type RangeSet struct {
	ranges []Range // sorted, non-empty, neither overlapping nor touching.
}

var _ Span = RangeSet{}

// NewRangeSet returns the set of the specified ranges. Empty ranges are
// ignored, adjacent ranges get coalesced. NewRangeSet fails with [ErrValue]
// if any two ranges overlap.
func NewRangeSet(ranges ...Range) (RangeSet, error) {
	sorted := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.length != 0 {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })
	// After sorting, only neighbors can overlap or touch.
	merged := make([]Range, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			switch stop := prev.StopIndex(); {
			case stop > uint64(r.start):
				return RangeSet{}, fmt.Errorf("ranges %s and %s overlap: %w", *prev, r, ErrValue)
			case stop == uint64(r.start):
				prev.length += r.length
				continue
			}
		}
		merged = append(merged, r)
	}
	if len(merged) == 0 {
		return RangeSet{}, nil
	}
	return RangeSet{ranges: merged}, nil
}

// MustRangeSet is NewRangeSet panicking on errors.
func MustRangeSet(ranges ...Range) RangeSet {
	rs, err := NewRangeSet(ranges...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the total number of addresses in the set.
func (s RangeSet) Len() uint64 {
	total := uint64(0)
	for _, r := range s.ranges {
		total += r.length
	}
	return total
}

// IsEmpty returns true if the set doesn't contain any address.
func (s RangeSet) IsEmpty() bool { return len(s.ranges) == 0 }

// Ranges returns (a copy of) the member ranges in increasing order.
func (s RangeSet) Ranges() []Range {
	if len(s.ranges) == 0 {
		return nil
	}
	return append([]Range(nil), s.ranges...)
}

// locate resolves the global index idx into the member range owning it and the
// index local to that member. idx must be less than the set's length.
func (s RangeSet) locate(idx uint64) (int, uint64) {
	for member, r := range s.ranges {
		if idx < r.length {
			return member, idx
		}
		idx -= r.length
	}
	panic("ipv4: RangeSet.locate beyond end of set")
}

// At returns the address at the global index i across the concatenation of all
// member ranges; negative indices count from the end.
func (s RangeSet) At(i int64) (Address, error) {
	length := s.Len()
	if i < 0 {
		// walk from the end backwards.
		back := uint64(-i)
		for member := len(s.ranges) - 1; member >= 0; member-- {
			r := s.ranges[member]
			if back <= r.length {
				return fromIndex(uint32(r.StopIndex() - back)), nil
			}
			back -= r.length
		}
		return Address{}, fmt.Errorf("index %d outside set of length %d: %w", i, length, ErrIndex)
	}
	if uint64(i) >= length {
		return Address{}, fmt.Errorf("index %d outside set of length %d: %w", i, length, ErrIndex)
	}
	member, local := s.locate(uint64(i))
	return fromIndex(s.ranges[member].start + uint32(local)), nil
}

// Slice returns the addresses [i, j) of the set, with negative indices
// counting from the end. If the slice falls inside a single member range, the
// result is a [Range], otherwise a [RangeSet].
func (s RangeSet) Slice(i, j int64) (Span, error) {
	lo, hi, err := bounds(i, j, s.Len())
	if err != nil {
		return nil, err
	}
	if lo == hi {
		return RangeSet{}, nil
	}
	startMember, startLocal := s.locate(lo)
	stopMember, stopLocal := s.locate(hi - 1) // last address included.
	if startMember == stopMember {
		return s.ranges[startMember].Slice(int64(startLocal), int64(stopLocal)+1)
	}
	ranges := make([]Range, 0, stopMember-startMember+1)
	tail, err := s.ranges[startMember].Tail(int64(startLocal))
	if err != nil {
		return nil, err
	}
	ranges = append(ranges, tail)
	ranges = append(ranges, s.ranges[startMember+1:stopMember]...)
	head, err := s.ranges[stopMember].Head(int64(stopLocal) + 1)
	if err != nil {
		return nil, err
	}
	ranges = append(ranges, head)
	return RangeSet{ranges: ranges}, nil
}

// SliceStep is Slice with an explicit step, which must be 1.
func (s RangeSet) SliceStep(i, j, step int64) (Span, error) {
	if step != 1 {
		return nil, fmt.Errorf("stepped slicing unsupported: %w", ErrSlice)
	}
	return s.Slice(i, j)
}

// Section returns the slice [i, j) as a [Span].
func (s RangeSet) Section(i, j int64) (Span, error) { return s.Slice(i, j) }

// Contains returns true if addr is a member of any of the ranges of this set.
func (s RangeSet) Contains(addr Address) bool {
	idx := uint64(addr.Index())
	member := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].StopIndex() > idx
	})
	return member < len(s.ranges) && s.ranges[member].Contains(addr)
}

// Each calls fn for each address of the set in increasing order until fn
// returns false.
func (s RangeSet) Each(fn func(Address) bool) {
	more := true
	for _, r := range s.ranges {
		r.Each(func(addr Address) bool {
			more = fn(addr)
			return more
		})
		if !more {
			return
		}
	}
}

// Inverted returns the set of all addresses in the whole address space not
// covered by this set. The empty set inverts into the whole address space,
// and vice versa.
func (s RangeSet) Inverted() RangeSet {
	if len(s.ranges) == 0 {
		return RangeSet{ranges: []Range{Universe()}}
	}
	gaps := make([]Range, 0, len(s.ranges)+1)
	if first := s.ranges[0]; first.start != 0 {
		gaps = append(gaps, Range{start: 0, length: uint64(first.start)})
	}
	for idx := 1; idx < len(s.ranges); idx++ {
		prevStop := s.ranges[idx-1].StopIndex()
		gaps = append(gaps, Range{
			start:  uint32(prevStop),
			length: uint64(s.ranges[idx].start) - prevStop,
		})
	}
	if lastStop := s.ranges[len(s.ranges)-1].StopIndex(); lastStop < Size {
		gaps = append(gaps, Range{start: uint32(lastStop), length: Size - lastStop})
	}
	return RangeSet{ranges: gaps}
}

// Union returns the set of the addresses of both s and o, failing with
// [ErrValue] if both sets overlap.
func (s RangeSet) Union(o RangeSet) (RangeSet, error) {
	return NewRangeSet(append(s.Ranges(), o.ranges...)...)
}

// Equal returns true if both sets consist of the same ranges.
func (s RangeSet) Equal(o RangeSet) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for idx := range s.ranges {
		if s.ranges[idx] != o.ranges[idx] {
			return false
		}
	}
	return true
}

// String returns the member ranges in "first-last" notation, separated by
// commas.
func (s RangeSet) String() string {
	if len(s.ranges) == 0 {
		return "{}"
	}
	parts := make([]string, len(s.ranges))
	for idx, r := range s.ranges {
		parts[idx] = r.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
