// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"fmt"
)

// Range is a contiguous span [start, stop) of addresses. The zero value is an
// empty range starting at 0.0.0.0.
type Range struct {
	start  uint32
	length uint64 // start+length <= Size
}

var _ Span = Range{}

// NewRange returns the range of addresses from start up to, but not including,
// stop. It fails with [ErrValue] if start is ordered after stop.
func NewRange(start, stop Address) (Range, error) {
	if start.Index() > stop.Index() {
		return Range{}, fmt.Errorf("range start %s cannot be ahead of stop %s: %w",
			start, stop, ErrValue)
	}
	return Range{start: start.Index(), length: uint64(stop.Index() - start.Index())}, nil
}

// NewRangeInclusive returns the range of addresses from first up to and
// including last; this is the only way to construct a range covering
// 255.255.255.255 from addresses.
func NewRangeInclusive(first, last Address) (Range, error) {
	if first.Index() > last.Index() {
		return Range{}, fmt.Errorf("range first %s cannot be ahead of last %s: %w",
			first, last, ErrValue)
	}
	return Range{start: first.Index(), length: uint64(last.Index()-first.Index()) + 1}, nil
}

// RangeFromIndices returns the range of the address indices [start, stop),
// where stop may be [Size] to reach the end of the address space.
func RangeFromIndices(start, stop uint64) (Range, error) {
	if stop > Size {
		return Range{}, fmt.Errorf("range stop index %d beyond %d: %w", stop, Size, ErrValue)
	}
	if start > stop {
		return Range{}, fmt.Errorf("range start index %d cannot be ahead of stop index %d: %w",
			start, stop, ErrValue)
	}
	if start == Size {
		// an empty range at the very end; anchor it at the last address.
		return Range{start: uint32(Size - 1)}, nil
	}
	return Range{start: uint32(start), length: stop - start}, nil
}

// MustRange is NewRange panicking on errors.
func MustRange(start, stop Address) Range {
	r, err := NewRange(start, stop)
	if err != nil {
		panic(err)
	}
	return r
}

// Universe returns the range of all 2^32 addresses.
func Universe() Range {
	return Range{start: 0, length: Size}
}

// Len returns the number of addresses in the range.
func (r Range) Len() uint64 { return r.length }

// IsEmpty returns true if the range doesn't contain any address.
func (r Range) IsEmpty() bool { return r.length == 0 }

// Start returns the first address of the range. For an empty range this is
// the address the range is anchored at.
func (r Range) Start() Address { return fromIndex(r.start) }

// StartIndex returns the index of the first address.
func (r Range) StartIndex() uint64 { return uint64(r.start) }

// StopIndex returns the index following the last address of the range; it is
// [Size] for ranges reaching up to 255.255.255.255.
func (r Range) StopIndex() uint64 { return uint64(r.start) + r.length }

// Stop returns the exclusive stop address, or false if the range reaches up to
// the end of the address space so that there is no stop address.
func (r Range) Stop() (Address, bool) {
	stop := r.StopIndex()
	if stop >= Size {
		return Address{}, false
	}
	return fromIndex(uint32(stop)), true
}

// Last returns the last address inside the range, or false if the range is
// empty.
func (r Range) Last() (Address, bool) {
	if r.length == 0 {
		return Address{}, false
	}
	return fromIndex(uint32(r.StopIndex() - 1)), true
}

// normalize turns a possibly negative index into an offset relative to the
// start of a span of the given length; it does not check bounds.
func normalize(i int64, length uint64) int64 {
	if i < 0 {
		return i + int64(length)
	}
	return i
}

// At returns the address at index i, where negative indices count from the
// end of the range.
func (r Range) At(i int64) (Address, error) {
	idx := normalize(i, r.length)
	if idx < 0 || uint64(idx) >= r.length {
		return Address{}, fmt.Errorf("index %d outside range of length %d: %w", i, r.length, ErrIndex)
	}
	return fromIndex(r.start + uint32(idx)), nil
}

// Slice returns the sub range [i, j), where negative indices count from the
// end of the range. Reversed slices fail with [ErrSlice], indices outside the
// range with [ErrIndex].
func (r Range) Slice(i, j int64) (Range, error) {
	lo, hi, err := bounds(i, j, r.length)
	if err != nil {
		return Range{}, err
	}
	return RangeFromIndices(uint64(r.start)+lo, uint64(r.start)+hi)
}

// SliceStep is Slice with an explicit step, which must be 1.
func (r Range) SliceStep(i, j, step int64) (Range, error) {
	if step != 1 {
		return Range{}, fmt.Errorf("stepped slicing unsupported: %w", ErrSlice)
	}
	return r.Slice(i, j)
}

// Head returns the first j addresses, that is, the slice [:j].
func (r Range) Head(j int64) (Range, error) { return r.Slice(0, j) }

// Tail returns the addresses from index i onwards, that is, the slice [i:].
func (r Range) Tail(i int64) (Range, error) { return r.Slice(i, int64(r.length)) }

// Section returns the slice [i, j) as a [Span].
func (r Range) Section(i, j int64) (Span, error) {
	s, err := r.Slice(i, j)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// bounds normalizes and checks the slice bounds [i, j) for a span of the
// specified length. The stop j may equal the length.
func bounds(i, j int64, length uint64) (uint64, uint64, error) {
	lo, hi := normalize(i, length), normalize(j, length)
	if lo < 0 || uint64(lo) > length {
		return 0, 0, fmt.Errorf("slice start %d outside span of length %d: %w", i, length, ErrIndex)
	}
	if hi < 0 || uint64(hi) > length {
		return 0, 0, fmt.Errorf("slice stop %d outside span of length %d: %w", j, length, ErrIndex)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("reverse slicing unsupported [%d:%d]: %w", i, j, ErrSlice)
	}
	return uint64(lo), uint64(hi), nil
}

// Contains returns true if addr is inside the range.
func (r Range) Contains(addr Address) bool {
	idx := uint64(addr.Index())
	return idx >= uint64(r.start) && idx < r.StopIndex()
}

// Each calls fn for each address of the range in increasing order until fn
// returns false.
func (r Range) Each(fn func(Address) bool) {
	stop := r.StopIndex()
	for idx := uint64(r.start); idx < stop; idx++ {
		if !fn(fromIndex(uint32(idx))) {
			return
		}
	}
}

// Ranges returns the range itself, unless it is empty.
func (r Range) Ranges() []Range {
	if r.length == 0 {
		return nil
	}
	return []Range{r}
}

// Addresses returns a fresh iterator over the addresses of the range.
func (r Range) Addresses() *Iterator {
	return &Iterator{next: uint64(r.start), stop: r.StopIndex()}
}

// Equal returns true if both ranges cover exactly the same addresses; all
// empty ranges are equal.
func (r Range) Equal(o Range) bool {
	if r.length == 0 || o.length == 0 {
		return r.length == o.length
	}
	return r == o
}

// String returns the range in "first-last" notation, with the last address
// included.
func (r Range) String() string {
	last, ok := r.Last()
	if !ok {
		return fmt.Sprintf("empty@%s", r.Start())
	}
	return r.Start().String() + "-" + last.String()
}

// Iterator yields the addresses of a range in increasing order.
type Iterator struct {
	next, stop uint64
}

// Next returns the next address, or false when the range is exhausted.
func (it *Iterator) Next() (Address, bool) {
	if it.next >= it.stop {
		return Address{}, false
	}
	addr := fromIndex(uint32(it.next))
	it.next++
	return addr, true
}
