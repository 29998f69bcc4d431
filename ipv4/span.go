// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import "fmt"

// Span is an ordered sequence of addresses that can be indexed and sliced
// globally, regardless of whether it is a single [Range] or a [RangeSet] of
// several disjoint ranges.
type Span interface {
	Len() uint64                      // number of addresses.
	At(i int64) (Address, error)      // address at (possibly negative) index.
	Contains(addr Address) bool       // true if addr is part of the span.
	Each(fn func(Address) bool)       // iterate in increasing order until fn returns false.
	Ranges() []Range                  // the non-empty ranges making up the span.
	Section(i, j int64) (Span, error) // the sub span [i, j).
	String() string
}

// Partition splits a span into exactly n contiguous chunks. Each chunk gets
// len/n addresses, and the first len%n chunks one more address, so chunks never
// differ by more than a single address. Only when n exceeds the length of the
// span the trailing chunks end up empty. The concatenation of all chunks
// always is the original span.
func Partition(span Span, n int) ([]Span, error) {
	if n < 1 {
		return nil, fmt.Errorf("cannot partition into %d chunks: %w", n, ErrValue)
	}
	length := span.Len()
	k, m := length/uint64(n), length%uint64(n)
	chunks := make([]Span, 0, n)
	for i := uint64(0); i < uint64(n); i++ {
		start := i*k + min(i, m)
		stop := (i+1)*k + min(i+1, m)
		chunk, err := span.Section(int64(start), int64(stop))
		if err != nil {
			return nil, fmt.Errorf("cannot partition %s: %w", span, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
