// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// idx returns a range of address indices, failing the test on errors.
func idx(start, stop uint64) Range {
	GinkgoHelper()
	return Successful(RangeFromIndices(start, stop))
}

var _ = Describe("ranges", func() {

	It("rejects reversed bounds", func() {
		Expect(NewRange(MustNew(0, 0, 0, 1), MustNew(0, 0, 0, 0))).Error().To(MatchError(ErrValue))
		Expect(NewRangeInclusive(MustNew(0, 0, 0, 1), MustNew(0, 0, 0, 0))).Error().To(MatchError(ErrValue))
		Expect(RangeFromIndices(10, 5)).Error().To(MatchError(ErrValue))
		Expect(RangeFromIndices(0, Size+1)).Error().To(MatchError(ErrValue))
	})

	It("has exact lengths", func() {
		Expect(Universe().Len()).To(Equal(Size))
		Expect(Successful(NewRangeInclusive(First, Last)).Len()).To(Equal(Size))
		r := MustRange(MustNew(0, 0, 0, 0), MustNew(0, 0, 1, 0))
		Expect(r.Len()).To(Equal(uint64(MustNew(0, 0, 1, 0).Diff(First))))
		Expect(MustRange(Last, Last).IsEmpty()).To(BeTrue())
	})

	It("reports its bounds", func() {
		r := idx(10, 20)
		Expect(r.Start()).To(Equal(fromIndex(10)))
		Expect(r.StartIndex()).To(Equal(uint64(10)))
		Expect(r.StopIndex()).To(Equal(uint64(20)))
		stop, ok := r.Stop()
		Expect(ok).To(BeTrue())
		Expect(stop).To(Equal(fromIndex(20)))
		last, ok := r.Last()
		Expect(ok).To(BeTrue())
		Expect(last).To(Equal(fromIndex(19)))

		_, ok = Universe().Stop()
		Expect(ok).To(BeFalse())
		last, ok = Universe().Last()
		Expect(ok).To(BeTrue())
		Expect(last).To(Equal(Last))
		_, ok = idx(5, 5).Last()
		Expect(ok).To(BeFalse())
	})

	It("iterates lazily and restartably", func() {
		r := idx(250, 260)
		var addrs []Address
		r.Each(func(addr Address) bool {
			addrs = append(addrs, addr)
			return true
		})
		Expect(addrs).To(HaveLen(10))
		for i := 1; i < len(addrs); i++ {
			Expect(addrs[i-1].Less(addrs[i])).To(BeTrue())
		}
		Expect(addrs[0]).To(Equal(MustNew(0, 250, 0, 0)))
		Expect(addrs[9]).To(Equal(MustNew(1, 3, 0, 0)))

		for round := 0; round < 2; round++ {
			it := r.Addresses()
			count := 0
			for _, ok := it.Next(); ok; _, ok = it.Next() {
				count++
			}
			Expect(count).To(Equal(10))
		}

		count := 0
		r.Each(func(Address) bool { count++; return count < 3 })
		Expect(count).To(Equal(3))
	})

	It("indexes from both ends", func() {
		r := idx(100, 200)
		Expect(r.At(0)).To(Equal(fromIndex(100)))
		Expect(r.At(99)).To(Equal(fromIndex(199)))
		Expect(r.At(-1)).To(Equal(fromIndex(199)))
		Expect(r.At(-100)).To(Equal(fromIndex(100)))
		Expect(r.At(100)).Error().To(MatchError(ErrIndex))
		Expect(r.At(-101)).Error().To(MatchError(ErrIndex))
		Expect(Universe().At(-1)).To(Equal(Last))
	})

	It("slices with exclusive stops", func() {
		r := idx(100, 200)
		Expect(r.Slice(10, 20)).To(Equal(idx(110, 120)))
		Expect(r.Slice(-10, 100)).To(Equal(idx(190, 200)))
		Expect(r.Head(5)).To(Equal(idx(100, 105)))
		Expect(r.Tail(95)).To(Equal(idx(195, 200)))
		Expect(r.SliceStep(0, 100, 1)).To(Equal(r))
		Expect(Successful(r.Slice(50, 50)).IsEmpty()).To(BeTrue())
		Expect(Universe().Tail(-1)).To(Equal(idx(Size-1, Size)))
	})

	It("rejects unsupported slices", func() {
		r := idx(100, 200)
		Expect(r.Slice(20, 10)).Error().To(MatchError(ErrSlice))
		Expect(r.SliceStep(0, 10, 2)).Error().To(MatchError(ErrSlice))
		Expect(r.Slice(0, 101)).Error().To(MatchError(ErrIndex))
		Expect(r.Slice(-101, 0)).Error().To(MatchError(ErrIndex))
	})

	It("checks containment", func() {
		r := idx(100, 200)
		Expect(r.Contains(fromIndex(100))).To(BeTrue())
		Expect(r.Contains(fromIndex(199))).To(BeTrue())
		Expect(r.Contains(fromIndex(200))).To(BeFalse())
		Expect(r.Contains(fromIndex(99))).To(BeFalse())
		Expect(Universe().Contains(Last)).To(BeTrue())
	})

	It("renders and compares", func() {
		Expect(Universe().String()).To(Equal("0.0.0.0-255.255.255.255"))
		Expect(idx(7, 7).String()).To(Equal("empty@0.7.0.0"))
		Expect(idx(7, 7).Equal(idx(9, 9))).To(BeTrue())
		Expect(idx(7, 8).Equal(idx(7, 9))).To(BeFalse())
		Expect(idx(7, 7).Ranges()).To(BeEmpty())
	})

})
