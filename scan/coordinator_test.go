// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/siemens/ipatlas/ipv4"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

func idx(start, stop uint64) ipv4.Range {
	GinkgoHelper()
	return Successful(ipv4.RangeFromIndices(start, stop))
}

// below returns a prober finding all addresses with an index below limit to
// be reachable.
func below(limit uint32) ProbeFunc {
	return func(_ context.Context, addr ipv4.Address) bool {
		return addr.Index() < limit
	}
}

var _ = Describe("scan coordinator", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("determines the remaining addresses", func() {
		Expect(Remaining(ipv4.RangeSet{}, false)).To(Equal(ipv4.Universe()))
		prior := ipv4.MustRangeSet(idx(0, 100))
		remaining := Remaining(prior, true)
		Expect(remaining.Len()).To(Equal(ipv4.Size - 100))
		Expect(remaining.Contains(Successful(ipv4.FromIndex(99)))).To(BeFalse())
		Expect(remaining.Contains(Successful(ipv4.FromIndex(100)))).To(BeTrue())
	})

	It("scans a range using several workers", NodeTimeout(10*time.Second), func(ctx context.Context) {
		c := New(below(1000), WithWorkers(4))
		Expect(c.Workers()).To(Equal(4))
		Expect(c.State()).To(Equal(Idle))

		outcome := Successful(c.Run(ctx, idx(0, 2000)))
		Expect(c.State()).To(Equal(Completed))
		Expect(outcome.Cancelled).To(BeFalse())
		Expect(outcome.Reports).To(HaveLen(4))
		for n, report := range outcome.Reports {
			Expect(report.Worker).To(Equal(n + 1))
			Expect(report.Chunk.Len()).To(Equal(uint64(500)))
			Expect(report.Finished()).To(BeTrue())
			Expect(report.Results).To(HaveLen(500))
			first := Successful(report.Chunk.At(0))
			Expect(report.Results[0].Address).To(Equal(first))
			last, ok := report.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Index()).To(Equal(uint32(500*n + 499)))
		}

		Expect(outcome.Probed()).To(Equal(uint64(2000)))
		reachable := 0
		for _, result := range outcome.Results() {
			if result.Reachable {
				reachable++
			}
		}
		Expect(reachable).To(Equal(1000))
		Expect(Successful(outcome.Covered())).To(Equal(ipv4.MustRangeSet(idx(0, 2000))))

		Expect(c.Total()).To(Equal(uint64(2000)))
		Expect(c.Progress()).To(Equal(uint64(2000)))
		Expect(c.WorkerProgress()).To(ConsistOf(
			uint64(500), uint64(500), uint64(500), uint64(500)))
	})

	It("scans a set of disjoint ranges", NodeTimeout(10*time.Second), func(ctx context.Context) {
		set := ipv4.MustRangeSet(idx(0, 10), idx(100, 105))
		c := New(below(0), WithWorkers(3))
		outcome := Successful(c.Run(ctx, set))
		Expect(outcome.Reports).To(HaveLen(3))
		Expect(outcome.Reports[0].Chunk.Len()).To(Equal(uint64(5)))
		Expect(outcome.Reports[2].Chunk.Ranges()).To(ConsistOf(idx(100, 105)))
		Expect(outcome.Reports[1].Chunk.Ranges()).To(ConsistOf(idx(5, 10)))
		Expect(Successful(outcome.Covered())).To(Equal(set))
	})

	It("copes with more workers than addresses", NodeTimeout(10*time.Second), func(ctx context.Context) {
		c := New(below(1), WithWorkers(5))
		outcome := Successful(c.Run(ctx, idx(0, 3)))
		Expect(outcome.Reports).To(HaveLen(5))
		Expect(outcome.Cancelled).To(BeFalse())
		Expect(outcome.Probed()).To(Equal(uint64(3)))
		_, ok := outcome.Reports[4].Last()
		Expect(ok).To(BeFalse())
	})

	It("reports exactly the covered prefix after cancellation", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		var probeCtxErr atomic.Value
		c := New(ProbeFunc(func(probectx context.Context, addr ipv4.Address) bool {
			if addr.Index() == 49 {
				cancel()
				probeCtxErr.Store(probectx.Err() == nil)
			}
			return true
		}), WithWorkers(1))

		outcome := Successful(c.Run(ctx, idx(0, 100)))
		Expect(probeCtxErr.Load()).To(BeTrue(), "probe context got cancelled")
		Expect(outcome.Cancelled).To(BeTrue())
		Expect(outcome.Reports).To(HaveLen(1))
		report := outcome.Reports[0]
		Expect(report.Finished()).To(BeFalse())
		Expect(report.Covered.Ranges()).To(ConsistOf(idx(0, 50)))
		Expect(report.Results).To(HaveLen(50))
		last, ok := report.Last()
		Expect(ok).To(BeTrue())
		Expect(last.Index()).To(Equal(uint32(49)))
		Expect(c.Progress()).To(Equal(uint64(50)))
	})

	It("cancels all workers", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		var probed atomic.Int64
		c := New(ProbeFunc(func(context.Context, ipv4.Address) bool {
			if probed.Add(1) == 100 {
				cancel()
			}
			return false
		}), WithWorkers(4))

		outcome := Successful(c.Run(ctx, idx(0, 100_000)))
		Expect(outcome.Cancelled).To(BeTrue())
		Expect(outcome.Probed()).To(Equal(uint64(probed.Load())))
		for _, report := range outcome.Reports {
			Expect(report.Covered.Len()).To(Equal(uint64(len(report.Results))))
			for n, result := range report.Results {
				Expect(result.Address).To(Equal(Successful(report.Chunk.At(int64(n)))))
			}
		}
		covered := Successful(outcome.Covered())
		Expect(covered.Len()).To(Equal(uint64(probed.Load())))
	})

	It("refuses to run twice at the same time", NodeTimeout(10*time.Second), func(ctx context.Context) {
		release := make(chan struct{})
		c := New(ProbeFunc(func(context.Context, ipv4.Address) bool {
			<-release
			return true
		}), WithWorkers(1))
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			_, _ = c.Run(ctx, idx(0, 1))
		}()
		Eventually(c.State).Should(Equal(Running))
		Expect(c.Run(ctx, idx(0, 1))).Error().To(MatchError(ErrBusy))
		close(release)
		Eventually(done).Should(BeClosed())
		Expect(c.State()).To(Equal(Completed))

		By("running again after completion")
		Expect(c.Run(ctx, idx(0, 0))).Error().NotTo(HaveOccurred())
	})

	It("names states", func() {
		Expect(Idle.String()).To(Equal("idle"))
		Expect(Running.String()).To(Equal("running"))
		Expect(Cancelling.String()).To(Equal("cancelling"))
		Expect(Completed.String()).To(Equal("completed"))
		Expect(State(42).String()).To(Equal("State(42)"))
	})

})
