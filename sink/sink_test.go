// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sink

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/scan"
	"github.com/siemens/ipatlas/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

func idx(start, stop uint64) ipv4.Range {
	GinkgoHelper()
	return Successful(ipv4.RangeFromIndices(start, stop))
}

type recorder struct {
	mu     sync.Mutex
	pixels map[ipv4.Address]bool
	fail   ipv4.Address
}

func (r *recorder) WritePixel(addr ipv4.Address, reachable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if addr == r.fail {
		return errors.New("pixel on fire")
	}
	r.pixels[addr] = reachable
	return nil
}

var _ = Describe("result sink", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	var outcome *scan.Outcome

	BeforeEach(func(ctx context.Context) {
		c := scan.New(scan.ProbeFunc(func(_ context.Context, addr ipv4.Address) bool {
			return addr.Index()%2 == 0
		}), scan.WithWorkers(3))
		outcome = Successful(c.Run(ctx, idx(1000, 1100)))
	})

	It("collects outcomes", func() {
		s := New()
		s.Collect(outcome)
		Expect(s.Results()).To(HaveLen(100))
		Expect(s.Reachable()).To(Equal(50))
		Expect(Successful(s.Covered())).To(Equal(ipv4.MustRangeSet(idx(1000, 1100))))
	})

	It("merges with prior coverage", func() {
		s := New()
		s.Collect(outcome)

		coverage := Successful(s.Coverage(ipv4.RangeSet{}, false))
		Expect(coverage).To(Equal(ipv4.MustRangeSet(idx(1000, 1100))))

		coverage = Successful(s.Coverage(ipv4.MustRangeSet(idx(0, 1000), idx(2000, 3000)), true))
		Expect(coverage).To(Equal(ipv4.MustRangeSet(idx(0, 1100), idx(2000, 3000))))

		Expect(s.Coverage(ipv4.MustRangeSet(idx(1050, 1060)), true)).Error().To(MatchError(ipv4.ErrValue))
	})

	It("refuses to cover addresses twice", func() {
		s := New()
		s.Collect(outcome)
		s.Collect(outcome)
		Expect(s.Covered()).Error().To(MatchError(ipv4.ErrValue))
	})

	It("summarizes reachable addresses", func() {
		s := New()
		s.Add([]types.Result{
			{Address: ipv4.MustNew(10, 0, 0, 0), Reachable: true},
			{Address: ipv4.MustNew(10, 0, 0, 1), Reachable: true},
			{Address: ipv4.MustNew(10, 0, 0, 2), Reachable: false},
			{Address: ipv4.MustNew(192, 168, 0, 1), Reachable: true},
		}, nil)
		set := Successful(s.ReachableSet())
		Expect(set.Prefixes()).To(Equal([]netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/31"),
			netip.MustParsePrefix("192.168.0.1/32"),
		}))
		Expect(s.Tiles()).To(Equal([]int{0, 6}))
	})

	It("renders results", NodeTimeout(10*time.Second), func(ctx context.Context) {
		s := New()
		s.Collect(outcome)
		r := &recorder{pixels: map[ipv4.Address]bool{}, fail: ipv4.Last}
		Expect(s.Render(ctx, r, 4)).To(Succeed())
		Expect(s.Rendered()).To(Equal(uint64(100)))
		Expect(r.pixels).To(HaveLen(100))
		for _, result := range s.Results() {
			Expect(r.pixels).To(HaveKeyWithValue(result.Address, result.Reachable))
		}
	})

	It("renders more workers than results", NodeTimeout(10*time.Second), func(ctx context.Context) {
		s := New()
		s.Add([]types.Result{{Address: ipv4.MustNew(1, 2, 3, 4), Reachable: true}}, nil)
		r := &recorder{pixels: map[ipv4.Address]bool{}, fail: ipv4.Last}
		Expect(s.Render(ctx, r, 16)).To(Succeed())
		Expect(r.pixels).To(HaveLen(1))
	})

	It("reports rendering failures", NodeTimeout(10*time.Second), func(ctx context.Context) {
		s := New()
		s.Collect(outcome)
		r := &recorder{pixels: map[ipv4.Address]bool{}, fail: s.Results()[42].Address}
		Expect(s.Render(ctx, r, 2)).To(MatchError("pixel on fire"))
	})

	It("stops rendering when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := New()
		s.Collect(outcome)
		r := &recorder{pixels: map[ipv4.Address]bool{}, fail: ipv4.Last}
		Expect(s.Render(ctx, r, 2)).To(MatchError(context.Canceled))
		Expect(r.pixels).To(BeEmpty())
	})

	It("renders into an atlas", NodeTimeout(30*time.Second), func(ctx context.Context) {
		s := New()
		s.Collect(outcome)
		a := atlas.New(atlas.NewMemStore())
		Expect(a.Load(ctx, s.Tiles(), 1)).To(Succeed())
		Expect(s.Render(ctx, a, 4)).To(Succeed())
		for _, result := range s.Results() {
			value, ok := a.Pixel(result.Address)
			Expect(ok).To(BeTrue())
			if result.Reachable {
				Expect(value).To(Equal(atlas.Reachable))
			} else {
				Expect(value).To(Equal(atlas.Unreachable))
			}
		}
	})

})
