// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package stats_test

import (
	"bytes"
	"context"
	"sync/atomic"
	"time"

	"github.com/siemens/ipatlas/stats"
	"github.com/siemens/ipatlas/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("progress reporter", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	DescribeTable("formats durations",
		func(d time.Duration, expected string) {
			Expect(stats.Duration(d)).To(Equal(expected))
		},
		Entry(nil, time.Duration(0), "0:00:00"),
		Entry(nil, 59*time.Second+999*time.Millisecond, "0:00:59"),
		Entry(nil, 61*time.Minute+5*time.Second, "1:01:05"),
		Entry(nil, 100*time.Hour, "100:00:00"),
	)

	It("renders probing throughput", func() {
		r := stats.New(types.Probing, nil)
		Expect(r.Line(0, 0)).To(Equal("Pinged 0 ips in 0:00:00; 0 ips/sec; 0 ips/min; 0 ips/hour"))
		Expect(r.Line(42, 900*time.Millisecond)).To(Equal(
			"Pinged 42 ips in 0:00:00; 0 ips/sec; 0 ips/min; 0 ips/hour"))
		Expect(r.Line(1000, 10*time.Second+500*time.Millisecond)).To(Equal(
			"Pinged 1000 ips in 0:00:10; 100 ips/sec; 6000 ips/min; 360000 ips/hour"))
		Expect(r.Line(7, 2*time.Minute)).To(Equal(
			"Pinged 7 ips in 0:02:00; 0 ips/sec; 3 ips/min; 210 ips/hour"))
	})

	DescribeTable("renders progress",
		func(kind types.WorkerKind, expected string) {
			r := stats.New(kind, nil, stats.WithTotal(64))
			Expect(r.Line(12, 7*time.Second)).To(Equal(expected))
		},
		Entry(nil, types.Loading, "Loaded 12/64 tiles; 0:00:07 elapsed"),
		Entry(nil, types.Saving, "Saved 12/64 tiles; 0:00:07 elapsed"),
		Entry(nil, types.Rendering, "Rendered 12/64 results; 0:00:07 elapsed"),
	)

	It("reports until stopped", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var count atomic.Uint64
		var buf bytes.Buffer
		r := stats.New(types.Saving, count.Load,
			stats.WithTotal(64), stats.WithInterval(10*time.Millisecond), stats.WithWriter(&buf))
		stop := r.Start(ctx)
		count.Store(32)
		time.Sleep(50 * time.Millisecond)
		count.Store(64)
		stop()
		Expect(buf.String()).To(ContainSubstring("Saved 64/64 tiles"))
	})

})
