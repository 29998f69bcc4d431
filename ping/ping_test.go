// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"os"
	"time"

	"github.com/siemens/ipatlas/ipv4"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
)

var _ = Describe("pinger", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("applies options", func() {
		p := New(
			WithCount(3),
			WithInterval(100*time.Millisecond),
			WithTimeout(500*time.Millisecond),
			AsUnprivileged())
		Expect(p.count).To(Equal(3))
		Expect(p.interval).To(Equal(100 * time.Millisecond))
		Expect(p.timeout).To(Equal(500 * time.Millisecond))
		Expect(p.unprivileged).To(BeTrue())
		Expect(p.netns).To(BeNil())

		p = New(WithCount(0), WithTimeout(0))
		Expect(p.count).To(Equal(1))
		Expect(p.timeout).To(Equal(DefaultTimeout))
	})

	It("never probes with a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(New().Probe(ctx, ipv4.MustNew(127, 0, 0, 1))).To(BeFalse())
	})

	It("treats namespace switching failures as unreachable", NodeTimeout(10*time.Second), func(ctx context.Context) {
		p := New(InNetworkNamespace("/proc/self/ns/nonexisting"))
		Expect(p.Probe(ctx, ipv4.MustNew(127, 0, 0, 1))).To(BeFalse())
	})

	When("privileged", func() {

		BeforeEach(func() {
			if os.Getuid() != 0 {
				Skip("needs root")
			}
		})

		It("finds the loopback address reachable", NodeTimeout(10*time.Second), func(ctx context.Context) {
			Expect(New().Probe(ctx, ipv4.MustNew(127, 0, 0, 1))).To(BeTrue())
		})

		It("doesn't find a documentation address reachable", NodeTimeout(10*time.Second), func(ctx context.Context) {
			p := New(WithTimeout(500 * time.Millisecond))
			Expect(p.Probe(ctx, ipv4.MustNew(192, 0, 2, 1))).To(BeFalse())
		})

		It("pings from inside a network namespace", NodeTimeout(10*time.Second), func(ctx context.Context) {
			p := New(InNetworkNamespace("/proc/self/ns/net"))
			Expect(p.Probe(ctx, ipv4.MustNew(127, 0, 0, 1))).To(BeTrue())
		})

		It("aborts an in-flight probe", NodeTimeout(10*time.Second), func(ctx context.Context) {
			p := New(WithCount(5), WithTimeout(5*time.Second))
			ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
			defer cancel()
			start := time.Now()
			Expect(p.Probe(ctx, ipv4.MustNew(192, 0, 2, 1))).To(BeFalse())
			Expect(time.Since(start)).To(BeNumerically("<", 3*time.Second))
		})

	})

})
