// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
	. "github.com/thediveo/success"
)

// unreachable is a local DNS server address nobody listens on.
const unreachable = "127.0.0.1:1"

var _ = Describe("DNS worker pool", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("rejects empty pools", func(ctx context.Context) {
		Expect(New(ctx, 0, &dns.Client{}, unreachable)).Error().To(HaveOccurred())
	})

	It("hands each concurrent task its own connection", NodeTimeout(30*time.Second), func(ctx context.Context) {
		const size = 3

		// UDP "connections" can be dialed without anyone listening.
		pool := Successful(New(ctx, size, &dns.Client{Net: "udp"}, unreachable))

		var mu sync.Mutex
		inuse := map[*dns.Conn]bool{}
		seen := map[*dns.Conn]int{}
		var clashes, running, maxRunning atomic.Int32
		for i := 0; i < 3*size; i++ {
			pool.Submit(func(conn *dns.Conn) {
				mu.Lock()
				if inuse[conn] {
					clashes.Add(1)
				}
				inuse[conn] = true
				seen[conn]++
				mu.Unlock()
				if n := running.Add(1); n > maxRunning.Load() {
					maxRunning.Store(n)
				}
				time.Sleep(100 * time.Millisecond)
				running.Add(-1)
				mu.Lock()
				inuse[conn] = false
				mu.Unlock()
			})
		}
		pool.StopWait()

		Expect(clashes.Load()).To(BeZero())
		Expect(maxRunning.Load()).To(BeNumerically("<=", size))
		Expect(seen).To(HaveLen(size))
		total := 0
		for _, count := range seen {
			total += count
		}
		Expect(total).To(Equal(3 * size))
	})

	It("reverse resolves an address", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if os.Getenv("IPATLAS_OFFLINE") != "" {
			Skip("offline")
		}
		pool := Successful(New(ctx, 1, &dns.Client{}, "8.8.8.8:53"))
		defer pool.StopWait()
		Expect(pool.LookupAddrs(ctx, []ipv4.Address{ipv4.MustNew(8, 8, 8, 8)})).To(
			HaveKeyWithValue(ipv4.MustNew(8, 8, 8, 8), ContainElement("dns.google.")))
	})

	It("reports resolution failures", NodeTimeout(30*time.Second), func(ctx context.Context) {
		pool := Successful(New(ctx, 1, &dns.Client{Net: "udp", Timeout: time.Second}, unreachable))
		defer pool.StopWait()

		errch := make(chan error, 1)
		pool.ResolveAddr(ctx, ipv4.MustNew(192, 0, 2, 1), func(names []string, err error) {
			if len(names) != 0 {
				err = nil
			}
			errch <- err
		})
		Eventually(errch).Should(Receive(HaveOccurred()))
		Expect(pool.LookupAddrs(ctx, []ipv4.Address{ipv4.MustNew(192, 0, 2, 1)})).To(BeEmpty())
	})

	It("doesn't query when cancelled", NodeTimeout(30*time.Second), func(ctx context.Context) {
		pool := Successful(New(ctx, 1, &dns.Client{Net: "udp"}, unreachable))
		defer pool.StopWait()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		errch := make(chan error, 1)
		pool.ResolveAddr(cctx, ipv4.MustNew(127, 0, 0, 1), func(_ []string, err error) {
			errch <- err
		})
		Eventually(errch).Should(Receive(MatchError(context.Canceled)))
	})

	It("finds the system resolver", func() {
		Expect(SystemResolver()).To(MatchRegexp(`:\d+$`))
	})

	It("dials from inside a network namespace", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		pool := Successful(New(ctx, 2, &dns.Client{Net: "udp"}, unreachable,
			InNetworkNamespace("/proc/self/ns/net")))
		pool.StopWait()
	})

	It("fails for invalid network namespaces", NodeTimeout(30*time.Second), func(ctx context.Context) {
		Expect(New(ctx, 1, &dns.Client{Net: "udp"}, unreachable,
			InNetworkNamespace("/proc/self/ns/nonexisting"))).Error().To(HaveOccurred())
	})

})
