/*
Package dnsworker runs DNS queries on a limited pool of workers, each worker
owning its own client connection to the same DNS server. ipatlas uses it for
reverse (PTR) lookups of the addresses located in the atlas.

	pool, err := dnsworker.New(ctx, 4, &dns.Client{}, dnsworker.SystemResolver())
	if err != nil {
	    ...
	}
	names := pool.LookupAddrs(ctx, []ipv4.Address{ipv4.MustNew(8, 8, 8, 8)})
	pool.StopWait()

Arbitrary queries can be run with [Pool.Submit], which hands the task the
connection of the worker running it.

The workers are [gammazero/workerpool] goroutines.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package dnsworker
