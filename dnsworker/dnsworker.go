// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrNoNames signals a reverse lookup without any PTR answers.
var ErrNoNames = errors.New("no PTR answers")

// Pool of DNS workers, each owning its own client connection to the same DNS
// server.
type Pool struct {
	netns   relations.Relation // network namespace to dial from, or nil.
	client  *dns.Client
	workers *workerpool.WorkerPool
	conns   chan *dns.Conn // idle connections; there are never more than workers.
}

// PoolOption can be passed to New when creating new [Pool] objects.
type PoolOption func(*Pool)

// New returns a pool of size workers, dialing a client connection to the DNS
// server for each worker upfront. The context only applies to dialing.
// Submitted tasks need to bring their own context where necessary.
//
// Use [InNetworkNamespace] to dial the connections from inside a different
// network namespace than the one of the caller.
func New(ctx context.Context, size int, client *dns.Client, server string, options ...PoolOption) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("DNS pool size must be positive, got %d", size)
	}
	p := &Pool{
		client: client,
		conns:  make(chan *dns.Conn, size),
	}
	for _, opt := range options {
		opt(p)
	}
	if err := p.dial(ctx, size, server); err != nil {
		return nil, err
	}
	p.workers = workerpool.New(size)
	return p, nil
}

// InNetworkNamespace dials the DNS connections from inside the network
// namespace referenced by the specified filesystem path, such as
// "/proc/666/ns/net".
func InNetworkNamespace(netnsref string) PoolOption {
	return func(p *Pool) {
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// dial the specified number of connections to the server, switching into the
// pool's network namespace first if necessary. Either all connections get
// dialed successfully, or none is left open.
func (p *Pool) dial(ctx context.Context, count int, server string) error {
	dialAll := func() interface{} {
		for i := 0; i < count; i++ {
			conn, err := p.client.DialContext(ctx, server)
			if err != nil {
				p.closeIdle()
				return err
			}
			p.conns <- conn
		}
		return nil
	}
	if p.netns == nil {
		if err, _ := dialAll().(error); err != nil {
			return fmt.Errorf("cannot dial DNS server %s: %w", server, err)
		}
		return nil
	}
	result, err := ops.Execute(dialAll, p.netns)
	if err == nil {
		err, _ = result.(error)
	}
	if err != nil {
		p.closeIdle()
		return fmt.Errorf("cannot dial DNS server %s from network namespace: %w", server, err)
	}
	return nil
}

// Submit a task to be run as soon as a worker becomes available, passing it
// the worker's connection.
func (p *Pool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() {
		conn := <-p.conns
		defer func() { p.conns <- conn }()
		task(conn)
	})
}

// ResolveAddr submits a reverse (PTR) lookup of the specified address and
// passes either the names found or an error to fn. Lookups still queued when
// the context gets cancelled won't query the DNS server anymore but report
// the context's error instead.
func (p *Pool) ResolveAddr(ctx context.Context, addr ipv4.Address, fn func([]string, error)) {
	p.Submit(func(conn *dns.Conn) {
		if err := ctx.Err(); err != nil {
			fn(nil, err)
			return
		}
		fn(p.lookup(conn, addr))
	})
}

// lookup the PTR records of the specified address using the connection.
func (p *Pool) lookup(conn *dns.Conn, addr ipv4.Address) ([]string, error) {
	arpa, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return nil, err
	}
	query := new(dns.Msg)
	query.SetQuestion(arpa, dns.TypePTR)
	reply, _, err := p.client.ExchangeWithConn(query, conn)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, rr := range reply.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("reverse lookup of %s, rcode %s: %w",
			arpa, dns.RcodeToString[reply.Rcode], ErrNoNames)
	}
	return names, nil
}

// LookupAddrs reverse resolves the specified addresses concurrently, waiting
// for all lookups to finish. Addresses that cannot be resolved are missing
// from the returned map.
func (p *Pool) LookupAddrs(ctx context.Context, addrs []ipv4.Address) map[ipv4.Address][]string {
	var mu sync.Mutex
	var wg sync.WaitGroup
	names := map[ipv4.Address][]string{}
	wg.Add(len(addrs))
	for _, addr := range addrs {
		addr := addr
		p.ResolveAddr(ctx, addr, func(ptrs []string, err error) {
			defer wg.Done()
			if err != nil {
				log.Debugf("reverse lookup of %s failed: %s", addr, err.Error())
				return
			}
			mu.Lock()
			names[addr] = ptrs
			mu.Unlock()
		})
	}
	wg.Wait()
	return names
}

// SystemResolver returns the address of the first name server configured in
// /etc/resolv.conf, falling back to the local host.
func SystemResolver() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "127.0.0.1:53"
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// StopWait waits for all submitted tasks to finish and then closes the DNS
// connections.
func (p *Pool) StopWait() {
	p.workers.StopWait()
	p.closeIdle()
}

// closeIdle closes all idle connections.
func (p *Pool) closeIdle() {
	for {
		select {
		case conn := <-p.conns:
			conn.Close()
		default:
			return
		}
	}
}
