// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"time"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultTimeout is the time a Pinger waits for echo replies by default.
const DefaultTimeout = 2 * time.Second

var errNoReplies = errors.New("no echo replies")

// Pinger probes individual IPv4 addresses for reachability by sending ICMP
// echo requests (“pings”) and waiting for at least one echo reply.
//
// Pingers are stateless after creation and thus can be used by many probing
// workers concurrently.
type Pinger struct {
	count        int           // number of pings to send.
	interval     time.Duration // distance between pings.
	timeout      time.Duration // maximum time to wait for replies.
	unprivileged bool          // if true, uses UDP-based pings instead of privileged ICMPs.

	netns relations.Relation // network namespace to ping from, or nil.
}

// PingerOption can be passed to New when creating new Pinger objects.
type PingerOption func(*Pinger)

// New returns a new [Pinger], defaulting to a single ping that times out after
// [DefaultTimeout].
//
// The pinger can be configured during creation using several options:
//   - [WithCount]
//   - [WithInterval]
//   - [WithTimeout]
//   - [AsUnprivileged]
//
// To ping from inside a network namespace different to that of the OS-level
// thread of the caller specify the [InNetworkNamespace] option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(options ...PingerOption) *Pinger {
	p := &Pinger{
		count:    1,
		interval: time.Second,
		timeout:  DefaultTimeout,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// InNetworkNamespace optionally runs the pings of a [Pinger] inside the
// network namespace referenced by the specified filesystem path.
func InNetworkNamespace(netnsref string) PingerOption {
	return func(p *Pinger) {
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of pings for testing reachability of an IP address.
func WithCount(count uint) PingerOption {
	return func(p *Pinger) {
		if count > 0 {
			p.count = int(count)
		}
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) PingerOption {
	return func(p *Pinger) {
		p.interval = interval
	}
}

// WithTimeout sets the maximum time to wait for echo replies.
func WithTimeout(timeout time.Duration) PingerOption {
	return func(p *Pinger) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// AsUnprivileged tells the Pinger to carry out unprivileged pings using UDP
// instead of ICMP packets.
func AsUnprivileged() PingerOption {
	return func(p *Pinger) {
		p.unprivileged = true
	}
}

// Probe pings the specified address and returns true if at least one echo
// reply was received before the timeout. Probe never fails: any error, be it
// in setting up the ping, switching network namespaces, or sending, makes the
// address unreachable.
//
// Probing is aborted when the specified context gets cancelled or meets its
// deadline; the address then is considered unreachable.
func (p *Pinger) Probe(ctx context.Context, addr ipv4.Address) bool {
	err := p.run(ctx, addr)
	if err != nil && !errors.Is(err, errNoReplies) {
		log.Debugf("probing %s failed: %s", addr, err.Error())
	}
	return err == nil
}

// run does the real work of pinging an address, switching into the
// configured network namespace first, if necessary.
func (p *Pinger) run(ctx context.Context, addr ipv4.Address) error {
	pingfn := func() interface{} {
		if err := ctx.Err(); err != nil {
			return err
		}
		pinger, err := ping.NewPinger(addr.String())
		if err != nil {
			return err
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = p.count
		pinger.Interval = p.interval
		pinger.Timeout = p.timeout
		// Stop the pinger as soon as the context is done; the done channel
		// ends the monitoring when the pinger finishes on its own.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err := pinger.Run(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if pinger.Statistics().PacketsRecv == 0 {
			return errNoReplies
		}
		return nil
	}
	if p.netns == nil {
		if res := pingfn(); res != nil {
			return res.(error)
		}
		return nil
	}
	// lxkns' ops.Execute differentiates between a namespace switching error
	// and the result of the function called in the switched namespace.
	res, err := ops.Execute(pingfn, p.netns)
	if err != nil {
		return err
	}
	if fnerr, ok := res.(error); ok {
		return fnerr
	}
	return nil
}
