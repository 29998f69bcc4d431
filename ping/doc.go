/*
Package ping implements the ICMPv4-based reachability probe of ipatlas.

A [Pinger] answers a single question per IPv4 address: did it reply to an
echo request within the timeout? [Pinger.Probe] thus returns a plain boolean
verdict and never fails; any transport or setup error simply makes the
address unreachable. This fits the scan coordinator's probe contract:

	pinger := ping.New(ping.WithTimeout(2 * time.Second))
	reachable := pinger.Probe(ctx, addr)

Pings are privileged ICMP echo requests by default, requiring CAP_NET_RAW.
Use [AsUnprivileged] to fall back to UDP-based “pings” where the kernel's
net.ipv4.ping_group_range permits. Using [InNetworkNamespace] a Pinger sends
its pings from inside another network namespace, such as that of a
container.

# Acknowledgements

Under its hood, [Pinger] leverages [go-ping/ping] for the actual pinging and
[lxkns] for switching network namespaces.

[go-ping/ping]: https://github.com/go-ping/ping
[lxkns]: https://github.com/thediveo/lxkns
*/
package ping
