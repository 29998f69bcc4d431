// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/dnsworker"
	"github.com/siemens/ipatlas/ipv4"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
)

func newLocateCmd() *cobra.Command {
	var ptr bool
	cmd := &cobra.Command{
		Use:   "locate X,Y|address...",
		Short: "convert stitched atlas coordinates into addresses, and addresses into coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return locate(cmd.Context(), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()), args, ptr)
		},
	}
	cmd.Flags().BoolVar(&ptr, "ptr", false, "look up the DNS names of the addresses")
	return cmd
}

// location of an address in the atlas.
type location struct {
	addr ipv4.Address
	pos  atlas.Position
}

// parseLocation parses either "X,Y" coordinates of the full-size stitched
// atlas or a dotted-quad address.
func parseLocation(arg string) (location, error) {
	xs, ys, found := strings.Cut(arg, ",")
	if !found {
		addr, err := ipv4.ParseAddress(arg)
		if err != nil {
			return location{}, err
		}
		return location{addr: addr, pos: atlas.Locate(addr)}, nil
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return location{}, fmt.Errorf("invalid X coordinate %q: %w", xs, ipv4.ErrValue)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return location{}, fmt.Errorf("invalid Y coordinate %q: %w", ys, ipv4.ErrValue)
	}
	addr, err := atlas.AddressAtCoord(x, y)
	if err != nil {
		return location{}, err
	}
	return location{addr: addr, pos: atlas.Locate(addr)}, nil
}

// locate prints the addresses and coordinates of the specified locations,
// optionally together with their DNS names.
func locate(ctx context.Context, con *console, args []string, ptr bool) error {
	locations := make([]location, 0, len(args))
	for _, arg := range args {
		loc, err := parseLocation(arg)
		if err != nil {
			return err
		}
		locations = append(locations, loc)
	}
	var names map[ipv4.Address][]string
	if ptr {
		addrs := make([]ipv4.Address, len(locations))
		for idx, loc := range locations {
			addrs[idx] = loc.addr
		}
		pool, err := dnsworker.New(ctx, min(len(addrs), 4), &dns.Client{}, dnsworker.SystemResolver())
		if err != nil {
			return fmt.Errorf("cannot reach DNS resolver: %w", err)
		}
		names = pool.LookupAddrs(ctx, addrs)
		pool.StopWait()
	}
	for _, loc := range locations {
		x, y := loc.pos.Coord()
		con.Printf("%d,%d: %s %s", x, y, headingStyle.Styled(loc.addr.String()), loc.pos)
		if ptrs := names[loc.addr]; len(ptrs) > 0 {
			con.Printf(" %s", strings.Join(ptrs, " "))
		}
		con.Printf("\n")
	}
	return nil
}
