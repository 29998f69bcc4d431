// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/siemens/ipatlas/atlas"
	"github.com/siemens/ipatlas/config"
	"github.com/siemens/ipatlas/ipv4"
	"github.com/siemens/ipatlas/mapper"
	"github.com/siemens/ipatlas/mobynet"
	"github.com/siemens/ipatlas/ping"
	"github.com/siemens/ipatlas/stats"

	"github.com/spf13/cobra"
)

// scanOptions control how addresses get probed.
type scanOptions struct {
	container    string
	unprivileged bool
	timeout      time.Duration
	list         bool
}

func newScanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "ping the addresses not scanned yet until done, or stopped using Enter or Ctrl-C",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return scanCycle(cmd.Context(), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()), opts)
		},
	}
	cmd.Flags().StringVar(&opts.container, "container", "",
		"ping from inside the network namespace of this Docker container")
	cmd.Flags().BoolVar(&opts.unprivileged, "unprivileged", false,
		"use unprivileged UDP-based pings instead of raw ICMP sockets")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", ping.DefaultTimeout,
		"time to wait for an echo reply")
	cmd.Flags().BoolVar(&opts.list, "list", false,
		"list the reachable addresses found in CIDR notation")
	return cmd
}

// scanCycle runs a single scan cycle, stopping the scan on Enter, Ctrl-C, or
// SIGTERM. Stopping only ends pinging, the results gathered so far are still
// rendered and saved.
func scanCycle(ctx context.Context, con *console, opts scanOptions) error {
	settings, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}
	pinger, err := newPinger(ctx, con, opts)
	if err != nil {
		return err
	}
	m := mapper.New(pinger, tileStore(),
		mapper.WithThreads(settings.Active()),
		mapper.WithCoveragePath(*coveragePath),
		mapper.WithProgress(con.out, stats.DefaultInterval))

	scanctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	scanctx, cancel := context.WithCancel(scanctx)
	defer cancel()
	watchctx, unwatch := context.WithCancel(ctx)
	go func() {
		if _, ok := con.ReadLine(watchctx); ok {
			cancel()
		}
	}()

	con.Printf("%s using %s threads (%s); press Enter to stop\n",
		headingStyle.Styled("Scanning"), settings.ActiveName(), settings.Active())
	summary, err := m.Cycle(scanctx)
	unwatch()
	if err != nil {
		return err
	}
	printSummary(con, summary, opts.list)
	return nil
}

// newPinger returns a pinger configured according to the scan options.
func newPinger(ctx context.Context, con *console, opts scanOptions) (*ping.Pinger, error) {
	pingopts := []ping.PingerOption{ping.WithTimeout(opts.timeout)}
	if opts.unprivileged {
		pingopts = append(pingopts, ping.AsUnprivileged())
	}
	if opts.container != "" {
		moby, err := mobynet.NewClient()
		if err != nil {
			return nil, fmt.Errorf("cannot connect to the Docker daemon: %w", err)
		}
		defer moby.Close()
		cntr, err := mobynet.Inspect(ctx, moby, opts.container)
		if err != nil {
			return nil, fmt.Errorf("cannot scan from container: %w", err)
		}
		con.Printf("pinging from container %s (PID %d) attached to %s\n",
			headingStyle.Styled(cntr.Name), cntr.Pid, strings.Join(cntr.Networks(), ", "))
		pingopts = append(pingopts, ping.InNetworkNamespace(cntr.Netns))
	}
	return ping.New(pingopts...), nil
}

// printSummary prints the outcome of a scan cycle.
func printSummary(con *console, summary *mapper.Summary, list bool) {
	status := reachableStyle.Styled("completed")
	if summary.Cancelled {
		status = cancelledStyle.Styled("stopped")
	}
	con.Printf("Scan %s: pinged %d addresses in %s, %s reachable\n",
		status, summary.Probed, stats.Duration(summary.Elapsed),
		reachableStyle.Styled(fmt.Sprint(summary.Reachable)))
	covered := summary.Coverage.Len()
	con.Printf("Covered %d of %d addresses (%.4f%%)\n",
		covered, ipv4.Size, float64(covered)*100/float64(ipv4.Size))
	if len(summary.Tiles) > 0 {
		names := make([]string, len(summary.Tiles))
		for idx, tile := range summary.Tiles {
			names[idx] = atlas.TileName(tile)
		}
		con.Printf("Updated %s\n", strings.Join(names, ", "))
	}
	if !list {
		return
	}
	for _, prefix := range summary.Prefixes {
		con.Printf("  %s\n", reachableStyle.Styled(prefix.String()))
	}
}
