// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/docker/docker/client"
)

// Container describes the networking of a running Docker container.
type Container struct {
	Name      string                  // container name, without Docker's leading slash.
	Pid       int                     // PID of the container's initial process.
	Netns     string                  // filesystem path referencing the container's network namespace.
	Addresses map[string]ipv4.Address // IPv4 addresses by attached network name.
}

// Networks returns the names of the attached networks with IPv4 addresses,
// in lexicographic order.
func (c *Container) Networks() []string {
	names := make([]string, 0, len(c.Addresses))
	for name := range c.Addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inspect the container identified by its name or ID, returning the details
// needed to probe addresses from inside the container's network namespace.
// Inspect fails if the container isn't running.
func Inspect(ctx context.Context, moby client.ContainerAPIClient, nameOrID string) (*Container, error) {
	details, err := moby.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	if details.State == nil || details.State.Pid == 0 {
		return nil, fmt.Errorf("container '%s' is not running", nameOrID)
	}
	cntr := &Container{
		Name:      strings.TrimPrefix(details.Name, "/"), // argh, Docker's "/name" legacy!
		Pid:       details.State.Pid,
		Netns:     fmt.Sprintf("/proc/%d/ns/net", details.State.Pid),
		Addresses: map[string]ipv4.Address{},
	}
	if details.NetworkSettings == nil {
		return cntr, nil
	}
	for netname, endpoint := range details.NetworkSettings.Networks {
		if endpoint == nil || endpoint.IPAddress == "" {
			continue
		}
		addr, err := ipv4.ParseAddress(endpoint.IPAddress)
		if err != nil {
			continue
		}
		cntr.Addresses[netname] = addr
	}
	return cntr, nil
}

// NetnsOfContainer returns the filesystem path referencing the network
// namespace of the specified running container.
func NetnsOfContainer(ctx context.Context, moby client.ContainerAPIClient, nameOrID string) (string, error) {
	cntr, err := Inspect(ctx, moby, nameOrID)
	if err != nil {
		return "", err
	}
	return cntr.Netns, nil
}

// NewClient returns a new Docker client connected to the default socket API
// location on the local host.
func NewClient() (*client.Client, error) {
	return client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
}
