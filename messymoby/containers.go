// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package messymoby

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	gi "github.com/onsi/ginkgo/v2"
)

// SleeperImage is the image used for throw-away test containers.
const SleeperImage = "busybox:latest"

// RunSleeper starts a throw-away test container with the specified name that
// just sleeps, labelled with [MessyMobyLabel]. The container gets removed
// when the current test ends.
func RunSleeper(ctx context.Context, name string) {
	gi.GinkgoHelper()

	Docker(ctx, "run", "-d", "--rm",
		"--label", MessyMobyLabel,
		"--name", name,
		SleeperImage, "sleep", "300")
	gi.DeferCleanup(func(ctx context.Context) {
		Docker(ctx, "rm", "-f", name)
	})
}

// RemoveTestContainers removes all containers, dead or alive, carrying the
// specified label.
func RemoveTestContainers(ctx context.Context, cln *client.Client, labelname string) error {
	cntrs, err := cln.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", labelname)),
	})
	if err != nil {
		return err
	}
	for _, cntr := range cntrs {
		_ = cln.ContainerRemove(ctx, cntr.ID, container.RemoveOptions{Force: true})
	}
	return nil
}
