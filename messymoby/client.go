// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package messymoby

import (
	"context"
	"os"
	"os/exec"

	"github.com/docker/docker/client"
	"github.com/onsi/gomega/gexec"

	gi "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	s "github.com/thediveo/success"
)

// MessyMobyLabel is the name of a “magic” label for tagging testing-related
// containers.
const MessyMobyLabel = "messymoby"

// DockerSocket is the path of the Docker API socket on the local host.
const DockerSocket = "/var/run/docker.sock"

// SkipWithoutDocker skips the current test unless the Docker API socket is
// available and the test runs as root.
func SkipWithoutDocker() {
	if os.Getuid() != 0 {
		gi.Skip("needs root")
	}
	if _, err := os.Stat(DockerSocket); err != nil {
		gi.Skip("needs Docker")
	}
}

// NewClient returns a new Docker client connected to the default socket API
// location on the local host.
func NewClient() *client.Client {
	gi.GinkgoHelper()

	return s.Successful(client.NewClientWithOpts(
		client.WithHost("unix://"+DockerSocket),
		client.WithAPIVersionNegotiation(),
	))
}

// Docker executes the docker CLI with the specified arguments, waiting for it
// to gracefully finish with exit code 0.
func Docker(ctx context.Context, args ...string) {
	gi.GinkgoHelper()

	cmd := exec.Command("docker", args...)
	sess := s.Successful(gexec.Start(cmd, gi.GinkgoWriter, gi.GinkgoWriter))
	g.Eventually(sess).WithContext(ctx).Should(gexec.Exit(0))
}

// Cleanup removes all test containers.
func Cleanup(ctx context.Context) {
	cln := NewClient()
	defer cln.Close()
	RemoveTestContainers(ctx, cln, MessyMobyLabel)
}
