// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"

	"github.com/siemens/ipatlas/ipv4"
)

// Result is the reachability verdict for a single probed address.
type Result struct {
	Address   ipv4.Address `json:"address"`   // probed address.
	Reachable bool         `json:"reachable"` // true if the address answered the probe.
}

// String returns the result in "address: verdict" notation.
func (r Result) String() string {
	return fmt.Sprintf("%s: %s", r.Address, r.Verdict())
}

// Verdict returns the clear-text verdict of this result.
func (r Result) Verdict() string {
	if r.Reachable {
		return "reachable"
	}
	return "unreachable"
}
