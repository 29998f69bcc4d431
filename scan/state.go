// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import "fmt"

// State of a [Coordinator] during a scan cycle.
type State int32

// The states of a scan cycle: Idle → Running → (Cancelling) → Completed.
const (
	Idle       State = iota // no scan started yet.
	Running                 // probing workers are busy.
	Cancelling              // cancelled, waiting for workers to finish their current probes.
	Completed               // all workers have joined.
)

// String returns the clear-text representation of a State value.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cancelling:
		return "cancelling"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("State(%d)", s)
}
