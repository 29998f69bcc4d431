// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// WorkerKind tags the pipeline stage a set of workers belongs to, so that
// progress reporting knows what it is reporting on.
type WorkerKind int

// The stages of a scan cycle.
const (
	Probing   WorkerKind = iota // pinging addresses.
	Loading                     // loading atlas tiles.
	Rendering                   // writing results into atlas tiles.
	Saving                      // saving atlas tiles.
)

// String returns the clear-text representation of a WorkerKind value.
func (k WorkerKind) String() string {
	switch k {
	case Probing:
		return "probing"
	case Loading:
		return "loading"
	case Rendering:
		return "rendering"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("WorkerKind(%d)", k)
}

// Verb returns the past-tense verb describing the work done by this kind of
// workers, such as "pinged" for probing workers.
func (k WorkerKind) Verb() string {
	switch k {
	case Probing:
		return "pinged"
	case Loading:
		return "loaded"
	case Rendering:
		return "rendered"
	case Saving:
		return "saved"
	}
	return "processed"
}

// IsTileStage returns true for the stages working on atlas tiles instead of
// individual addresses.
func (k WorkerKind) IsTileStage() bool {
	switch k {
	case Loading, Saving:
		return true
	default:
		return false
	}
}
