// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import "errors"

var (
	// ErrValue signals an invalid value, such as an octet outside 0-255, a
	// range with its start beyond its stop, or overlapping ranges.
	ErrValue = errors.New("ipv4: invalid value")

	// ErrOverflow signals address arithmetic beyond 255.255.255.255.
	ErrOverflow = errors.New("ipv4: address overflow")

	// ErrUnderflow signals address arithmetic below 0.0.0.0.
	ErrUnderflow = errors.New("ipv4: address underflow")

	// ErrIndex signals an index outside a range or range set.
	ErrIndex = errors.New("ipv4: index out of range")

	// ErrSlice signals an unsupported slice shape (reversed or stepped).
	ErrSlice = errors.New("ipv4: unsupported slice")
)
