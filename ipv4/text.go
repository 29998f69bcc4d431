// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// ParseRange parses a non-empty range in "first-last" notation, where both
// addresses are included.
func ParseRange(s string) (Range, error) {
	first, last, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Range{}, fmt.Errorf("malformed range %q: %w", s, ErrValue)
	}
	firstAddr, err := ParseAddress(strings.TrimSpace(first))
	if err != nil {
		return Range{}, err
	}
	lastAddr, err := ParseAddress(strings.TrimSpace(last))
	if err != nil {
		return Range{}, err
	}
	return NewRangeInclusive(firstAddr, lastAddr)
}

// MarshalText renders the set as one "first-last" range per line.
func (s RangeSet) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range s.ranges {
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// UnmarshalText parses the text produced by MarshalText, ignoring blank
// lines. The ranges are validated the same way as by [NewRangeSet].
func (s *RangeSet) UnmarshalText(text []byte) error {
	var ranges []Range
	scanner := bufio.NewScanner(bytes.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, err := ParseRange(line)
		if err != nil {
			return err
		}
		ranges = append(ranges, r)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	rs, err := NewRangeSet(ranges...)
	if err != nil {
		return err
	}
	*s = rs
	return nil
}
