// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package coverage

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/siemens/ipatlas/ipv4"

	"github.com/thediveo/lxkns/log"
)

// None is the coverage file content when nothing has been scanned yet.
const None = "None"

// DefaultPath is the default location of the coverage file.
const DefaultPath = "checked_ranges.txt"

// Load reads the coverage of earlier scans from the specified file. It
// returns false if there is no prior coverage, which also is the case when
// the file is missing, unreadable, or malformed.
func Load(path string) (ipv4.RangeSet, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Infof("no coverage file %s, starting from scratch", path)
		} else {
			log.Warnf("cannot read coverage file %s, starting from scratch: %s", path, err.Error())
		}
		return ipv4.RangeSet{}, false
	}
	text := bytes.TrimSpace(data)
	if len(text) == 0 || string(text) == None {
		return ipv4.RangeSet{}, false
	}
	var covered ipv4.RangeSet
	if err := covered.UnmarshalText(text); err != nil {
		log.Warnf("malformed coverage file %s, starting from scratch: %s", path, err.Error())
		return ipv4.RangeSet{}, false
	}
	if covered.IsEmpty() {
		return ipv4.RangeSet{}, false
	}
	return covered, true
}

// Save atomically replaces the coverage file with the specified coverage; an
// empty coverage gets saved as [None].
func Save(path string, covered ipv4.RangeSet) error {
	if covered.IsEmpty() {
		return write(path, []byte(None))
	}
	text, err := covered.MarshalText()
	if err != nil {
		return err
	}
	return write(path, text)
}

// Reset atomically replaces the coverage file with [None].
func Reset(path string) error {
	return write(path, []byte(None))
}

// write data first into a temporary file in the same directory as path, and
// then rename it to path.
func write(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op after successful rename.
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
