// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ipv4

import (
	"fmt"
	"net/netip"
)

// Size is the number of addresses in the IPv4 address space.
const Size = uint64(1) << 32

// Address is a single IPv4 address, consisting of the four octets a.b.c.d.
// Addresses are immutable values and can be compared using ==.
type Address struct {
	a, b, c, d uint8
}

var (
	// First is the lowest address, 0.0.0.0.
	First = Address{}
	// Last is the highest address, 255.255.255.255.
	Last = Address{255, 255, 255, 255}
)

// New returns the address a.b.c.d, failing with [ErrValue] if any of the
// octets is outside 0-255.
func New(a, b, c, d int) (Address, error) {
	for _, octet := range [...]int{a, b, c, d} {
		if octet < 0 || octet > 255 {
			return Address{}, fmt.Errorf("octet value must be in range 0-255, got %d: %w",
				octet, ErrValue)
		}
	}
	return Address{uint8(a), uint8(b), uint8(c), uint8(d)}, nil
}

// MustNew returns the address a.b.c.d and panics if any octet is out of range.
func MustNew(a, b, c, d int) Address {
	addr, err := New(a, b, c, d)
	if err != nil {
		panic(err)
	}
	return addr
}

// FromIndex returns the address with the specified index, failing with
// [ErrValue] if the index is outside [0, 2^32).
func FromIndex(i uint64) (Address, error) {
	if i >= Size {
		return Address{}, fmt.Errorf("address index %d outside [0, %d): %w", i, Size, ErrValue)
	}
	return fromIndex(uint32(i)), nil
}

// fromIndex is FromIndex for indices that are known to be in range.
func fromIndex(i uint32) Address {
	return Address{
		a: uint8(i >> 8),
		b: uint8(i),
		c: uint8(i >> 24),
		d: uint8(i >> 16),
	}
}

// ParseAddress parses an address in dotted-quad notation.
func ParseAddress(s string) (Address, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil || !ip.Is4() {
		return Address{}, fmt.Errorf("not an IPv4 address %q: %w", s, ErrValue)
	}
	o := ip.As4()
	return Address{o[0], o[1], o[2], o[3]}, nil
}

// Index returns the position of this address in the address order, see the
// package documentation.
func (a Address) Index() uint32 {
	return uint32(a.b) | uint32(a.a)<<8 | uint32(a.d)<<16 | uint32(a.c)<<24
}

// Octets returns the four octets a, b, c, d.
func (a Address) Octets() [4]uint8 {
	return [4]uint8{a.a, a.b, a.c, a.d}
}

// NetIP returns the address as a netip.Addr.
func (a Address) NetIP() netip.Addr {
	return netip.AddrFrom4(a.Octets())
}

// String returns the dotted-quad notation of the address.
func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a.a, a.b, a.c, a.d)
}

// Compare returns -1, 0, or +1 depending on whether a is ordered before, equal
// to, or after o.
func (a Address) Compare(o Address) int {
	ai, oi := a.Index(), o.Index()
	switch {
	case ai < oi:
		return -1
	case ai > oi:
		return 1
	}
	return 0
}

// Less returns true if a is ordered before o.
func (a Address) Less(o Address) bool { return a.Index() < o.Index() }

// Diff returns the signed index difference a - o.
func (a Address) Diff(o Address) int64 {
	return int64(a.Index()) - int64(o.Index())
}

// forced is an unchecked octet tuple holding intermediate carry results; it
// only ever ends up in error messages.
type forced struct {
	a, b, c, d int64
}

func (f forced) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", f.a, f.b, f.c, f.d)
}

// split decomposes n into its digits along the octet significance order
// c, d, a, b.
func split(n uint64) forced {
	return forced{
		c: int64(n >> 24),
		d: int64((n >> 16) & 0xff),
		a: int64((n >> 8) & 0xff),
		b: int64(n & 0xff),
	}
}

// Add returns the address n positions after a, failing with [ErrOverflow]
// instead of wrapping around beyond 255.255.255.255.
func (a Address) Add(n uint64) (Address, error) {
	delta := split(n)
	sum := forced{
		a: int64(a.a) + delta.a,
		b: int64(a.b) + delta.b,
		c: int64(a.c) + delta.c,
		d: int64(a.d) + delta.d,
	}
	if sum.b >= 256 {
		sum.b -= 256
		sum.a++
	}
	if sum.a >= 256 {
		sum.a -= 256
		sum.d++
	}
	if sum.d >= 256 {
		sum.d -= 256
		sum.c++
	}
	if sum.c >= 256 {
		return Address{}, fmt.Errorf("%s + %d results in %s beyond 255.255.255.255: %w",
			a, n, sum, ErrOverflow)
	}
	return Address{uint8(sum.a), uint8(sum.b), uint8(sum.c), uint8(sum.d)}, nil
}

// Sub returns the address n positions before a, failing with [ErrUnderflow]
// instead of wrapping around below 0.0.0.0.
func (a Address) Sub(n uint64) (Address, error) {
	delta := split(n)
	diff := forced{
		a: int64(a.a) - delta.a,
		b: int64(a.b) - delta.b,
		c: int64(a.c) - delta.c,
		d: int64(a.d) - delta.d,
	}
	if diff.b < 0 {
		diff.b += 256
		diff.a--
	}
	if diff.a < 0 {
		diff.a += 256
		diff.d--
	}
	if diff.d < 0 {
		diff.d += 256
		diff.c--
	}
	if diff.c < 0 {
		return Address{}, fmt.Errorf("%s - %d results in %s below 0.0.0.0: %w",
			a, n, diff, ErrUnderflow)
	}
	return Address{uint8(diff.a), uint8(diff.b), uint8(diff.c), uint8(diff.d)}, nil
}

// Offset moves a by delta positions, in either direction.
func (a Address) Offset(delta int64) (Address, error) {
	if delta < 0 {
		return a.Sub(uint64(-delta))
	}
	return a.Add(uint64(delta))
}
