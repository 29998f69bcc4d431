/*
Package ipv4 implements the address-range algebra underneath ipatlas: exact
IPv4 [Address] values with checked arithmetic, contiguous address [Range]s and
disjoint, automatically coalesced [RangeSet]s.

# Address Order

Addresses are not ordered in dotted-quad order. Instead, the 32 bit index of an
address a.b.c.d is

	b + a·256 + d·256² + c·256³

so the third octet is the most significant and the second octet the least
significant one. This weighting is what the tile atlas and the persisted
coverage files have always used, so it must not be "fixed": changing it would
misinterpret coverage written by earlier sweeps.

# Ranges

A [Range] spans [start, stop) with an exclusive stop. As the stop of a range
reaching 255.255.255.255 would be the (non-existing) address following it, a
range stores its start and its length instead of a stop address. Ranges and
range sets are immutable values; operations always return new values, so they
can be freely passed between concurrent scan workers.

Both [Range] and [RangeSet] satisfy [Span], which is what [Partition] slices
into the chunks handed to scan workers.

# Errors

Constructors and accessors fail with one of the sentinel errors [ErrValue],
[ErrOverflow], [ErrUnderflow], [ErrIndex], or [ErrSlice], wrapped with
details; use [errors.Is] to test for them.
*/
package ipv4
