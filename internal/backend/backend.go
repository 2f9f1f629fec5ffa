// Package backend holds the immutable, ordered set of backend identities
// the control plane hands to the table builder.
package backend

// ID is a backend identity: a 32-bit IPv4 address in canonical network
// byte order. The core treats it as an opaque 4-byte blob; only the
// canonical byte form matters for hashing and for the single aligned
// store performed on dispatch.
type ID [4]byte

// Set is an immutable, ordered snapshot of backend identities. Ordering
// is significant: it defines the backend indices ([0, N)) used by the
// LookupTable and is the tiebreaker during permutation-table population.
type Set struct {
	ids []ID
}

// NewSet builds an immutable Set from an ordered list of backend
// identities. The input slice is copied; later mutation of ids by the
// caller does not affect the returned Set.
func NewSet(ids ...ID) Set {
	cp := make([]ID, len(ids))
	copy(cp, ids)
	return Set{ids: cp}
}

// Len returns the number of backends, N.
func (s Set) Len() int {
	return len(s.ids)
}

// Get returns the canonical byte representation of backend i. The
// returned slice must not be mutated by the caller.
func (s Set) Get(i int) []byte {
	return s.ids[i][:]
}

// Bytes returns the canonical byte representation of backend i as a
// fixed-size array, convenient for hash input assembly.
func (s Set) Bytes(i int) ID {
	return s.ids[i]
}
