// Package table implements the Maglev permutation-table builder: the
// deterministic mapping from a BackendSet to a dense LookupTable with
// near-uniform backend load and minimal disruption on membership change.
package table

import (
	"maglevd.io/internal/backend"
	"maglevd.io/internal/config"
	"maglevd.io/internal/jhash"
)

// Build produces a LookupTable for backends under opts. It fails with
// ErrEmptyBackendSet, ErrTooManyBackends, ErrNonPrimeTableSize, or
// ErrBackendSetExceedsTable; on any failure no LookupTable is returned.
//
// Build is a pure function of (backends, opts): the same inputs always
// produce the same table, since the only source of "randomness" is the
// two seeded hashes over each backend's canonical bytes.
func Build(backends backend.Set, opts config.Options) (*LookupTable, error) {
	n := backends.Len()
	m := opts.TableSize

	if n == 0 {
		return nil, ErrEmptyBackendSet
	}
	if n >= maxBackends {
		return nil, ErrTooManyBackends
	}
	if !config.IsPrime(m) {
		return nil, ErrNonPrimeTableSize
	}
	if uint32(n) > m {
		return nil, ErrBackendSetExceedsTable
	}

	offset, skip := permutationParams(backends, m, opts.HashSeed)
	slots := populate(offset, skip, m)

	return &LookupTable{slots: slots, m: m, n: n}, nil
}

// permutationParams derives offset[i]/skip[i] for every backend. h1 and h2
// are deliberately drawn from unrelated hash constructions (lookup3 vs.
// CRC32-C) so that offset and skip don't inherit shared structure from a
// single underlying hash. skip is shifted into [1, m-1] and is therefore
// always coprime with the prime m.
func permutationParams(backends backend.Set, m uint32, seed uint32) (offset, skip []uint32) {
	n := backends.Len()
	offset = make([]uint32, n)
	skip = make([]uint32, n)

	for i := 0; i < n; i++ {
		id := backends.Bytes(i)
		h1 := jhash.HashLittle(id[:], seed)
		h2 := jhash.HashCRC32C(id[:], seed)

		offset[i] = h1 % m
		skip[i] = (h2 % (m - 1)) + 1
	}
	return offset, skip
}

// populate runs the round-robin permutation-claim loop: each backend
// claims the next unfilled slot in its own permutation row, in order,
// until every slot in [0, m) has an owner. Rows are generated lazily
// (permutationAt) rather than materialized as an O(n*m) matrix.
func populate(offset, skip []uint32, m uint32) []uint16 {
	n := len(offset)

	slots := make([]uint16, m)
	for i := range slots {
		slots[i] = sentinelUnfilled
	}

	next := make([]uint32, n)
	filled := uint32(0)

	for filled < m {
		for i := 0; i < n; i++ {
			c := permutationAt(offset[i], skip[i], next[i], m)
			for slots[c] != sentinelUnfilled {
				next[i]++
				c = permutationAt(offset[i], skip[i], next[i], m)
			}

			slots[c] = uint16(i)
			next[i]++
			filled++

			if filled == m {
				return slots
			}
		}
	}
	return slots
}

// permutationAt computes perm[i][j] = (offset[i] + j*skip[i]) mod m
// without materializing the row.
func permutationAt(offset, skip, j, m uint32) uint32 {
	return uint32((uint64(offset) + uint64(j)*uint64(skip)) % uint64(m))
}
