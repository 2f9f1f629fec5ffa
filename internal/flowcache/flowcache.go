// Package flowcache implements the bounded per-core connection cache: a
// fixed B*K array of entries with a newest-pointer, round-robin-within-
// bucket eviction policy. It requires no locking — callers own one
// FlowCache per worker core and never share it.
package flowcache

// entry is one flow-cache slot. occupied distinguishes a zero-value
// fingerprint/backend pair from a genuinely empty slot.
type entry struct {
	fingerprint uint32
	backend     uint16
	occupied    bool
	newest      bool
}

// Cache is a fixed-size, per-core flow cache: B buckets of K entries
// each. A fingerprint appears at most once per bucket. Eviction, when a
// bucket is full, always replaces the entry immediately after the
// current newest one, making each bucket behave as a depth-K FIFO.
//
// Deployments expecting very high flow counts per core (>= 10^6) should
// widen the fingerprint beyond 32 bits or store the full 5-tuple per
// entry to reduce aliasing; this cache keeps the 32-bit fingerprint,
// matching the reference implementation's scale target.
type Cache struct {
	entries    []entry
	bucketSize uint32
	buckets    uint32
}

// New builds an empty Cache with the given number of buckets and
// entries per bucket (B*K total entries).
func New(buckets, entriesPerBucket uint32) *Cache {
	return &Cache{
		entries:    make([]entry, buckets*entriesPerBucket),
		bucketSize: entriesPerBucket,
		buckets:    buckets,
	}
}

// LookupOrInsert returns the backend index associated with fp. If fp is
// not yet cached, it is inserted with fallback as its backend and
// fallback is returned. The cache cannot fail: on a bucket-full miss it
// always evicts exactly one entry and proceeds.
func (c *Cache) LookupOrInsert(fp uint32, fallback uint16) uint16 {
	bucket := fp % c.buckets
	base := bucket * c.bucketSize

	emptyIdx := -1
	newestIdx := -1

	for i := uint32(0); i < c.bucketSize; i++ {
		e := &c.entries[base+i]
		if !e.occupied {
			if emptyIdx == -1 {
				emptyIdx = int(i)
			}
			continue
		}
		if e.fingerprint == fp {
			return e.backend
		}
		if e.newest {
			newestIdx = int(i)
		}
	}

	// Once a bucket has no empty entries left, exactly one of its
	// entries carries the newest marker (set by the write that filled
	// the bucket).
	var writeIdx uint32
	if emptyIdx != -1 {
		writeIdx = uint32(emptyIdx)
	} else {
		writeIdx = (uint32(newestIdx) + 1) % c.bucketSize
	}

	if newestIdx != -1 {
		c.entries[base+uint32(newestIdx)].newest = false
	}

	c.entries[base+writeIdx] = entry{
		fingerprint: fp,
		backend:     fallback,
		occupied:    true,
		newest:      true,
	}

	return fallback
}
