// Package config validates the four tunables the core accepts (spec §6):
// table_size, cache_total_entries, cache_entries_per_bucket, and
// hash_seed. Parsing them out of flags or a config file is collaborator
// work (cmd/maglevd); this package only owns validation.
package config

import "github.com/pkg/errors"

// Reference values, matching the Maglev paper and the reference
// implementation this was modeled on.
const (
	DefaultTableSize             = 65537
	DefaultCacheTotalEntries     = 1024
	DefaultCacheEntriesPerBucket = 4
	DefaultHashSeed       uint32 = 0
)

// Options holds the construction-time configuration for a LookupTable and
// a FlowCache. It is immutable once validated.
type Options struct {
	// TableSize is the prime M. Default 65537.
	TableSize uint32
	// CacheTotalEntries is the total number of flow-cache entries across
	// all buckets. Must be a multiple of CacheEntriesPerBucket.
	CacheTotalEntries uint32
	// CacheEntriesPerBucket is K, the per-bucket FIFO depth.
	CacheEntriesPerBucket uint32
	// HashSeed seeds both the packet fingerprint hash and the per-backend
	// permutation hashes. Changing it rebalances the table.
	HashSeed uint32
}

// Default returns the reference configuration: M = 65537, 1024 cache
// entries in buckets of 4, hash_seed = 0.
func Default() Options {
	return Options{
		TableSize:             DefaultTableSize,
		CacheTotalEntries:     DefaultCacheTotalEntries,
		CacheEntriesPerBucket: DefaultCacheEntriesPerBucket,
		HashSeed:              DefaultHashSeed,
	}
}

// Validate checks that TableSize is prime and that CacheTotalEntries
// divides evenly into CacheEntriesPerBucket-sized buckets. It does not
// check backend-set-specific constraints (those live in internal/table,
// since they depend on N).
func (o Options) Validate() error {
	if o.CacheEntriesPerBucket == 0 {
		return errors.New("cache_entries_per_bucket must be > 0")
	}
	if o.CacheTotalEntries == 0 {
		return errors.New("cache_total_entries must be > 0")
	}
	if o.CacheTotalEntries%o.CacheEntriesPerBucket != 0 {
		return errors.Errorf("cache_total_entries (%d) must be a multiple of cache_entries_per_bucket (%d)",
			o.CacheTotalEntries, o.CacheEntriesPerBucket)
	}
	if !IsPrime(o.TableSize) {
		return errors.Errorf("table_size (%d) is not prime", o.TableSize)
	}
	return nil
}

// Buckets returns B, the number of flow-cache buckets.
func (o Options) Buckets() uint32 {
	return o.CacheTotalEntries / o.CacheEntriesPerBucket
}

// IsPrime is a trial-division primality test. Table sizes in this
// deployment's range (≤ ~10^5) make O(sqrt(n)) trial division cheap and
// exact; no third-party number-theory library is warranted at this scale.
func IsPrime(n uint32) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := uint32(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
