package table

import "errors"

// Construction-time error taxonomy (spec §7). All four are surfaced as
// typed sentinel errors; callers check with errors.Is. The Dispatcher's
// per-packet path has no equivalent recoverable errors by design.
var (
	// ErrEmptyBackendSet is returned when Build is invoked with zero
	// backends.
	ErrEmptyBackendSet = errors.New("maglev: backend set is empty")

	// ErrBackendSetExceedsTable is returned when N > M: some backend
	// would receive zero slots.
	ErrBackendSetExceedsTable = errors.New("maglev: backend set exceeds table size")

	// ErrTooManyBackends is returned when N >= 0xFFFF, colliding with the
	// unfilled-slot sentinel.
	ErrTooManyBackends = errors.New("maglev: too many backends")

	// ErrNonPrimeTableSize is returned when the configured table size is
	// not prime.
	ErrNonPrimeTableSize = errors.New("maglev: table size is not prime")
)

// sentinelUnfilled marks a slot that has not yet been assigned a backend
// during table population. It must never collide with a valid backend
// index, hence the ErrTooManyBackends bound at N >= 0xFFFF.
const sentinelUnfilled = 0xFFFF

// maxBackends is the largest N the sentinel scheme supports.
const maxBackends = 0xFFFF
