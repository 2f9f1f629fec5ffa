// Package epoch implements the publish-and-drain pattern for swapping in
// a new LookupTable without disrupting workers mid-packet (spec §5/§6,
// install_table). The exact reclamation mechanism for an old table is
// left to the implementer by the spec; this package uses a simple
// generation counter per worker rather than hazard pointers or RCU,
// since a single atomic pointer plus a bounded drain wait is enough at
// the core's concurrency scale (tens of worker cores, not thousands).
package epoch

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"maglevd.io/internal/table"
)

// Publisher holds the current LookupTable behind a lock-free pointer.
// Workers call Load() once per packet or burst (an acquire-style read);
// the control plane calls Publish() on membership change.
type Publisher struct {
	current *atomic.Pointer[table.LookupTable]
	gen     *atomic.Uint64
}

// NewPublisher wraps an initial LookupTable for publication.
func NewPublisher(initial *table.LookupTable) *Publisher {
	p := &Publisher{
		current: atomic.NewPointer(initial),
		gen:     atomic.NewUint64(0),
	}
	return p
}

// Load returns the currently published LookupTable. Safe for concurrent
// callers; never blocks.
func (p *Publisher) Load() *table.LookupTable {
	return p.current.Load()
}

// Generation returns a monotonically increasing counter bumped on every
// Publish, used by Drain to detect whether a worker has observed the
// latest table.
func (p *Publisher) Generation() uint64 {
	return p.gen.Load()
}

// Publish atomically swaps in a new LookupTable and bumps the
// generation counter. Returns once the new pointer is visible to future
// Load calls; it does not wait for workers to observe it (see Drain).
func (p *Publisher) Publish(t *table.LookupTable) {
	p.current.Store(t)
	p.gen.Inc()
}

// WorkerAck is the per-worker acknowledgment a worker reports back after
// observing Load() at a given generation. Drain polls these to implement
// "old tables are retained until all workers have observed the new one."
type WorkerAck func() (observedGeneration uint64)

// Drain blocks until every ack in acks reports having observed
// targetGeneration, or ctx is done. It is a polling implementation of
// the publish-and-drain pattern — adequate at worker-pool scale; a
// production system might instead use hazard pointers or an RCU epoch,
// which this spec deliberately leaves to the implementer.
func Drain(ctx context.Context, targetGeneration uint64, acks []WorkerAck) error {
	const pollInterval = 100 * time.Microsecond

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if allObserved(targetGeneration, acks) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func allObserved(targetGeneration uint64, acks []WorkerAck) bool {
	for _, ack := range acks {
		if ack() < targetGeneration {
			return false
		}
	}
	return true
}
