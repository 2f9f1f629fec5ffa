// Package worker runs one Dispatcher per simulated core: a goroutine
// that polls a PacketSource, owns an exclusive FlowCache, and reads the
// shared LookupTable through an epoch.Publisher. It is the generalized
// descendant of the reference repository's SSH fan-out (run_ssh): same
// per-unit goroutine/context/ticker shape, with SSH sessions replaced by
// packet dispatch.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"maglevd.io/internal/backend"
	"maglevd.io/internal/dispatch"
	"maglevd.io/internal/epoch"
)

// PacketSource yields batches of packets for a core to dispatch. It
// stands in for the NIC poll-mode driver this spec excludes (§1
// non-goals): a real deployment would back this with RSS-steered ring
// reads, not a channel.
type PacketSource interface {
	// Poll returns the next batch of packets for this core, or nil if
	// none are currently available.
	Poll() [][]byte
}

// Config holds the per-core runtime knobs, the generalized analogue of
// the reference repository's SshConfig.
type Config struct {
	// CoreID identifies the worker for logging only.
	CoreID int
	// PollInterval is how often the worker polls its PacketSource; each
	// tick polls once and dispatches the returned batch.
	PollInterval time.Duration
	// Source supplies packet batches.
	Source PacketSource
	// Buckets and EntriesPerBucket size this worker's FlowCache.
	Buckets          uint32
	EntriesPerBucket uint32
	HashSeed         uint32
}

// Pool runs one goroutine per configured core against a shared
// epoch.Publisher and a shared backend.Set.
type Pool struct {
	publisher *epoch.Publisher
	backends  backend.Set
	configs   []Config

	generationsObserved []*atomic.Uint64
}

// NewPool builds a worker pool over configs, reading tables from
// publisher and rewriting destinations from backends.
func NewPool(publisher *epoch.Publisher, backends backend.Set, configs []Config) *Pool {
	observed := make([]*atomic.Uint64, len(configs))
	for i := range observed {
		observed[i] = atomic.NewUint64(0)
	}

	return &Pool{
		publisher:           publisher,
		backends:            backends,
		configs:             configs,
		generationsObserved: observed,
	}
}

// Acks returns one epoch.WorkerAck per worker, suitable for
// epoch.Drain(ctx, generation, pool.Acks()) after a Publish.
func (p *Pool) Acks() []epoch.WorkerAck {
	acks := make([]epoch.WorkerAck, len(p.generationsObserved))
	for i, o := range p.generationsObserved {
		acks[i] = func() uint64 { return o.Load() }
	}
	return acks
}

// Run starts every worker and blocks until ctx is cancelled or a worker
// returns an error. Modeled on run_ssh's wg.Add/go/wg.Wait fan-out, with
// the manual WaitGroup replaced by errgroup.Group, this corpus's
// idiomatic join-with-error-propagation primitive.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i, cfg := range p.configs {
		g.Go(func() error {
			return p.runWorker(ctx, i, cfg)
		})
	}

	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context, idx int, cfg Config) error {
	logrus.WithField("core", cfg.CoreID).Info("starting maglev worker")
	defer logrus.WithField("core", cfg.CoreID).Info("stopping maglev worker")

	lt := p.publisher.Load()
	d := dispatch.New(lt, p.backends, cfg.Buckets, cfg.EntriesPerBucket, cfg.HashSeed)
	lastGen := p.publisher.Generation()
	p.generationsObserved[idx].Store(lastGen)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if gen := p.publisher.Generation(); gen != lastGen {
				d.SetTable(p.publisher.Load(), p.backends)
				lastGen = gen
			}
			p.generationsObserved[idx].Store(lastGen)

			for _, pkt := range cfg.Source.Poll() {
				d.Dispatch(pkt)
			}
		}
	}
}
