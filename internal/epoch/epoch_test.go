package epoch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"maglevd.io/internal/backend"
	"maglevd.io/internal/config"
	"maglevd.io/internal/table"
)

func buildTable(t *testing.T, n int) *table.LookupTable {
	t.Helper()

	ids := make([]backend.ID, n)
	for i := range ids {
		ids[i] = backend.ID{10, 0, 0, byte(i + 1)}
	}

	lt, err := table.Build(backend.NewSet(ids...), config.Default())
	require.NoError(t, err)
	return lt
}

func TestPublishAndLoad(t *testing.T) {
	first := buildTable(t, 3)
	p := NewPublisher(first)

	require.Same(t, first, p.Load())

	second := buildTable(t, 4)
	p.Publish(second)

	require.Same(t, second, p.Load())
	require.Equal(t, uint64(1), p.Generation())
}

func TestDrainWaitsForAllWorkers(t *testing.T) {
	p := NewPublisher(buildTable(t, 3))
	p.Publish(buildTable(t, 4))

	observed := atomic.NewUint64(0)
	ack := func() uint64 { return observed.Load() }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(5 * time.Millisecond)
		observed.Store(p.Generation())
	}()

	err := Drain(ctx, p.Generation(), []WorkerAck{ack})
	require.NoError(t, err)
}

func TestDrainTimesOutIfWorkerNeverAcks(t *testing.T) {
	p := NewPublisher(buildTable(t, 3))
	p.Publish(buildTable(t, 4))

	ack := func() uint64 { return 0 }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Drain(ctx, p.Generation(), []WorkerAck{ack})
	require.Error(t, err)
}
