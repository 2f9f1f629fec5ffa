package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"maglevd.io/internal/backend"
	"maglevd.io/internal/config"
	"maglevd.io/internal/epoch"
	"maglevd.io/internal/table"
)

// fakeSource hands out one fixed packet repeatedly, tracking how many
// times it has been polled.
type fakeSource struct {
	mu     sync.Mutex
	packet []byte
	polls  int
}

func (f *fakeSource) Poll() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	pkt := make([]byte, len(f.packet))
	copy(pkt, f.packet)
	return [][]byte{pkt}
}

func (f *fakeSource) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func buildIPv4UDPPacket() []byte {
	pkt := make([]byte, 64)
	ipv4 := pkt[14:]
	ipv4[0] = 0x45
	ipv4[9] = 17
	copy(ipv4[12:16], []byte{10, 0, 0, 5})
	copy(ipv4[16:20], []byte{10, 0, 0, 9})
	return pkt
}

func TestPoolRunsUntilCancelled(t *testing.T) {
	ids := []backend.ID{{10, 1, 0, 1}, {10, 1, 0, 2}}
	backends := backend.NewSet(ids...)

	opts := config.Default()
	opts.TableSize = 7
	lt, err := table.Build(backends, opts)
	require.NoError(t, err)

	pub := epoch.NewPublisher(lt)

	src := &fakeSource{packet: buildIPv4UDPPacket()}

	pool := NewPool(pub, backends, []Config{
		{
			CoreID:           0,
			PollInterval:     time.Millisecond,
			Source:           src,
			Buckets:          opts.Buckets(),
			EntriesPerBucket: opts.CacheEntriesPerBucket,
			HashSeed:         opts.HashSeed,
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = pool.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Greater(t, src.pollCount(), 0)
}
