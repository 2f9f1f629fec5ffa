package main

import (
	"math/rand"

	"maglevd.io/internal/backend"
)

// syntheticPacketSource stands in for a NIC poll-mode driver (explicitly
// out of scope, §1): it manufactures a small, bounded batch of
// Ethernet+IPv4/UDP packets per poll, cycling through a handful of
// synthetic client addresses so the worker pool has something to
// dispatch against.
type syntheticPacketSource struct {
	rng      *rand.Rand
	backends backend.Set
}

func newSyntheticPacketSource(backends backend.Set) *syntheticPacketSource {
	return &syntheticPacketSource{
		rng:      rand.New(rand.NewSource(1)),
		backends: backends,
	}
}

const (
	ethernetHeaderLen = 14
	ipv4HeaderLen     = 20
	packetLen         = ethernetHeaderLen + ipv4HeaderLen + 8
)

// Poll manufactures a batch of packets with varied, but bounded, source
// addresses so that repeated polls exercise both cache hits (on repeat
// sources) and misses (on new ones).
func (s *syntheticPacketSource) Poll() [][]byte {
	const batchSize = 8
	const syntheticClientPoolSize = 32

	batch := make([][]byte, batchSize)
	for i := range batch {
		client := byte(s.rng.Intn(syntheticClientPoolSize))
		batch[i] = syntheticPacket(client)
	}
	return batch
}

func syntheticPacket(client byte) []byte {
	pkt := make([]byte, packetLen)
	ipv4 := pkt[ethernetHeaderLen:]

	ipv4[0] = 0x45 // version 4, IHL 5
	ipv4[9] = 17   // UDP

	copy(ipv4[12:16], []byte{10, 200, 0, client})
	copy(ipv4[16:20], []byte{10, 100, 0, 1}) // destination rewritten by Dispatch

	return pkt
}
