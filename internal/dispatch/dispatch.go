// Package dispatch implements the per-packet decision path: extract the
// 5-tuple, hash it, consult the flow cache and lookup table, and rewrite
// the IPv4 destination in place. Dispatch never allocates on the heap,
// never blocks, and never returns an error — malformed input is the
// caller's (NIC/parser collaborator's) responsibility.
package dispatch

import (
	"maglevd.io/internal/backend"
	"maglevd.io/internal/flowcache"
	"maglevd.io/internal/jhash"
	"maglevd.io/internal/table"
)

// ethernetHeaderLen is the fixed L2 offset to the IPv4 header for
// Ethernet II framing.
const ethernetHeaderLen = 14

// IPv4 header field offsets, relative to the start of the IPv4 header.
const (
	ipv4ProtocolOffset = 9
	ipv4SrcAddrOffset  = 12
	ipv4DstAddrOffset  = 16
	ipv4HeaderMinLen   = 20
)

const (
	protoTCP = 6
	protoUDP = 17
)

// Dispatcher owns one LookupTable reference (shared, read-only, swapped
// atomically by the control plane between epochs) and one exclusive
// FlowCache (never shared across workers).
type Dispatcher struct {
	table    *table.LookupTable
	backends backend.Set
	cache    *flowcache.Cache
	hashSeed uint32
}

// New builds a Dispatcher over lt and backends, with its own empty
// FlowCache sized buckets*entriesPerBucket.
func New(lt *table.LookupTable, backends backend.Set, buckets, entriesPerBucket, hashSeed uint32) *Dispatcher {
	return &Dispatcher{
		table:    lt,
		backends: backends,
		cache:    flowcache.New(buckets, entriesPerBucket),
		hashSeed: hashSeed,
	}
}

// SetTable swaps in a new LookupTable for a new epoch. Only the owning
// worker goroutine should call this (no internal locking); the common
// path is epoch.Publisher handing a freshly observed pointer back to the
// worker between packet bursts.
func (d *Dispatcher) SetTable(lt *table.LookupTable, backends backend.Set) {
	d.table = lt
	d.backends = backends
}

// Dispatch reads the 5-tuple out of packet, resolves it to a backend via
// the flow cache (falling back to the lookup table on a miss), and
// rewrites the IPv4 destination address in place. Every other byte of
// packet is left untouched.
//
// Preconditions: packet begins with a 14-byte Ethernet II header
// followed by a contiguous IPv4 header. Violating this is undefined
// behavior, not a returned error — see package doc.
func (d *Dispatcher) Dispatch(packet []byte) {
	ipv4 := packet[ethernetHeaderLen:]

	fp := d.fingerprint(ipv4)
	slot := fp % d.table.Size()
	fallback := d.table.Lookup(slot)

	backendIdx := d.cache.LookupOrInsert(fp, fallback)

	dst := d.backends.Get(int(backendIdx))
	copy(ipv4[ipv4DstAddrOffset:ipv4DstAddrOffset+4], dst)
}

// fingerprint assembles the hash input — source address, destination
// address, and protocol, extended with L4 ports when the protocol is
// TCP or UDP and a header is present — into a small on-stack buffer and
// hashes it. Unlike the reference implementation, packet bytes are never
// mutated before the rewrite in step 5: the buffer approach trades one
// stack copy for removing the XOR-restore class of bugs entirely.
func (d *Dispatcher) fingerprint(ipv4 []byte) uint32 {
	var buf [16]byte

	copy(buf[0:4], ipv4[ipv4SrcAddrOffset:ipv4SrcAddrOffset+4])
	copy(buf[4:8], ipv4[ipv4DstAddrOffset:ipv4DstAddrOffset+4])
	buf[8] = ipv4[ipv4ProtocolOffset]

	n := 9
	if proto := ipv4[ipv4ProtocolOffset]; (proto == protoTCP || proto == protoUDP) && len(ipv4) >= ipv4HeaderMinLen+4 {
		ports := ipv4[ipv4HeaderMinLen : ipv4HeaderMinLen+4]
		n += copy(buf[9:13], ports)
	}

	return jhash.HashLittle(buf[:n], d.hashSeed)
}
