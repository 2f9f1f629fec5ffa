package jhash

import (
	"encoding/binary"

	"github.com/klauspost/crc32"
)

// castagnoli is the hardware-accelerated (SSE4.2, when available) CRC32-C
// table. klauspost/crc32 mirrors the standard library hash/crc32 API but
// dispatches to a SIMD implementation on supporting platforms.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// HashCRC32C is the second, independent 32-bit hash family used to derive
// the Maglev permutation's skip value (h2). Keeping h1 (lookup3) and h2
// (CRC32-C) on unrelated constructions avoids correlated offset/skip pairs.
func HashCRC32C(data []byte, seed uint32) uint32 {
	var seedBuf [4]byte
	binary.LittleEndian.PutUint32(seedBuf[:], seed)

	crc := crc32.Update(0, castagnoli, seedBuf[:])
	crc = crc32.Update(crc, castagnoli, data)
	return crc
}
