package jhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashCRC32CDeterministic(t *testing.T) {
	data := []byte{10, 1, 0, 1}

	first := HashCRC32C(data, 0)
	second := HashCRC32C(data, 0)
	require.Equal(t, first, second)
}

func TestHashCRC32CSeedChangesOutput(t *testing.T) {
	data := []byte{10, 1, 0, 1}

	withSeedZero := HashCRC32C(data, 0)
	withSeedOne := HashCRC32C(data, 1)
	require.NotEqual(t, withSeedZero, withSeedOne)
}

func TestHashCRC32CDistinctInputsDiverge(t *testing.T) {
	a := HashCRC32C([]byte{10, 1, 0, 1}, 0)
	b := HashCRC32C([]byte{10, 1, 0, 2}, 0)
	require.NotEqual(t, a, b)
}

func TestHashCRC32CIndependentFromLookup3(t *testing.T) {
	data := []byte{192, 168, 0, 9}

	h1 := HashLittle(data, 0)
	h2 := HashCRC32C(data, 0)
	require.NotEqual(t, h1, h2, "h1 and h2 must come from unrelated constructions")
}
