package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetPreservesOrder(t *testing.T) {
	s := NewSet(ID{10, 1, 0, 1}, ID{10, 1, 0, 2}, ID{10, 1, 0, 3})

	require.Equal(t, 3, s.Len())
	require.Equal(t, ID{10, 1, 0, 1}, s.Bytes(0))
	require.Equal(t, ID{10, 1, 0, 2}, s.Bytes(1))
	require.Equal(t, ID{10, 1, 0, 3}, s.Bytes(2))
}

func TestSetIsImmutableAgainstCallerMutation(t *testing.T) {
	ids := []ID{{10, 1, 0, 1}, {10, 1, 0, 2}}
	s := NewSet(ids...)

	ids[0] = ID{9, 9, 9, 9}

	require.Equal(t, ID{10, 1, 0, 1}, s.Bytes(0))
}

func TestSetGetReturnsCanonicalBytes(t *testing.T) {
	s := NewSet(ID{10, 1, 0, 1})
	require.Equal(t, []byte{10, 1, 0, 1}, s.Get(0))
}

func TestEmptySet(t *testing.T) {
	s := NewSet()
	require.Equal(t, 0, s.Len())
}
