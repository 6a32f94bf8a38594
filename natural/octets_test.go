package natural_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/natural"
)

func TestFromBytesIgnoresLeadingZeros(t *testing.T) {
	a := natural.FromBytes([]byte{0x01, 0x02, 0x03})
	b := natural.FromBytes([]byte{0x00, 0x00, 0x01, 0x02, 0x03})
	require.True(t, natural.Equal(a, b))
}

func TestToBytesRoundTrip(t *testing.T) {
	orig := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11}
	n := natural.FromBytes(orig)
	out := natural.ToBytes(n, len(orig))
	require.Equal(t, orig, out)
}

func TestToBytesMinimalWidth(t *testing.T) {
	n := natural.FromBytes([]byte{0x00, 0x01})
	out := natural.ToBytes(n, 0)
	require.Equal(t, []byte{0x01}, out)
}

func TestToBytesPanicsOnTooSmallWidth(t *testing.T) {
	n := natural.FromBytes([]byte{0x01, 0x02})
	require.Panics(t, func() { natural.ToBytes(n, 1) })
}
