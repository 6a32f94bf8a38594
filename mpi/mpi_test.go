package mpi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/mpi"
)

func TestSetBytesAndBytesRoundTrip(t *testing.T) {
	z := new(mpi.Int).SetBytes([]byte{0x01, 0x02, 0x03})
	require.Equal(t, []byte{0x01, 0x02, 0x03}, z.Bytes())
	require.Equal(t, 1, z.Sign())
}

func TestHexRoundTrip(t *testing.T) {
	z, err := new(mpi.Int).SetHex("-1a2b3c")
	require.NoError(t, err)
	require.Equal(t, -1, z.Sign())
	require.Equal(t, "-1a2b3c", z.Hex())
}

func TestAddSubMixedSigns(t *testing.T) {
	a, _ := new(mpi.Int).SetHex("0a")
	b, _ := new(mpi.Int).SetHex("-03")

	sum := new(mpi.Int).Add(a, b)
	require.Equal(t, 1, sum.Sign())
	require.Equal(t, "07", sum.Hex())

	diff := new(mpi.Int).Sub(a, b)
	require.Equal(t, "0d", diff.Hex())
}

func TestCmp(t *testing.T) {
	a, _ := new(mpi.Int).SetHex("10")
	b, _ := new(mpi.Int).SetHex("-10")
	require.Equal(t, 1, a.Cmp(b))
	require.Equal(t, -1, b.Cmp(a))

	c, _ := new(mpi.Int).SetHex("10")
	require.Equal(t, 0, a.Cmp(c))
}

func TestZeroSign(t *testing.T) {
	require.Equal(t, 0, mpi.Zero().Sign())
}
