package natural_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/limb"
	"github.com/tqolf/go-mpi/natural"
)

func TestDivBorrowAndRestore(t *testing.T) {
	// u = 2^128 - 1, v = 2^64 -> q = 2^64-1, r = 2^64-1.
	u := natural.Natural{^limb.Limb(0), ^limb.Limb(0)}
	v := natural.Natural{0, 1}

	q := make(natural.Natural, 1)
	r := make(natural.Natural, 2)
	natural.Div(q, r, u, v)

	require.Equal(t, limb.Limb(^limb.Limb(0)), q[0])
	require.True(t, natural.Equal(r, natural.Natural{^limb.Limb(0)}))
}

func TestDivRoundTripRandomish(t *testing.T) {
	u := natural.Natural{0x123456789ABCDEF0, 0xFEDCBA9876543210, 0x1}
	v := natural.Natural{0xABCDEF1234567890, 0x2}

	q := make(natural.Natural, 2)
	r := make(natural.Natural, 2)
	natural.Div(q, r, u, v)

	qv := make(natural.Natural, 4)
	natural.Mul(qv, q, v)
	reconstructed := make(natural.Natural, 4)
	natural.Add(reconstructed, qv, r)

	require.True(t, natural.Equal(reconstructed, u))
	require.True(t, natural.Cmp(r, v) < 0)
}

func TestDiv1AndMod1(t *testing.T) {
	u := natural.Natural{100, 0}
	q := make(natural.Natural, 2)
	rem := natural.Div1(q, u, 7)
	require.Equal(t, limb.Limb(2), rem)
	require.Equal(t, limb.Limb(2), natural.Mod1(u, 7))
}

func TestDivSmallDividend(t *testing.T) {
	u := natural.Natural{5}
	v := natural.Natural{100}
	q := make(natural.Natural, 1)
	r := make(natural.Natural, 1)
	natural.Div(q, r, u, v)
	require.True(t, natural.Zero(q))
	require.True(t, natural.Equal(r, u))
}
