package limb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/limb"
)

func TestAddWithCarry(t *testing.T) {
	sum, carry := limb.AddWithCarry(^limb.Limb(0), 1, 0)
	require.Equal(t, limb.Limb(0), sum)
	require.Equal(t, limb.Limb(1), carry)

	sum, carry = limb.AddWithCarry(1, 1, 0)
	require.Equal(t, limb.Limb(2), sum)
	require.Equal(t, limb.Limb(0), carry)
}

func TestSubWithBorrow(t *testing.T) {
	diff, borrow := limb.SubWithBorrow(0, 1, 0)
	require.Equal(t, ^limb.Limb(0), diff)
	require.Equal(t, limb.Limb(1), borrow)
}

func TestMulWide(t *testing.T) {
	hi, lo := limb.MulWide(^limb.Limb(0), ^limb.Limb(0))
	require.Equal(t, limb.Limb(0xFFFFFFFFFFFFFFFE), hi)
	require.Equal(t, limb.Limb(1), lo)
}

func TestDiv2by1(t *testing.T) {
	q, r := limb.Div2by1(0, 100, 7)
	require.Equal(t, limb.Limb(14), q)
	require.Equal(t, limb.Limb(2), r)
}

func TestDiv2by1PanicsOnOverflow(t *testing.T) {
	require.Panics(t, func() { limb.Div2by1(10, 0, 5) })
}

func TestInvertLimbAndPreInv(t *testing.T) {
	d := limb.Limb(0x8000000000000011) // normalized (top bit set)
	dInv := limb.InvertLimb(d)

	hi, lo := limb.Limb(0x7FFFFFFFFFFFFFFF), limb.Limb(0x123456789ABCDEF0)
	q, r := limb.Div2by1PreInv(hi, lo, d, dInv)
	wantQ, wantR := limb.Div2by1(hi, lo, d)
	require.Equal(t, wantQ, q)
	require.Equal(t, wantR, r)
}

func TestCLZCTZ(t *testing.T) {
	require.Equal(t, 63, limb.CLZ(1))
	require.Equal(t, 0, limb.CTZ(1))
	require.Equal(t, 64, limb.CLZ(0))
}
