package natural_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/limb"
	"github.com/tqolf/go-mpi/natural"
)

func TestAddVecCarryChain(t *testing.T) {
	a := natural.Natural{^limb.Limb(0), ^limb.Limb(0)}
	b := natural.Natural{^limb.Limb(0), ^limb.Limb(0)}
	r := make(natural.Natural, 2)
	carry := natural.AddVec(r, a, b)

	require.Equal(t, limb.Limb(1), carry)
	require.Equal(t, limb.Limb(0xFFFFFFFFFFFFFFFE), r[0])
	require.Equal(t, limb.Limb(0xFFFFFFFFFFFFFFFF), r[1])
}

func TestSubVecRoundTrip(t *testing.T) {
	a := natural.Natural{5, 10}
	b := natural.Natural{7, 3}
	r := make(natural.Natural, 2)
	borrow := natural.SubVec(r, a, b)
	require.Equal(t, limb.Limb(0), borrow)

	back := make(natural.Natural, 2)
	natural.AddVec(back, r, b)
	require.True(t, natural.Equal(back, a))
}

func TestShiftLeftRightRoundTrip(t *testing.T) {
	a := natural.Natural{0x0123456789ABCDEF, 0xFEDCBA9876543210}
	shifted := make(natural.Natural, 2)
	carry := natural.ShiftLeftVec(shifted, a, 5)

	back := make(natural.Natural, 2)
	natural.ShiftRightVec(back, shifted, 5, carry<<(64-5))
	require.True(t, natural.Equal(back, a))
}

func TestCmpAndCmpConstTimeAgree(t *testing.T) {
	cases := [][2]natural.Natural{
		{{1, 0}, {1, 0}},
		{{1, 0}, {2, 0}},
		{{0, 1}, {^limb.Limb(0), 0}},
	}
	for _, c := range cases {
		require.Equal(t, natural.Cmp(c[0], c[1]), natural.CmpConstTime(c[0], c[1]))
	}
}

func TestMulAgainstRepeatedAdd(t *testing.T) {
	a := natural.Natural{12345}
	b := natural.Natural{6789}
	r := make(natural.Natural, 2)
	natural.Mul(r, a, b)

	sum := make(natural.Natural, 2)
	for i := 0; i < 6789; i++ {
		natural.Add(sum, sum, a)
	}
	require.True(t, natural.Equal(r, sum))
}

func TestSquareMatchesMul(t *testing.T) {
	a := natural.Natural{0xDEADBEEFCAFEBABE, 0x1}
	viaMul := make(natural.Natural, 4)
	natural.Mul(viaMul, a, a)

	viaSquare := make(natural.Natural, 4)
	natural.Square(viaSquare, a)

	require.True(t, natural.Equal(viaMul, viaSquare))
}
