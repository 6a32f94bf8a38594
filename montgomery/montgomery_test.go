package montgomery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tqolf/go-mpi/montgomery"
	"github.com/tqolf/go-mpi/natural"
)

func TestNewContextSetupM17(t *testing.T) {
	m := natural.Natural{17}
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	// R mod m, for a single-limb modulus, must equal 1 since R == 2^64
	// and 2^64 mod 17 == 1 (2^4 == 16 == -1 mod 17, so 2^64 == (2^4)^16
	// == (-1)^16 == 1).
	require.True(t, natural.Equal(ctx.One(), natural.Natural{1}))
}

func TestNewContextRejectsEvenModulus(t *testing.T) {
	_, err := montgomery.NewContext(natural.Natural{16})
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := natural.Natural{1000000007}
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	a := natural.Natural{123456}
	enc := make(natural.Natural, ctx.Size())
	ctx.Encode(enc, a)

	dec := make(natural.Natural, ctx.Size())
	ctx.Decode(dec, enc)

	require.True(t, natural.Equal(dec, a))
}

func TestMontMulMatchesPlainMultiplication(t *testing.T) {
	m := natural.Natural{1000000007}
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	a := natural.Natural{123456}
	b := natural.Natural{654321}

	encA := make(natural.Natural, ctx.Size())
	encB := make(natural.Natural, ctx.Size())
	ctx.Encode(encA, a)
	ctx.Encode(encB, b)

	encProd := make(natural.Natural, ctx.Size())
	ctx.MontMul(encProd, encA, encB)

	prod := make(natural.Natural, ctx.Size())
	ctx.Decode(prod, encProd)

	t2 := make(natural.Natural, 2)
	natural.Mul(t2, a, b)
	want := natural.Mod(t2, m)

	require.True(t, natural.Equal(prod, want))
}

func TestExponentiationKnownValue(t *testing.T) {
	// 3^65537 mod 65519 = 6168.
	ctx, err := montgomery.NewContext(natural.Natural{65519})
	require.NoError(t, err)

	base := natural.Natural{3}
	exponent := natural.Natural{65537}

	got := ctx.Exp(base, exponent)
	require.True(t, natural.Equal(got, natural.Natural{6168}))
}

func TestExpAndExpConstTimeAgree(t *testing.T) {
	ctx, err := montgomery.NewContext(natural.Natural{65519})
	require.NoError(t, err)

	base := natural.Natural{3}
	exponent := natural.Natural{65537}

	vt := ctx.Exp(base, exponent)
	ct := ctx.ExpConstTime(base, pad(exponent, ctx.Size()))
	require.True(t, natural.Equal(vt, ct))
}

func pad(a natural.Natural, n int) natural.Natural {
	if len(a) == n {
		return a
	}
	r := make(natural.Natural, n)
	copy(r, a)
	return r
}
