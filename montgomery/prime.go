package montgomery

import (
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/tqolf/go-mpi/limb"
	"github.com/tqolf/go-mpi/natural"
)

const smallPrimeBound = 1 << 16

// smallPrimes is a sieve of Eratosthenes over [2, smallPrimeBound), built
// once at package init and reused by every IsPrime trial-division
// pre-screen.
var smallPrimes = buildSmallPrimeSieve()

func buildSmallPrimeSieve() []uint64 {
	composite := bitset.New(smallPrimeBound)
	var primes []uint64
	for i := uint64(2); i < smallPrimeBound; i++ {
		if composite.Test(uint(i)) {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j < smallPrimeBound; j += i {
			composite.Set(uint(j))
		}
	}
	return primes
}

// millerRabinRounds returns the number of Miller-Rabin rounds to run for a
// candidate of the given bit length, per spec.md §6.5.
func millerRabinRounds(bits int) int {
	switch {
	case bits >= 1300:
		return 2
	case bits >= 850:
		return 3
	case bits >= 650:
		return 4
	case bits >= 550:
		return 5
	case bits >= 450:
		return 6
	case bits >= 400:
		return 7
	case bits >= 350:
		return 8
	case bits >= 300:
		return 9
	case bits >= 250:
		return 12
	case bits >= 200:
		return 15
	case bits >= 150:
		return 18
	case bits >= 100:
		return 27
	default:
		return 34
	}
}

// IsPrime reports whether n is probably prime, using trial division
// against the small-prime sieve followed by Miller-Rabin with a
// bit-length-dependent round count and a constant-time witness
// exponentiation (the candidate is treated as potentially secret, e.g.
// during RSA key generation). rand supplies the witness bases.
func IsPrime(n natural.Natural, rand io.Reader) (bool, error) {
	n = natural.Normalize(n)
	if len(n) == 0 {
		return false, nil
	}
	if natural.BitLen(n) == 1 {
		return false, nil // n == 1
	}
	if len(n) == 1 && n[0] == 2 {
		return true, nil
	}
	if n[0]&1 == 0 {
		return false, nil
	}

	for _, p := range smallPrimes {
		if natural.Mod1(n, limb.Limb(p)) == 0 {
			return natural.BitLen(n) <= 17 && n[0] == p, nil
		}
	}

	ctx, err := NewContext(n)
	if err != nil {
		return false, err
	}

	// n - 1 = d * 2^s, d odd.
	nMinus1 := make(natural.Natural, len(n))
	natural.Sub(nMinus1, n, oneNatural(len(n)))
	s := 0
	d := natural.Clone(nMinus1)
	for natural.BitLen(d) > 0 && d[0]&1 == 0 {
		shifted := make(natural.Natural, len(d))
		natural.ShiftRightVec(shifted, d, 1, 0)
		d = natural.Normalize(shifted)
		s++
	}
	d = pad(d, len(n))

	rounds := millerRabinRounds(natural.BitLen(n))
	width := (natural.BitLen(n) + 7) / 8

	for i := 0; i < rounds; i++ {
		base, err := randomBase(n, rand, width)
		if err != nil {
			return false, err
		}

		x := ctx.ExpConstTime(base, d)
		if natural.Equal(x, oneNatural(len(n))) || natural.Equal(x, nMinus1) {
			continue
		}

		composite := true
		for r := 1; r < s; r++ {
			x = plainSquareMod(ctx, x)
			if natural.Equal(x, nMinus1) {
				composite = false
				break
			}
		}
		if composite {
			return false, nil
		}
	}
	return true, nil
}

func plainSquareMod(ctx *Context, x natural.Natural) natural.Natural {
	t := make(natural.Natural, 2*ctx.n)
	xPad := pad(natural.Clone(x), ctx.n)
	natural.Square(t, xPad)
	out := make(natural.Natural, ctx.n)
	natural.Div(nil, out, t, ctx.modulus)
	return out
}

func oneNatural(n int) natural.Natural {
	r := make(natural.Natural, n)
	r[0] = 1
	return r
}

func randomBase(n natural.Natural, rand io.Reader, width int) (natural.Natural, error) {
	buf := make([]byte, width)
	nLen := len(n)
	two := oneNatural(nLen)
	two[0] = 2
	three := oneNatural(nLen)
	three[0] = 3
	nMinus3 := make(natural.Natural, nLen)
	natural.Sub(nMinus3, n, three)

	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, &natural.Error{Kind: natural.RNGFailure, Op: "montgomery.IsPrime", Err: err}
		}
		// Clear the bits above n's bit length, so a candidate is at most
		// n-3 (and accepted) about half the time or more.
		buf[0] &= 0xFF >> uint(len(buf)*8-natural.BitLen(n))
		cand := pad(natural.FromBytes(buf), nLen)
		if natural.Cmp(cand, nMinus3) > 0 {
			continue
		}
		base := make(natural.Natural, nLen)
		natural.AddVec(base, cand, two)
		return base, nil
	}
}
