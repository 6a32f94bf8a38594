package natural

import (
	"fmt"

	"github.com/tqolf/go-mpi/limb"
)

// This file implements Bernstein-Yang constant-time GCD / modular
// inversion. f and g are tracked as fixed-width two's complement integers
// (width = modulus limbs + 1, enough headroom for the transient doubling
// that happens before each halving) rather than sign+magnitude: ordinary
// wraparound add/sub on a two's complement representation is already
// branch-free, which sign+magnitude is not (it needs a comparison to
// decide borrow direction and the result's sign). v and r stay reduced
// into [0, m) at every step via the addMod/subMod/halveMod helpers below,
// which select their result with a mask derived straight from a carry or
// parity bit rather than branching on it.

// maskFromBit returns all-ones if bit's lowest bit is 1, else zero.
func maskFromBit(bit limb.Limb) limb.Limb {
	return 0 - (bit & 1)
}

// selectNatural returns a where mask is all-ones, b where mask is zero,
// limb by limb. len(a) MUST equal len(b).
func selectNatural(mask limb.Limb, a, b Natural) Natural {
	out := make(Natural, len(a))
	for i := range out {
		out[i] = (a[i] & mask) | (b[i] &^ mask)
	}
	return out
}

func selectInt64(mask limb.Limb, a, b int64) int64 {
	return int64((uint64(a) & uint64(mask)) | (uint64(b) &^ uint64(mask)))
}

// negateTwos sets r to the two's complement negation of a (same width).
func negateTwos(r, a Natural) {
	for i := range a {
		r[i] = ^a[i]
	}
	one := make(Natural, len(a))
	one[0] = 1
	AddVec(r, r, one) // carry out of the top limb is the expected wraparound.
}

// shiftRight1Signed sets r = a >> 1, arithmetic (sign-extending): the top
// bit of the result is a copy of a's sign bit, computed arithmetically
// (a shift, not a branch) so it works identically whether a is negative
// or not. a MUST be even, which every call site below guarantees.
func shiftRight1Signed(r, a Natural) {
	sign := a[len(a)-1] >> (limb.Bits - 1)
	shiftIn := sign << (limb.Bits - 1)
	ShiftRightVec(r, a, 1, shiftIn)
}

func pad(a Natural, n int) Natural {
	if len(a) == n {
		return a
	}
	r := make(Natural, n)
	copy(r, a)
	return r
}

// addMod sets out = (a+b) mod m for a, b already in [0, m), selecting
// between "keep the raw sum" and "subtract m" with a mask built from the
// subtraction's borrow bit instead of a Cmp-based branch.
func addMod(a, b, m Natural) Natural {
	n := len(m)
	ap, bp := pad(a, n), pad(b, n)

	sum := make(Natural, n+1)
	sum[n] = AddVec(sum[:n], ap, bp)

	mExt := make(Natural, n+1)
	copy(mExt, m)

	diff := make(Natural, n+1)
	borrow := SubVec(diff, sum, mExt)

	mask := maskFromBit(borrow) // sum < mExt: keep sum.
	return Normalize(selectNatural(mask, sum[:n], diff[:n]))
}

// subMod sets out = (a-b) mod m for a, b already in [0, m). raw = a-b
// wraps to a-b+2^(64n) when a<b; adding m and truncating back to n limbs
// is exactly the mod-2^(64n) correction that turns that wraparound into
// a-b+m, so no comparison is needed to pick the right arm.
func subMod(a, b, m Natural) Natural {
	n := len(m)
	ap, bp := pad(a, n), pad(b, n)

	raw := make(Natural, n)
	borrow := SubVec(raw, ap, bp)

	corrected := make(Natural, n)
	AddVec(corrected, raw, m)

	mask := maskFromBit(borrow)
	return Normalize(selectNatural(mask, corrected, raw))
}

// halveMod sets out = x/2 mod m (x already in [0, m)): even x halves
// directly, odd x halves (x+m), selected via a mask built from x's low
// bit rather than a branch on it.
func halveMod(x, m Natural) Natural {
	n := len(m)
	xp := pad(x, n)

	evenRes := make(Natural, n)
	ShiftRightVec(evenRes, xp, 1, 0)

	sum := make(Natural, n+1)
	sum[n] = AddVec(sum[:n], xp, m)
	oddRes := make(Natural, n+1)
	ShiftRightVec(oddRes, sum, 1, 0)

	mask := maskFromBit(xp[0] & 1)
	return Normalize(selectNatural(mask, oddRes[:n], evenRes[:n]))
}

// condAddMod returns addMod(r, v, m) when condBit is 1, or r padded to
// m's width unchanged when condBit is 0 - both are computed
// unconditionally and merged with a mask, never chosen with an if.
func condAddMod(r, v, m Natural, condBit limb.Limb) Natural {
	added := pad(addMod(r, v, m), len(m))
	plain := pad(Clone(r), len(m))
	return selectNatural(maskFromBit(condBit), added, plain)
}

// divstepIterations returns the fixed Bernstein-Yang divstep count for a
// modulus/value pair with max bit-length b, per spec.md §4.2:
// k = ceil((49*b + 57) / 17).
func divstepIterations(b int) int {
	return (49*b + 57 + 16) / 17
}

// divstep performs one constant-time Bernstein-Yang division step. f and
// g are two's complement integers of fixed width w; v and r are kept
// reduced mod m. Both the "swap" and "keep" successor states are computed
// in full, then merged limb-by-limb (and field-by-field) with a mask
// derived from (delta>0 && g odd) - the decision never causes a different
// code path to run, only a different operand to survive the select.
func divstep(delta int64, f, g Natural, v, r, m Natural) (int64, Natural, Natural, Natural, Natural) {
	w := len(f)

	gOddBit := g[0] & 1
	gOddMask := maskFromBit(gOddBit)
	swapMask := boolMask(delta > 0) & gOddMask

	// swap arm: used when delta > 0 and g is odd. swapF/keepF alias g/f
	// directly (both read-only here) rather than via Clone, which would
	// normalize away high zero limbs and break the fixed two's-complement
	// width w that selectNatural below relies on matching across arms.
	swapDelta := 1 - delta
	swapF := g
	diffGF := make(Natural, w)
	SubVec(diffGF, g, f)
	swapG := make(Natural, w)
	shiftRight1Signed(swapG, diffGF)
	swapV := Clone(r)
	swapR := pad(halveMod(subMod(r, v, m), m), len(m))

	// keep arm: used otherwise.
	keepDelta := 1 + delta
	keepF := f
	addend := make(Natural, w)
	for i := range addend {
		addend[i] = f[i] & gOddMask
	}
	sumGF := make(Natural, w)
	AddVec(sumGF, g, addend)
	keepG := make(Natural, w)
	shiftRight1Signed(keepG, sumGF)
	keepV := Clone(v)
	keepR := pad(halveMod(condAddMod(r, v, m, gOddBit), m), len(m))

	newDelta := selectInt64(swapMask, swapDelta, keepDelta)
	newF := selectNatural(swapMask, swapF, keepF)
	newG := selectNatural(swapMask, swapG, keepG)
	newV := selectNatural(swapMask, pad(swapV, len(m)), pad(keepV, len(m)))
	newR := selectNatural(swapMask, swapR, keepR)

	return newDelta, newF, newG, newV, newR
}

// ModInvert returns a^-1 mod m for odd m > 1, via the constant-time
// Bernstein-Yang divstep algorithm (spec.md §4.2/§4.3). It returns a
// *Error wrapping NotInvertible if gcd(a, m) != 1. m MUST be odd and
// non-zero; violating that is a programmer error and panics.
func ModInvert(a, m Natural) (Natural, error) {
	m = Normalize(m)
	if len(m) == 0 || m[0]&1 == 0 {
		panic("natural: ModInvert precondition violated: modulus must be odd and non-zero")
	}
	n := len(m)
	w := n + 1

	g0 := make(Natural, n)
	Div(nil, g0, a, m)

	iterations := divstepIterations(BitLen(m))

	delta := int64(1)
	f := pad(Clone(m), w)
	g := pad(Clone(g0), w)
	v := make(Natural, n)
	r := make(Natural, n)
	r[0] = 1

	for i := 0; i < iterations; i++ {
		delta, f, g, v, r = divstep(delta, f, g, v, r, m)
	}

	sign := f[len(f)-1] >> (limb.Bits - 1)
	negMask := maskFromBit(sign)

	negF := make(Natural, len(f))
	negateTwos(negF, f)
	absF := Normalize(selectNatural(negMask, negF, f))

	if len(absF) != 1 || absF[0] != 1 {
		return nil, wrap("natural.ModInvert", NotInvertible, fmt.Errorf("gcd(a, m) != 1"))
	}

	negV := subMod(make(Natural, n), v, m)
	result := selectNatural(negMask, pad(negV, n), pad(v, n))
	return Normalize(result), nil
}
