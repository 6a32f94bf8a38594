// Package limb implements the L1 double-width arithmetic primitives that
// every higher layer of this module is built from: carry-propagating
// add/sub, a full double-width multiply, and reciprocal-based division on
// a single machine word.
//
// The limb width is fixed at 64 bits (the build-time limb-width macro and
// CPU-specific intrinsic selection that the original C library exposed are
// out of scope here; every platform this module targets has a native
// 64-bit word). All arguments and results are plain values, so every
// function here is trivially constant-time: there is no data-dependent
// branch or memory access below the word level.
package limb

import "math/bits"

// Limb is a single machine word, the base digit of every higher
// representation in this module.
type Limb = uint64

// Bits is the width of a Limb in bits.
const Bits = 64

// AddWithCarry returns a+b+carryIn mod 2^64 and the carry out of the top
// bit. carryIn and the returned carryOut are always 0 or 1.
func AddWithCarry(a, b, carryIn Limb) (sum, carryOut Limb) {
	s, c0 := bits.Add64(a, b, 0)
	s, c1 := bits.Add64(s, carryIn, 0)
	return s, c0 + c1
}

// SubWithBorrow returns a-b-borrowIn mod 2^64 and the borrow out of the top
// bit. borrowIn and the returned borrowOut are always 0 or 1.
func SubWithBorrow(a, b, borrowIn Limb) (diff, borrowOut Limb) {
	d, b0 := bits.Sub64(a, b, 0)
	d, b1 := bits.Sub64(d, borrowIn, 0)
	return d, b0 + b1
}

// MulWide returns the full 128-bit product of a and b as (hi, lo).
func MulWide(a, b Limb) (hi, lo Limb) {
	return bits.Mul64(a, b)
}

// Div2by1 divides the double-word (hi, lo) by d, returning the quotient
// and remainder. It panics with a precondition-violation if hi >= d,
// since the quotient would not fit in a single limb: this is a programmer
// error, not a recoverable condition.
func Div2by1(hi, lo, d Limb) (q, r Limb) {
	if hi >= d {
		panic("limb: Div2by1 precondition violated: hi >= d")
	}
	return bits.Div64(hi, lo, d)
}

// InvertLimb returns the Moeller-Granlund reciprocal of d,
// d_inv = floor((2^128 - 1) / d) - 2^64, for use by Div2by1PreInv. d's top
// bit MUST be set (d normalized); it panics otherwise, and panics if
// d == 0.
func InvertLimb(d Limb) Limb {
	if d == 0 {
		panic("limb: InvertLimb precondition violated: d == 0")
	}
	if d>>(Bits-1) == 0 {
		panic("limb: InvertLimb precondition violated: d not normalized")
	}

	// floor((2^128-1)/d) - 2^64 computed via a single double-word
	// division of (~d, ~0) by d, which never overflows because d's top
	// bit is set.
	q, _ := bits.Div64(^d, ^Limb(0), d)
	return q
}

// Div2by1PreInv divides the double-word (hi, lo) by a normalized d using
// the precomputed reciprocal dInv from InvertLimb. d MUST be normalized
// (top bit set) and hi MUST be < d; both are programmer-error
// preconditions enforced by the caller (natural.Div), not re-checked here
// to keep this routine branch-free on the happy path.
func Div2by1PreInv(hi, lo, d, dInv Limb) (q, r Limb) {
	// Algorithm 2 from Moeller & Granlund, "Improved division by
	// invariant integers" (2011).
	qHi, qLo := bits.Mul64(dInv, hi)
	qLo, c := bits.Add64(qLo, lo, 0)
	qHi, _ = bits.Add64(qHi, hi, c)
	qHi++

	r = lo - qHi*d

	// Both corrections are applied through masks built from a borrow bit.
	_, gt := bits.Sub64(qLo, r, 0) // 1 iff r > qLo
	qHi -= gt
	r += d & -gt
	_, lt := bits.Sub64(r, d, 0) // 0 iff r >= d
	qHi += 1 - lt
	r -= d & (lt - 1)

	return qHi, r
}

// InvertPair returns InvertLimb(dHi), the single-limb reciprocal of the
// leading limb of the two-limb normalized divisor (dHi, dLo). dLo does not
// enter the result, so this is not a three-by-two reciprocal of the full
// pair; natural.Div calls InvertLimb directly. dHi MUST be normalized.
func InvertPair(dHi, dLo Limb) Limb {
	_ = dLo
	return InvertLimb(dHi)
}

// CLZ returns the number of leading zero bits in x. Undefined (returns 64)
// for x == 0.
func CLZ(x Limb) int {
	return bits.LeadingZeros64(x)
}

// CTZ returns the number of trailing zero bits in x. Undefined (returns 64)
// for x == 0.
func CTZ(x Limb) int {
	return bits.TrailingZeros64(x)
}
