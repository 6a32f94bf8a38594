// Package montgomery implements the L4 Montgomery-multiplication subsystem:
// residue encoding, CIOS reduction, modular multiplication/squaring, and
// (in exp.go/prime.go) fixed-window exponentiation and primality testing
// built on top of it.
package montgomery

import (
	"fmt"

	"github.com/tqolf/go-mpi/internal/disalloweq"
	"github.com/tqolf/go-mpi/internal/sysinfo"
	"github.com/tqolf/go-mpi/limb"
	"github.com/tqolf/go-mpi/natural"
)

// Context holds the precomputed state for Montgomery arithmetic modulo an
// odd modulus m: m itself, the per-limb Montgomery constant m', and R mod
// m / R^2 mod m (used to move operands into and out of the Montgomery
// domain by way of a single MontMul). A Context is immutable after
// NewContext returns and is safe for concurrent use by multiple
// goroutines (spec.md §5: the engine keeps no package-level mutable
// state).
type Context struct {
	_ disalloweq.DisallowEqual

	modulus natural.Natural // normalized, n limbs, odd
	n       int
	mPrime  limb.Limb    // -m[0]^-1 mod 2^64
	rsq     natural.Natural // R^2 mod m, n limbs
	rMod    natural.Natural // R mod m, n limbs ("1" in Montgomery domain)

	cpu string // sysinfo feature string, informational only
}

// NewContext builds a Montgomery context for the given odd modulus. It
// returns a *natural.Error wrapping InvalidArgument if m is even or zero.
func NewContext(m natural.Natural) (*Context, error) {
	m = natural.Normalize(m)
	if len(m) == 0 || m[0]&1 == 0 {
		return nil, &natural.Error{Kind: natural.InvalidArgument, Op: "montgomery.NewContext",
			Err: fmt.Errorf("modulus must be odd and non-zero")}
	}

	n := len(m)
	ctx := &Context{
		modulus: natural.Clone(m),
		n:       n,
		mPrime:  montgomeryPrime(m[0]),
		cpu:     sysinfo.Summary(),
	}

	ctx.rMod = computeRMod(m, n)
	ctx.rsq = computeRSquared(ctx.rMod, m, n)
	return ctx, nil
}

// montgomeryPrime computes m' = -m0^-1 mod 2^64 via Hensel lifting (Newton
// iteration on the 2-adic inverse, doubling the number of correct bits
// each round: 1 -> 2 -> 4 -> ... -> 64).
func montgomeryPrime(m0 limb.Limb) limb.Limb {
	x := m0 // m0 is odd, so m0 is its own inverse mod 2.
	for i := 0; i < 6; i++ {
		x = x * (2 - m0*x)
	}
	return -x
}

// computeRMod returns R mod m = 2^(64n) mod m, by repeated doubling with
// conditional subtraction: start at 1 and double n*64 times.
func computeRMod(m natural.Natural, n int) natural.Natural {
	r := make(natural.Natural, n)
	r[0] = 1
	tmp := make(natural.Natural, n+1)
	for i := 0; i < n*limb.Bits; i++ {
		carry := natural.AddVec(r, r, r)
		tmp[n] = carry
		copy(tmp[:n], r)
		if carry != 0 || natural.Cmp(tmp[:n], m) >= 0 {
			natural.Sub(r, tmp[:n], m)
		}
	}
	return r
}

// computeRSquared returns R^2 mod m given R mod m, via n*64 more doublings.
func computeRSquared(rMod natural.Natural, m natural.Natural, n int) natural.Natural {
	rsq := natural.Clone(rMod)
	rsq = pad(rsq, n)
	tmp := make(natural.Natural, n+1)
	for i := 0; i < n*limb.Bits; i++ {
		carry := natural.AddVec(rsq, rsq, rsq)
		tmp[n] = carry
		copy(tmp[:n], rsq)
		if carry != 0 || natural.Cmp(tmp[:n], m) >= 0 {
			natural.Sub(rsq, tmp[:n], m)
		}
	}
	return rsq
}

func pad(a natural.Natural, n int) natural.Natural {
	if len(a) == n {
		return a
	}
	r := make(natural.Natural, n)
	copy(r, a)
	return r
}

// Modulus returns the modulus this context reduces against. The returned
// slice MUST NOT be mutated by the caller.
func (c *Context) Modulus() natural.Natural { return c.modulus }

// Size returns the modulus's limb width.
func (c *Context) Size() int { return c.n }

// Features reports the CPU feature summary recorded when the context was
// built, for diagnostics.
func (c *Context) Features() string { return c.cpu }

// Reduce performs CIOS Montgomery reduction: given t of length 2n (an
// ordinary product, not yet in the Montgomery domain), it computes
// t * R^-1 mod m, in [0, m), written to out (length n). t is destroyed.
func (c *Context) Reduce(out, t natural.Natural) {
	n := c.n
	m := c.modulus

	var top limb.Limb // carry out of t's top limb
	for i := 0; i < n; i++ {
		u := t[i] * c.mPrime
		carry := natural.AddMul1(t[i:i+n], m, u)
		// Propagate carry into t[i+n:], which always has room since t has
		// 2n limbs total.
		k := i + n
		var c2 limb.Limb
		t[k], c2 = limb.AddWithCarry(t[k], carry, 0)
		for j := k + 1; c2 != 0 && j < len(t); j++ {
			t[j], c2 = limb.AddWithCarry(t[j], 0, c2)
		}
		top += c2
	}

	res := t[n : 2*n]
	if top != 0 || natural.Cmp(res, m) >= 0 {
		natural.Sub(out, res, m)
	} else {
		copy(out, res)
	}
}

// MontMul sets out = a*b*R^-1 mod m (the Montgomery product). a, b, out
// MUST each have length n and represent values already in [0, m). When a
// and b are both Montgomery-domain residues, out is their product's
// residue; this is also how Encode/Decode are implemented (by multiplying
// by R^2 or by 1, respectively).
func (c *Context) MontMul(out, a, b natural.Natural) {
	t := make(natural.Natural, 2*c.n)
	natural.Mul(t, a, b)
	c.Reduce(out, t)
}

// MontSqr sets out = a*a*R^-1 mod m.
func (c *Context) MontSqr(out, a natural.Natural) {
	t := make(natural.Natural, 2*c.n)
	natural.Square(t, a)
	c.Reduce(out, t)
}

// Encode sets out = a*R mod m, converting a plain residue into the
// Montgomery domain. a MUST already be reduced mod m.
func (c *Context) Encode(out, a natural.Natural) {
	c.MontMul(out, pad(natural.Clone(a), c.n), c.rsq)
}

// Decode sets out = a*R^-1 mod m, converting a Montgomery-domain residue
// back to a plain one.
func (c *Context) Decode(out, a natural.Natural) {
	one := make(natural.Natural, c.n)
	one[0] = 1
	c.MontMul(out, a, one)
}

// AddMod sets out = (a+b) mod m. Valid in either domain (Montgomery
// addition/subtraction need no reduction-constant correction).
func (c *Context) AddMod(out, a, b natural.Natural) {
	n := c.n
	sum := make(natural.Natural, n+1)
	sum[n] = natural.AddVec(sum[:n], a, b)
	mExt := make(natural.Natural, n+1)
	copy(mExt, c.modulus)
	if natural.Cmp(sum, mExt) >= 0 {
		natural.SubVec(out, sum[:n], c.modulus)
	} else {
		copy(out, sum[:n])
	}
}

// SubMod sets out = (a-b) mod m.
func (c *Context) SubMod(out, a, b natural.Natural) {
	n := c.n
	if natural.Cmp(a, b) >= 0 {
		natural.SubVec(out, a, b)
		return
	}
	diff := make(natural.Natural, n)
	natural.SubVec(diff, b, a)
	natural.SubVec(out, c.modulus, diff)
}

// One returns R mod m, the Montgomery-domain encoding of 1.
func (c *Context) One() natural.Natural { return natural.Clone(c.rMod) }
