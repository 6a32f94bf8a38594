package natural

import "github.com/tqolf/go-mpi/limb"

// Div1 sets q = u/d and returns the remainder, for a single-limb divisor
// d. len(q) MUST equal len(u). Panics (precondition-violation) if d == 0.
func Div1(q, u Natural, d limb.Limb) limb.Limb {
	if d == 0 {
		panic("natural: Div1 precondition violated: division by zero")
	}
	var r limb.Limb
	for i := len(u) - 1; i >= 0; i-- {
		q[i], r = limb.Div2by1(r, u[i], d)
	}
	return r
}

// Mod1 returns u mod d for a single-limb divisor d.
func Mod1(u Natural, d limb.Limb) limb.Limb {
	if d == 0 {
		panic("natural: Mod1 precondition violated: division by zero")
	}
	var r limb.Limb
	for i := len(u) - 1; i >= 0; i-- {
		_, r = limb.Div2by1(r, u[i], d)
	}
	return r
}

// Div computes q, r such that u = q*v + r, 0 <= r < v, via Knuth's
// Algorithm D (normalize-and-estimate long division), using
// limb.Div2by1PreInv for the per-digit quotient estimate.
//
// v MUST be normalized (its top limb non-zero); Div panics
// (precondition-violation) if v is zero. len(q) MUST be >=
// len(u)-len(v)+1 when len(u) >= len(v) (0 otherwise); len(r) MUST be >=
// len(v). Either of q, r may be nil if the caller does not need that
// output (Mod uses this to avoid computing q).
func Div(q, r, u, v Natural) {
	v = Normalize(v)
	n := len(v)
	if n == 0 {
		panic("natural: Div precondition violated: division by zero")
	}

	u = Normalize(u)
	m := len(u)

	if m < n {
		if r != nil {
			Zeroize(r)
			copy(r, u)
		}
		if q != nil {
			Zeroize(q)
		}
		return
	}

	if n == 1 {
		quo := make(Natural, m)
		rem := Div1(quo, u, v[0])
		if q != nil {
			Zeroize(q)
			copy(q, quo)
		}
		if r != nil {
			Zeroize(r)
			r[0] = rem
		}
		return
	}

	// Normalize: shift v left so its top bit is set, applying the same
	// shift to u (extended by one limb to hold the overflow).
	s := uint(limb.CLZ(v[n-1]))

	vn := make(Natural, n)
	ShiftLeftVec(vn, v, s)

	un := make(Natural, m+1)
	overflow := ShiftLeftVec(un[:m], u, s)
	un[m] = overflow

	dinv := limb.InvertLimb(vn[n-1])

	qlen := m - n + 1
	qn := make(Natural, qlen)

	for j := qlen - 1; j >= 0; j-- {
		hi, lo := un[j+n], un[j+n-1]

		var qhat, rhat limb.Limb
		overflowed := false
		if hi == vn[n-1] {
			qhat = ^limb.Limb(0)
			rhat = lo + vn[n-1]
			overflowed = rhat < lo
		} else {
			qhat, rhat = limb.Div2by1PreInv(hi, lo, vn[n-1], dinv)
		}

		for !overflowed {
			hi2, lo2 := limb.MulWide(qhat, vn[n-2])
			if hi2 < rhat || (hi2 == rhat && lo2 <= un[j+n-2]) {
				break
			}
			qhat--
			newRhat := rhat + vn[n-1]
			overflowed = newRhat < rhat
			rhat = newRhat
		}

		borrow := mulSub1(un[j:j+n], vn, qhat)
		top, b2 := limb.SubWithBorrow(un[j+n], borrow, 0)
		un[j+n] = top
		if b2 != 0 {
			qhat--
			c := AddVec(un[j:j+n], un[j:j+n], vn)
			un[j+n] += c
		}

		qn[j] = qhat
	}

	if q != nil {
		Zeroize(q)
		copy(q, qn)
	}
	if r != nil {
		Zeroize(r)
		ShiftRightVec(r[:n], un[:n], s, 0)
	}
}

// Mod returns u mod v as a newly allocated Natural of length
// len(Normalize(v)); the result is not normalized, so its high limbs may
// be zero.
func Mod(u, v Natural) Natural {
	v = Normalize(v)
	rem := make(Natural, len(v))
	Div(nil, rem, u, v)
	return rem
}

// mulSub1 sets dst -= a*c for a single-limb multiplier c, len(dst) ==
// len(a), and returns the borrow that must be propagated into the limb
// above dst.
func mulSub1(dst, a Natural, c limb.Limb) limb.Limb {
	var borrow limb.Limb
	for i := range a {
		hi, lo := limb.MulWide(a[i], c)
		d0, b0 := limb.SubWithBorrow(dst[i], lo, 0)
		d1, b1 := limb.SubWithBorrow(d0, borrow, 0)
		dst[i] = d1
		borrow = hi + b0 + b1
	}
	return borrow
}
