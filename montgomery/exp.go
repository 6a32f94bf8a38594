package montgomery

import "github.com/tqolf/go-mpi/natural"

// windowWidth returns the fixed-window width for an exponent of the given
// bit length, per spec.md §4.3.
func windowWidth(bits int) uint {
	switch {
	case bits <= 7:
		return 1
	case bits <= 23:
		return 3
	case bits <= 79:
		return 4
	case bits <= 239:
		return 5
	case bits <= 671:
		return 6
	default:
		return 7
	}
}

// buildTable precomputes baseM^1 .. baseM^(2^w - 1) in the Montgomery
// domain, given baseM already encoded.
func (c *Context) buildTable(baseM natural.Natural, w uint) []natural.Natural {
	size := (1 << w) - 1
	tbl := make([]natural.Natural, size)
	tbl[0] = natural.Clone(baseM)
	tbl[0] = pad(tbl[0], c.n)
	for i := 1; i < size; i++ {
		tbl[i] = make(natural.Natural, c.n)
		c.MontMul(tbl[i], tbl[i-1], tbl[0])
	}
	return tbl
}

// windowsOf splits exponent into base-2^w digits, most significant first,
// over a fixed bit width (so the digit count is independent of the
// exponent's actual magnitude, only of the caller-supplied width).
func windowsOf(exponent natural.Natural, bitWidth int, w uint) []uint64 {
	nWindows := (bitWidth + int(w) - 1) / int(w)
	digits := make([]uint64, nWindows)
	for i := 0; i < nWindows; i++ {
		startBit := (nWindows - 1 - i) * int(w)
		var v uint64
		for b := int(w) - 1; b >= 0; b-- {
			v = (v << 1) | uint64(natural.Bit(exponent, startBit+b))
		}
		digits[i] = v
	}
	return digits
}

// Exp computes base^exponent mod m in variable time: both the table
// lookup and the window width depend on public data. Suitable for RSA
// public-key operations (the exponent, typically 65537, is not secret).
func (c *Context) Exp(base, exponent natural.Natural) natural.Natural {
	bits := natural.BitLen(exponent)
	if bits == 0 {
		out := make(natural.Natural, c.n)
		out[0] = 1
		return out
	}
	w := windowWidth(bits)

	baseM := make(natural.Natural, c.n)
	c.Encode(baseM, base)
	tbl := c.buildTable(baseM, w)

	digits := windowsOf(exponent, bits, w)

	result := c.One()
	for i, d := range digits {
		if i > 0 {
			for k := uint(0); k < w; k++ {
				tmp := make(natural.Natural, c.n)
				c.MontSqr(tmp, result)
				result = tmp
			}
		}
		if d != 0 {
			tmp := make(natural.Natural, c.n)
			c.MontMul(tmp, result, tbl[d-1])
			result = tmp
		}
	}

	out := make(natural.Natural, c.n)
	c.Decode(out, result)
	return out
}

// ExpConstTime computes base^exponent mod m without branching or
// table-indexing on the exponent's bits: the window width is chosen from
// the modulus's allocated bit width (public), every window performs the
// same number of squarings, and every table entry is touched (masked
// select) on every window regardless of the digit actually needed. Use
// this whenever exponent is secret (RSA private-key operations).
func (c *Context) ExpConstTime(base, exponent natural.Natural) natural.Natural {
	bitWidth := c.n * 64
	w := windowWidth(bitWidth)

	baseM := make(natural.Natural, c.n)
	c.Encode(baseM, base)
	tbl := c.buildTable(baseM, w)

	digits := windowsOf(exponent, bitWidth, w)

	result := c.One()
	for i, d := range digits {
		if i > 0 {
			for k := uint(0); k < w; k++ {
				tmp := make(natural.Natural, c.n)
				c.MontSqr(tmp, result)
				result = tmp
			}
		}

		selected := make(natural.Natural, c.n)
		for idx, entry := range tbl {
			mask := maskEqual(d, uint64(idx+1))
			selectInto(selected, entry, mask)
		}
		multiplied := make(natural.Natural, c.n)
		c.MontMul(multiplied, result, selected)

		// When d == 0, "selected" is all-zero and "multiplied" would be
		// zero too; select between result (d==0) and multiplied (d!=0)
		// rather than multiplying by a zero operand.
		final := make(natural.Natural, c.n)
		isZero := maskEqual(d, 0)
		for j := range final {
			final[j] = (result[j] & isZero) | (multiplied[j] &^ isZero)
		}
		result = final
	}

	out := make(natural.Natural, c.n)
	c.Decode(out, result)
	return out
}

// WindowScheduleLength returns the number of fixed-width windows
// ExpConstTime will process for the given context and exponent. It
// exists for constant-time self-checks: the result depends only on
// ctx's limb width, never on exponent's value, which a test can verify
// directly (see consttime_test.go).
func WindowScheduleLength(ctx *Context, exponent natural.Natural) int {
	_ = exponent
	bitWidth := ctx.n * 64
	w := windowWidth(bitWidth)
	return (bitWidth + int(w) - 1) / int(w)
}

// maskEqual returns all-ones if a == b, else zero, without branching on
// the comparison: x is nonzero iff a != b, and for any nonzero uint64 x,
// (x | -x) has its top bit set (the classic is-nonzero trick), so shifting
// that down to a single bit and subtracting 1 turns "equal" into all-ones
// and "not equal" into zero. Mirrors the teacher's masked-select idiom
// (point_table.go's SelectAndAdd, field.go's ConditionalSelect) instead of
// an if, since d here is the secret window digit.
func maskEqual(a, b uint64) uint64 {
	x := a ^ b
	nonzero := (x | (0 - x)) >> 63
	return nonzero - 1
}

func selectInto(dst, src natural.Natural, mask uint64) {
	for i := range dst {
		dst[i] |= src[i] & mask
	}
}
