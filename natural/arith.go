package natural

import "github.com/tqolf/go-mpi/limb"

// AddVec sets r[i] = a[i] + b[i] + carry for i in [0, n), n = len(a) = len(b)
// = len(r), and returns the final carry out. r may alias a or b.
func AddVec(r, a, b Natural) limb.Limb {
	var c limb.Limb
	for i := range a {
		r[i], c = limb.AddWithCarry(a[i], b[i], c)
	}
	return c
}

// SubVec sets r[i] = a[i] - b[i] - borrow for i in [0, n), and returns the
// final borrow out. r may alias a or b.
func SubVec(r, a, b Natural) limb.Limb {
	var c limb.Limb
	for i := range a {
		r[i], c = limb.SubWithBorrow(a[i], b[i], c)
	}
	return c
}

// Add sets r = a + b where a is allowed to be longer than b (mixed-length
// addition): b is implicitly zero-extended. len(r) MUST be >= len(a).
// Returns the final carry out.
func Add(r, a, b Natural) limb.Limb {
	n := len(b)
	c := AddVec(r[:n], a[:n], b)
	return IncVec(r[n:], a[n:], c)
}

// Sub sets r = a - b where a is allowed to be longer than b. len(r) MUST
// be >= len(a). Returns the final borrow out.
func Sub(r, a, b Natural) limb.Limb {
	n := len(b)
	c := SubVec(r[:n], a[:n], b)
	return DecVec(r[n:], a[n:], c)
}

// IncVec adds the single limb c into a, propagating carry, writing the
// result to r (len(r) == len(a)). Short-circuits once the carry clears.
func IncVec(r, a Natural, c limb.Limb) limb.Limb {
	i := 0
	for ; c != 0 && i < len(a); i++ {
		r[i], c = limb.AddWithCarry(a[i], 0, c)
	}
	copy(r[i:], a[i:])
	return c
}

// DecVec subtracts the single limb c from a, propagating borrow, writing
// the result to r (len(r) == len(a)). Short-circuits once the borrow
// clears.
func DecVec(r, a Natural, c limb.Limb) limb.Limb {
	i := 0
	for ; c != 0 && i < len(a); i++ {
		r[i], c = limb.SubWithBorrow(a[i], 0, c)
	}
	copy(r[i:], a[i:])
	return c
}

// ShiftLeftVec sets r = a << s for 0 <= s < 64, and returns the limb
// shifted out of the top. len(r) == len(a).
func ShiftLeftVec(r, a Natural, s uint) limb.Limb {
	if s == 0 {
		copy(r, a)
		return 0
	}
	var carry limb.Limb
	for i := 0; i < len(a); i++ {
		w := a[i]
		r[i] = (w << s) | carry
		carry = w >> (limb.Bits - s)
	}
	return carry
}

// ShiftRightVec sets r = a >> s for 0 <= s < 64, shifting in shiftIn at
// the top (shiftIn is normally 0; it lets callers splice a limb that was
// shifted out of a higher word back in). Returns the bits shifted out of
// the bottom, left-aligned in a limb (i.e. in the top s bits).
func ShiftRightVec(r, a Natural, s uint, shiftIn limb.Limb) limb.Limb {
	if s == 0 {
		copy(r, a)
		return 0
	}
	var carry = shiftIn
	for i := len(a) - 1; i >= 0; i-- {
		w := a[i]
		r[i] = (w >> s) | carry
		carry = w << (limb.Bits - s)
	}
	return carry
}

// Cmp returns -1, 0, or +1 according to whether a < b, a == b, or a > b.
// a and b may have different lengths; trailing (high) zero limbs do not
// affect the comparison. Variable-time: only safe on public values.
func Cmp(a, b Natural) int {
	na, nb := len(Normalize(a)), len(Normalize(b))
	if na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	for i := na - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CmpConstTime returns -1, 0, or +1 as Cmp does, for equal-length a and b,
// without branching on the position of the first differing limb: every
// limb pair is inspected regardless of whether an earlier pair already
// determined the outcome.
func CmpConstTime(a, b Natural) int {
	if len(a) != len(b) {
		panic("natural: CmpConstTime requires equal-length operands")
	}

	var gt, lt limb.Limb
	for i := len(a) - 1; i >= 0; i-- {
		// A limb position decides the outcome only if no higher
		// position already has. Track that with a "decided" mask
		// computed from gt|lt so far.
		decided := gt | lt
		isGt := boolMask(a[i] > b[i])
		isLt := boolMask(a[i] < b[i])
		gt |= isGt &^ decided
		lt |= isLt &^ decided
	}

	switch {
	case gt != 0:
		return 1
	case lt != 0:
		return -1
	default:
		return 0
	}
}

func boolMask(b bool) limb.Limb {
	if b {
		return ^limb.Limb(0)
	}
	return 0
}

// Mul1 sets r = a*c (single-limb multiplier), len(r) == len(a), and
// returns the carry limb out of the top.
func Mul1(r, a Natural, c limb.Limb) limb.Limb {
	var carry limb.Limb
	for i := range a {
		hi, lo := limb.MulWide(a[i], c)
		var k limb.Limb
		lo, k = limb.AddWithCarry(lo, carry, 0)
		carry = hi + k
		r[i] = lo
	}
	return carry
}

// AddMul1 sets r += a*c (single-limb multiplier) in place, len(r) ==
// len(a), and returns the carry limb out of the top.
func AddMul1(r, a Natural, c limb.Limb) limb.Limb {
	var carry limb.Limb
	for i := range a {
		hi, lo := limb.MulWide(a[i], c)
		var k0, k1 limb.Limb
		lo, k0 = limb.AddWithCarry(lo, carry, 0)
		r[i], k1 = limb.AddWithCarry(r[i], lo, 0)
		carry = hi + k0 + k1
	}
	return carry
}

// Mul sets r = a*b via schoolbook multiplication. len(r) MUST equal
// len(a)+len(b); r MUST NOT alias a or b.
func Mul(r, a, b Natural) {
	for i := range r {
		r[i] = 0
	}
	for j, bj := range b {
		if bj == 0 {
			continue
		}
		r[len(a)+j] = AddMul1(r[j:j+len(a)], a, bj)
	}
}

// Square sets r = a*a via the symmetric schoolbook algorithm (each
// off-diagonal partial product computed once, then doubled). len(r) MUST
// equal 2*len(a); r MUST NOT alias a.
func Square(r, a Natural) {
	n := len(a)
	for i := range r {
		r[i] = 0
	}

	// Off-diagonal terms, each counted once.
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		carry := AddMul1(r[2*i+1:2*i+1+(n-i-1)], a[i+1:], a[i])
		// Propagate the carry through the rest of r.
		k := 2*i + 1 + (n - i - 1)
		for carry != 0 && k < len(r) {
			r[k], carry = limb.AddWithCarry(r[k], carry, 0)
			k++
		}
	}

	// Double the off-diagonal sum.
	var carry limb.Limb
	for i := range r {
		v := r[i]
		nv := (v << 1) | carry
		carry = v >> (limb.Bits - 1)
		r[i] = nv
	}

	// Add the diagonal terms a[i]^2. Each term occupies its own disjoint
	// limb pair (2i, 2i+1), so the diagonal vector can be built directly
	// and added to r with a single ordinary carry chain.
	diag := make(Natural, len(r))
	for i := 0; i < n; i++ {
		hi, lo := limb.MulWide(a[i], a[i])
		diag[2*i] = lo
		diag[2*i+1] = hi
	}
	AddVec(r, r, diag)
}
