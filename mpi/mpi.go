// Package mpi provides a thin signed-integer convenience wrapper around
// package natural's digit vectors, for callers that want ordinary signed
// big-integer semantics (SetBytes/Bytes, Cmp, Add/Sub, hex I/O) without
// touching limb vectors directly. It delegates every arithmetic operation
// to natural; it does not duplicate the vector engine (spec.md §9).
package mpi

import (
	"encoding/hex"
	"fmt"

	"github.com/tqolf/go-mpi/natural"
)

// Int is an arbitrary-precision signed integer.
type Int struct {
	neg bool
	abs natural.Natural
}

// Zero returns the integer 0.
func Zero() *Int { return &Int{} }

// SetBytes sets z to the big-endian unsigned value of buf and returns z.
func (z *Int) SetBytes(buf []byte) *Int {
	z.neg = false
	z.abs = natural.FromBytes(buf)
	return z
}

// Bytes returns the minimal big-endian encoding of |z|'s magnitude; the
// sign is not represented.
func (z *Int) Bytes() []byte { return natural.ToBytes(z.abs, 0) }

// SetHex sets z from a hex string (an optional leading "-" sets the
// sign), and returns z, or an error if s is not valid hex.
func (z *Int) SetHex(s string) (*Int, error) {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("mpi: invalid hex: %w", err)
	}
	z.abs = natural.FromBytes(buf)
	z.neg = neg && !natural.Zero(z.abs)
	return z, nil
}

// Hex returns z's hexadecimal representation, with a leading "-" if z is
// negative.
func (z *Int) Hex() string {
	s := hex.EncodeToString(natural.ToBytes(z.abs, 0))
	if z.neg {
		return "-" + s
	}
	return s
}

// Sign returns -1, 0, or +1 according to the sign of z.
func (z *Int) Sign() int {
	if natural.Zero(z.abs) {
		return 0
	}
	if z.neg {
		return -1
	}
	return 1
}

// BitLen returns the number of bits in |z|.
func (z *Int) BitLen() int { return natural.BitLen(z.abs) }

// Cmp returns -1, 0, or +1 according to whether z < x, z == x, or z > x.
func (z *Int) Cmp(x *Int) int {
	if z.Sign() != x.Sign() {
		if z.Sign() < x.Sign() {
			return -1
		}
		return 1
	}
	c := natural.Cmp(z.abs, x.abs)
	if z.neg {
		return -c
	}
	return c
}

// Add sets z = x + y and returns z.
func (z *Int) Add(x, y *Int) *Int {
	if x.neg == y.neg {
		z.abs = addAbs(x.abs, y.abs)
		z.neg = x.neg && !natural.Zero(z.abs)
		return z
	}
	return z.addMixedSigns(x, y)
}

// Sub sets z = x - y and returns z.
func (z *Int) Sub(x, y *Int) *Int {
	negY := &Int{neg: !y.neg, abs: y.abs}
	return z.Add(x, negY)
}

func (z *Int) addMixedSigns(x, y *Int) *Int {
	switch natural.Cmp(x.abs, y.abs) {
	case 0:
		z.abs = natural.Natural{}
		z.neg = false
	case 1:
		z.abs = subAbs(x.abs, y.abs)
		z.neg = x.neg
	default:
		z.abs = subAbs(y.abs, x.abs)
		z.neg = y.neg
	}
	return z
}

func addAbs(a, b natural.Natural) natural.Natural {
	if len(a) < len(b) {
		a, b = b, a
	}
	r := make(natural.Natural, len(a)+1)
	c := natural.Add(r[:len(a)], a, b)
	r[len(a)] = c
	return natural.Normalize(r)
}

// subAbs returns a-b; a MUST be >= b in value.
func subAbs(a, b natural.Natural) natural.Natural {
	r := make(natural.Natural, len(a))
	natural.Sub(r, a, b)
	return natural.Normalize(r)
}
