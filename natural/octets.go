package natural

import "github.com/tqolf/go-mpi/limb"

// FromBytes decodes a big-endian byte string into a Natural. Leading zero
// bytes are permitted and do not affect the result (per spec.md §6.2: the
// same integer results regardless of leading zero bytes).
func FromBytes(b []byte) Natural {
	n := (len(b) + 7) / 8
	out := make(Natural, n)
	for i, bi := 0, len(b); bi > 0; i++ {
		lo := bi - 8
		if lo < 0 {
			lo = 0
		}
		var w limb.Limb
		for _, byt := range b[lo:bi] {
			w = (w << 8) | limb.Limb(byt)
		}
		out[i] = w
		bi = lo
	}
	return Normalize(out)
}

// ToBytes encodes a into big-endian bytes, zero-padded to width bytes. If
// width is 0, the minimal byte count is used. Panics if width is non-zero
// but too small to hold a.
func ToBytes(a Natural, width int) []byte {
	a = Normalize(a)
	minWidth := byteLen(a)
	if width == 0 {
		width = minWidth
	}
	if width < minWidth {
		panic("natural: ToBytes destination width too small")
	}

	out := make([]byte, width)
	for i := 0; i < len(a); i++ {
		w := a[i]
		for j := 0; j < 8; j++ {
			pos := width - 1 - (i*8 + j)
			if pos < 0 {
				break
			}
			out[pos] = byte(w)
			w >>= 8
		}
	}
	return out
}

func byteLen(a Natural) int {
	bits := BitLen(a)
	return (bits + 7) / 8
}
