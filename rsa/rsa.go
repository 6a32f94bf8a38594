// Package rsa implements the L5 facade of the arithmetic engine: RSA key
// construction, generation, and the three cipher primitives (public,
// private, and CRT-accelerated private) built on package montgomery.
package rsa

import (
	"fmt"
	"io"

	"github.com/tqolf/go-mpi/internal/disalloweq"
	"github.com/tqolf/go-mpi/montgomery"
	"github.com/tqolf/go-mpi/natural"
)

type keyState int

const (
	stateFresh keyState = iota
	stateImported
	stateGenerated
)

// Key is an RSA key pair (or public key alone). The zero value is not
// usable; construct one with NewKey, Import, or GenerateKey. A Key is
// immutable after construction and safe for concurrent cipher operations.
type Key struct {
	_ disalloweq.DisallowEqual

	state keyState

	nBits, eBits, dBits, pBits, qBits int

	n, e natural.Natural
	d    natural.Natural // nil unless this is a private key

	// CRT material; nil unless both primes were supplied or generated.
	dp, dq, qinv natural.Natural

	montN *montgomery.Context
	montP *montgomery.Context // nil unless CRT material is present
	montQ *montgomery.Context
}

// NewKey returns a fresh Key sized for an n_bits-bit modulus and an
// e_bits-bit public exponent, with no modulus, exponent, or Montgomery
// context populated yet. Every cipher method on a fresh Key returns
// invalid-state; call Import or GenerateKey to reach a usable key
// (spec.md §3/§4.4: fresh -> imported | generated, and only those two
// states may serve ciphers).
func NewKey(eBits, nBits int) (*Key, error) {
	if eBits <= 0 || nBits <= 0 {
		return nil, invalidArg("rsa.NewKey", "e_bits and n_bits must be positive")
	}
	pBits := nBits / 2
	qBits := nBits - pBits
	return &Key{
		state: stateFresh,
		nBits: nBits,
		eBits: eBits,
		pBits: pBits,
		qBits: qBits,
	}, nil
}

// Import builds a Key from externally-supplied components. e and n are
// required. d alone yields a private key usable only with PrvCipher; d
// plus p, q, dp, dq, qinv yields one that also supports the
// CRT-accelerated PrvCipherCRT. A nil d yields a public-key-only Key.
func Import(n, e, d, p, q, dp, dq, qinv natural.Natural) (*Key, error) {
	n = natural.Normalize(n)
	e = natural.Normalize(e)
	if len(n) == 0 || len(e) == 0 {
		return nil, invalidArg("rsa.Import", "n and e are required")
	}

	montN, err := montgomery.NewContext(n)
	if err != nil {
		return nil, wrapErr("rsa.Import", err)
	}

	k := &Key{
		state: stateImported,
		nBits: natural.BitLen(n),
		eBits: natural.BitLen(e),
		n:     n,
		e:     e,
		montN: montN,
	}

	if d != nil {
		d = natural.Normalize(d)
		k.d = d
		k.dBits = natural.BitLen(d)
	}

	if p != nil && q != nil && dp != nil && dq != nil && qinv != nil {
		montP, err := montgomery.NewContext(p)
		if err != nil {
			return nil, wrapErr("rsa.Import", err)
		}
		montQ, err := montgomery.NewContext(q)
		if err != nil {
			return nil, wrapErr("rsa.Import", err)
		}
		k.montP = montP
		k.montQ = montQ
		k.pBits = natural.BitLen(p)
		k.qBits = natural.BitLen(q)
		k.dp = natural.Normalize(dp)
		k.dq = natural.Normalize(dq)
		k.qinv = natural.Normalize(qinv)
	}

	return k, nil
}

// GenerateKey generates a fresh two-prime RSA key pair with the given
// public exponent and modulus bit length, reading randomness from rand.
// It retries prime generation internally whenever a candidate pair fails
// the gcd(e, p-1)=gcd(e, q-1)=1 requirement, per spec.md §4.4.
func GenerateKey(e natural.Natural, nBits int, rand io.Reader) (*Key, error) {
	e = natural.Normalize(e)
	if len(e) == 0 || e[0]&1 == 0 || nBits < 2 {
		return nil, invalidArg("rsa.GenerateKey", "invalid exponent or modulus size")
	}

	pBits := nBits / 2
	qBits := nBits - pBits

	for {
		p, err := generatePrime(pBits, rand)
		if err != nil {
			return nil, err
		}
		q, err := generatePrime(qBits, rand)
		if err != nil {
			return nil, err
		}
		if natural.Equal(p, q) {
			continue
		}

		pMinus1 := decrement(p)
		qMinus1 := decrement(q)

		phi := make(natural.Natural, len(pMinus1)+len(qMinus1))
		natural.Mul(phi, pMinus1, qMinus1)
		phi = natural.Normalize(phi)

		// phi is even and ModInvert needs an odd modulus, so invert modulo
		// e instead: with k = -phi^-1 mod e, e divides 1 + k*phi = e*d.
		phiInv, err := natural.ModInvert(natural.Mod(phi, e), e)
		if isNotInvertible(err) {
			continue // e not coprime with phi; regenerate primes.
		}
		if err != nil {
			return nil, err
		}
		k := make(natural.Natural, len(e))
		natural.Sub(k, e, phiInv)
		num := make(natural.Natural, len(k)+len(phi))
		natural.Mul(num, k, phi)
		natural.IncVec(num, num, 1)
		d := make(natural.Natural, len(num))
		natural.Div(d, nil, num, e)
		d = natural.Normalize(d)

		dp := natural.Mod(d, pMinus1)
		dq := natural.Mod(d, qMinus1)

		qinv, err := natural.ModInvert(q, p)
		if isNotInvertible(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		n := make(natural.Natural, len(p)+len(q))
		natural.Mul(n, p, q)
		n = natural.Normalize(n)

		montN, err := montgomery.NewContext(n)
		if err != nil {
			return nil, wrapErr("rsa.GenerateKey", err)
		}
		montP, err := montgomery.NewContext(p)
		if err != nil {
			return nil, wrapErr("rsa.GenerateKey", err)
		}
		montQ, err := montgomery.NewContext(q)
		if err != nil {
			return nil, wrapErr("rsa.GenerateKey", err)
		}

		return &Key{
			state: stateGenerated,
			nBits: natural.BitLen(n),
			eBits: natural.BitLen(e),
			dBits: natural.BitLen(d),
			pBits: natural.BitLen(p),
			qBits: natural.BitLen(q),
			n:     n,
			e:     e,
			d:     d,
			dp:    dp,
			dq:    dq,
			qinv:  qinv,
			montN: montN,
			montP: montP,
			montQ: montQ,
		}, nil
	}
}

func decrement(a natural.Natural) natural.Natural {
	r := make(natural.Natural, len(a))
	one := make(natural.Natural, len(a))
	one[0] = 1
	natural.Sub(r, a, one)
	return natural.Normalize(r)
}

func generatePrime(bits int, rand io.Reader) (natural.Natural, error) {
	width := (bits + 7) / 8
	buf := make([]byte, width)
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, &natural.Error{Kind: natural.RNGFailure, Op: "rsa.generatePrime", Err: err}
		}
		cand := natural.FromBytes(buf)
		cand = forceBitWidth(cand, bits)
		ok, err := montgomery.IsPrime(cand, rand)
		if err != nil {
			return nil, err
		}
		if ok {
			return cand, nil
		}
	}
}

// forceBitWidth sets the top bit (to guarantee the requested bit length)
// and the bottom bit (to guarantee oddness) of a random candidate.
func forceBitWidth(cand natural.Natural, bits int) natural.Natural {
	n := (bits + 63) / 64
	out := make(natural.Natural, n)
	copy(out, cand)
	topBit := (bits - 1) % 64
	topLimb := (bits - 1) / 64
	out[topLimb] |= 1 << uint(topBit)
	out[0] |= 1
	return out
}

// N returns the modulus.
func (k *Key) N() natural.Natural { return k.n }

// E returns the public exponent.
func (k *Key) E() natural.Natural { return k.e }

// IsPrivate reports whether the key can perform private-key operations.
func (k *Key) IsPrivate() bool { return k.d != nil }

// HasCRT reports whether the key carries the CRT quintet needed for
// PrvCipherCRT.
func (k *Key) HasCRT() bool { return k.dp != nil && k.dq != nil && k.qinv != nil && k.montP != nil }

// PubCipher computes x^e mod n, in variable time (e and n are public).
func (k *Key) PubCipher(x natural.Natural) (natural.Natural, error) {
	if k.montN == nil {
		return nil, invalidState("rsa.PubCipher")
	}
	return k.montN.Exp(reduceFor(x, k.montN), k.e), nil
}

// PrvCipher computes x^d mod n using the plain private exponent, in
// constant time with respect to d.
func (k *Key) PrvCipher(x natural.Natural) (natural.Natural, error) {
	if !k.IsPrivate() {
		return nil, invalidState("rsa.PrvCipher")
	}
	return k.montN.ExpConstTime(reduceFor(x, k.montN), k.d), nil
}

// PrvCipherCRT computes x^d mod n via the CRT-accelerated path (Garner's
// formula), requiring dp, dq, qinv and the per-prime Montgomery contexts.
// It always reduces xq modulo p with a plain division rather than the
// equal-bit-size Montgomery shortcut the original engine uses when
// len(p)==len(q): the two paths are arithmetically identical, and taking
// only the general path keeps this function correct regardless of how p
// and q happened to be split.
func (k *Key) PrvCipherCRT(x natural.Natural) (natural.Natural, error) {
	if !k.HasCRT() {
		return nil, invalidState("rsa.PrvCipherCRT")
	}

	p := k.montP.Modulus()
	q := k.montQ.Modulus()

	xq := natural.Mod(x, q)
	xq = k.montQ.ExpConstTime(xq, k.dq)

	xp := natural.Mod(x, p)
	xp = k.montP.ExpConstTime(xp, k.dp)

	xqModP := natural.Mod(xq, p)
	diff := make(natural.Natural, len(p))
	k.montP.SubMod(diff, pad(xp, len(p)), pad(xqModP, len(p)))

	h := plainMulMod(p, diff, k.qinv)

	hq := make(natural.Natural, len(p)+len(q))
	natural.Mul(hq, h, q)
	y := make(natural.Natural, len(hq))
	natural.Add(y, hq, xq)

	return natural.Normalize(y), nil
}

func plainMulMod(m, a, b natural.Natural) natural.Natural {
	t := make(natural.Natural, 2*len(m))
	natural.Mul(t, pad(a, len(m)), pad(b, len(m)))
	out := make(natural.Natural, len(m))
	natural.Div(nil, out, t, m)
	return out
}

func reduceFor(x natural.Natural, ctx *montgomery.Context) natural.Natural {
	return natural.Mod(x, ctx.Modulus())
}

func pad(a natural.Natural, n int) natural.Natural {
	if len(a) == n {
		return a
	}
	r := make(natural.Natural, n)
	copy(r, a)
	return r
}

func isNotInvertible(err error) bool {
	e, ok := err.(*natural.Error)
	return ok && e.Kind == natural.NotInvertible
}

func invalidArg(op, msg string) error {
	return &natural.Error{Kind: natural.InvalidArgument, Op: op, Err: fmt.Errorf("%s", msg)}
}

func invalidState(op string) error {
	return &natural.Error{Kind: natural.InvalidState, Op: op, Err: fmt.Errorf("key not usable for this operation")}
}

func wrapErr(op string, err error) error {
	if e, ok := err.(*natural.Error); ok {
		return &natural.Error{Kind: e.Kind, Op: op, Err: e.Err}
	}
	return &natural.Error{Kind: natural.InvalidArgument, Op: op, Err: err}
}
