package rsa

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/tqolf/go-mpi/natural"
)

var errMalformedKey = errors.New("rsa: malformed PKCS#1 key")

// MarshalPKCS1PublicKey encodes k's public half as a DER RSAPublicKey
// (RFC 8017 A.1.1).
func MarshalPKCS1PublicKey(k *Key) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(toBigInt(k.n))
		b.AddASN1BigInt(toBigInt(k.e))
	})
	return b.Bytes()
}

// ParsePKCS1PublicKey decodes a DER RSAPublicKey into an import-only Key.
func ParsePKCS1PublicKey(der []byte) (*Key, error) {
	var inner cryptobyte.String
	var n, e big.Int

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&n) ||
		!inner.ReadASN1Integer(&e) ||
		!inner.Empty() {
		return nil, errMalformedKey
	}

	return Import(natural.FromBytes(n.Bytes()), natural.FromBytes(e.Bytes()), nil, nil, nil, nil, nil, nil)
}

// MarshalPKCS1PrivateKey encodes k's full CRT key material as a DER
// RSAPrivateKey (RFC 8017 A.1.2). k MUST carry CRT material.
func MarshalPKCS1PrivateKey(k *Key) ([]byte, error) {
	if !k.HasCRT() {
		return nil, invalidState("rsa.MarshalPKCS1PrivateKey")
	}

	p := k.montP.Modulus()
	q := k.montQ.Modulus()

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(big.NewInt(0)) // version
		b.AddASN1BigInt(toBigInt(k.n))
		b.AddASN1BigInt(toBigInt(k.e))
		b.AddASN1BigInt(toBigInt(k.d))
		b.AddASN1BigInt(toBigInt(p))
		b.AddASN1BigInt(toBigInt(q))
		b.AddASN1BigInt(toBigInt(k.dp))
		b.AddASN1BigInt(toBigInt(k.dq))
		b.AddASN1BigInt(toBigInt(k.qinv))
	})
	return b.Bytes()
}

// ParsePKCS1PrivateKey decodes a DER RSAPrivateKey (two-prime only; the
// otherPrimeInfos extension for multi-prime keys is rejected, matching
// spec.md's two-prime scope).
func ParsePKCS1PrivateKey(der []byte) (*Key, error) {
	var inner cryptobyte.String
	var version int64
	var n, e, d, p, q, dp, dq, qinv big.Int

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&version) ||
		version != 0 ||
		!inner.ReadASN1Integer(&n) ||
		!inner.ReadASN1Integer(&e) ||
		!inner.ReadASN1Integer(&d) ||
		!inner.ReadASN1Integer(&p) ||
		!inner.ReadASN1Integer(&q) ||
		!inner.ReadASN1Integer(&dp) ||
		!inner.ReadASN1Integer(&dq) ||
		!inner.ReadASN1Integer(&qinv) {
		return nil, errMalformedKey
	}
	if !inner.Empty() {
		return nil, errors.New("rsa: multi-prime PKCS#1 keys are not supported")
	}

	return Import(natural.FromBytes(n.Bytes()), natural.FromBytes(e.Bytes()), natural.FromBytes(d.Bytes()),
		natural.FromBytes(p.Bytes()), natural.FromBytes(q.Bytes()),
		natural.FromBytes(dp.Bytes()), natural.FromBytes(dq.Bytes()), natural.FromBytes(qinv.Bytes()))
}

func toBigInt(a natural.Natural) *big.Int {
	return new(big.Int).SetBytes(natural.ToBytes(a, 0))
}
