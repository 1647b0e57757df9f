//
// torsion.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package curve

import "filippo.io/edwards25519"

// eightTorsionBytes is the compressed encoding of a designated
// non-identity point of order 8 in Curve25519's Edwards form, the
// same small-order constant published in the curve's well-known
// eight-torsion table (the point libraries such as curve25519-dalek
// expose as EIGHT_TORSION[1]). Adding it to an outgoing point and
// clearing it again with a cofactor-8 multiplication on receipt is
// what lets the Chou-Orlandi base OT reject points outside the
// prime-order subgroup without a scalar division.
var eightTorsionBytes = [32]byte{
	0xc7, 0x17, 0x6a, 0x70, 0x3d, 0x4d, 0xd8, 0x4f,
	0xba, 0x3c, 0x0b, 0x76, 0x0d, 0x10, 0x67, 0x0f,
	0x2a, 0x20, 0x53, 0xfa, 0x2c, 0x39, 0xcc, 0xc6,
	0x4e, 0xc7, 0xfd, 0x77, 0x92, 0xac, 0x03, 0x7a,
}

var eightTorsion *edwards25519.Point

func init() {
	p, err := new(edwards25519.Point).SetBytes(eightTorsionBytes[:])
	if err != nil {
		panic("curve: invalid eight-torsion constant: " + err.Error())
	}
	eightTorsion = p
}

// EightTorsion returns the fixed order-8 point added to every
// outgoing base-OT wire point.
func EightTorsion() *edwards25519.Point {
	return eightTorsion
}

// orderRemainderBytes is the canonical little-endian encoding of
// l - 2^252 = 27742317777372353535851937790883648493, where l is the
// order of the prime-order subgroup.
var orderRemainderBytes = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
}

var orderRemainder *edwards25519.Scalar

func init() {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(orderRemainderBytes[:])
	if err != nil {
		panic("curve: invalid order-remainder constant: " + err.Error())
	}
	orderRemainder = s
}

// IsTorsionFree reports whether p lies in the prime-order subgroup,
// i.e. whether l*p is the identity. A correctly masked wire point is
// never torsion-free; the cofactor-cleared point always is. The group
// order l exceeds the scalar field's canonical range, so it is split
// as 2^252 (applied by repeated doubling) plus the in-range remainder.
func IsTorsionFree(p *edwards25519.Point) bool {
	q := new(edwards25519.Point).ScalarMult(orderRemainder, p)
	d := new(edwards25519.Point).Set(p)
	for i := 0; i < 252; i++ {
		d.Add(d, d)
	}
	sum := new(edwards25519.Point).Add(d, q)
	return sum.Equal(edwards25519.NewIdentityPoint()) == 1
}
