//
// point.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package curve

import (
	"fmt"

	"filippo.io/edwards25519"
)

// PointSize is the length in bytes of a compressed Edwards point.
const PointSize = 32

// Decompress parses a 32-byte compressed point encoding, rejecting
// wrong-length input and encodings that are not a point on the curve.
// Non-canonical encodings of valid points are accepted.
func Decompress(wire []byte) (*edwards25519.Point, error) {
	if len(wire) != PointSize {
		return nil, fmt.Errorf("curve: wrong point length %d", len(wire))
	}
	p, err := new(edwards25519.Point).SetBytes(wire)
	if err != nil {
		return nil, fmt.Errorf("curve: invalid point encoding: %w", err)
	}
	return p, nil
}

// Mask adds the eight-torsion constant to p, producing the form sent
// over the wire.
func Mask(p *edwards25519.Point) *edwards25519.Point {
	return new(edwards25519.Point).Add(p, EightTorsion())
}

// ClearCofactor multiplies p by the curve's cofactor (8), annihilating
// any eight-torsion component added by Mask and projecting p into the
// prime-order subgroup.
func ClearCofactor(p *edwards25519.Point) *edwards25519.Point {
	return new(edwards25519.Point).MultByCofactor(p)
}
