//
// scalar.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package curve wraps filippo.io/edwards25519 with the small set of
// operations the Chou-Orlandi base OT needs: uniform scalar draws,
// a from-uint64 lift, and point arithmetic including cofactor-8
// clearing.
package curve

import (
	"encoding/binary"
	"io"

	"filippo.io/edwards25519"
)

// RandomScalar draws a scalar uniformly from the field by filling 64
// bytes from rand and reducing them modulo the group order.
func RandomScalar(rand io.Reader) (*edwards25519.Scalar, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rand, wide[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(wide[:])
}

// ScalarFromUint64 lifts a small non-negative integer into the
// scalar field.
func ScalarFromUint64(v uint64) *edwards25519.Scalar {
	var wide [64]byte
	binary.LittleEndian.PutUint64(wide[:8], v)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// wide encodes a value far below the group order; reduction
		// never fails.
		panic(err)
	}
	return s
}
