//
// co.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//
// Chou-Orlandi OT - The Simplest Protocol for Oblivious Transfer.
//  - https://eprint.iacr.org/2015/267.pdf
//
// The curve arithmetic runs over Curve25519 in Edwards form via
// filippo.io/edwards25519: the protocol needs compressed 32-byte
// points and cofactor-8 masking of every wire point, which the
// library provides natively.

package ot

import (
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/markkurossi/otx/ot/curve"
)

// COSender implements the Chou-Orlandi 1-out-of-N base-OT sender. A
// single instance, once constructed, may run many independent
// transfers (each a fresh Send call); this amortizes the one
// Diffie-Hellman setup exchange across however many index sets an
// IKNP extension bootstrap needs.
type COSender struct {
	transport Transport
	digest    *Digest
	y         *edwards25519.Scalar
	t64       *edwards25519.Point
}

// NewCOSender runs the sender side of the setup exchange: draw y,
// send S = y*G masked by the eight-torsion point, then fold the
// cofactor-cleared S into the transcript digest and precompute
// T64 = 64*y^2*G.
func NewCOSender(transport Transport, rand io.Reader) (*COSender, error) {
	y, err := curve.RandomScalar(rand)
	if err != nil {
		return nil, err
	}
	s := new(edwards25519.Point).ScalarBaseMult(y)
	if err := sendPoint(transport, curve.Mask(s)); err != nil {
		return nil, err
	}
	s8 := curve.ClearCofactor(s)

	d := NewDigest()
	d.Input(s8.Bytes())

	t64 := curve.ClearCofactor(new(edwards25519.Point).ScalarMult(y, s8))

	return &COSender{
		transport: transport,
		digest:    d,
		y:         y,
		t64:       t64,
	}, nil
}

// ComputeKeys runs the sender half of one key-derivation round:
// receive R, and for every candidate index j derive
// a key such that exactly the key at the receiver's choice matches
// the receiver's own derivation.
func (s *COSender) ComputeKeys(n uint64) ([][]byte, error) {
	wire, err := s.transport.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	rp, err := curve.Decompress(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	r := curve.ClearCofactor(rp)

	d := s.digest.Clone()
	d.Input(r.Bytes())

	yr := new(edwards25519.Point).ScalarMult(s.y, r)

	keys := make([][]byte, n)
	for j := uint64(0); j < n; j++ {
		jt64 := new(edwards25519.Point).ScalarMult(curve.ScalarFromUint64(j), s.t64)
		p := new(edwards25519.Point).Subtract(yr, jt64)

		dj := d.Clone()
		dj.Input(p.Bytes())
		k := dj.Result()
		keys[j] = k[:]
	}
	return keys, nil
}

// Send encrypts each plaintext under its derived key with a fixed
// all-zero AEAD nonce (safe because every key comes from a fresh
// transcript) and sends the ciphertexts in index order.
func (s *COSender) Send(plaintexts [][]byte) error {
	keys, err := s.ComputeKeys(uint64(len(plaintexts)))
	if err != nil {
		return err
	}
	nonce := zeroNonce()
	for j, pt := range plaintexts {
		var key [DigestSize]byte
		copy(key[:], keys[j])
		aead, err := NewAEAD(key)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		ct := aead.Seal(nil, nonce, pt, nil)
		if err := s.transport.Send(ct); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return s.transport.Flush()
}

// COReceiver implements the Chou-Orlandi 1-out-of-N base-OT receiver.
type COReceiver struct {
	transport Transport
	digest    *Digest
	rand      io.Reader
	s8        *edwards25519.Point
}

// NewCOReceiver runs the receiver side of the setup exchange: receive
// S, reject it unless it decompresses, clear its cofactor, and fold
// the result into the transcript digest.
func NewCOReceiver(transport Transport, rand io.Reader) (*COReceiver, error) {
	wire, err := transport.Receive()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	sp, err := curve.Decompress(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	s8 := curve.ClearCofactor(sp)

	d := NewDigest()
	d.Input(s8.Bytes())

	return &COReceiver{
		transport: transport,
		digest:    d,
		rand:      rand,
		s8:        s8,
	}, nil
}

// ComputeKey runs the receiver half of one key-derivation round for
// choice c: draw x, send R = c*S8 + 8*x*G masked by the eight-torsion
// point, and derive the key for position c.
func (r *COReceiver) ComputeKey(c uint64) ([]byte, error) {
	x, err := curve.RandomScalar(r.rand)
	if err != nil {
		return nil, err
	}
	cs8 := new(edwards25519.Point).ScalarMult(curve.ScalarFromUint64(c), r.s8)
	xg8 := curve.ClearCofactor(new(edwards25519.Point).ScalarBaseMult(x))
	rpoint := new(edwards25519.Point).Add(cs8, xg8)

	if err := sendPoint(r.transport, curve.Mask(rpoint)); err != nil {
		return nil, err
	}

	d := r.digest.Clone()
	r8 := curve.ClearCofactor(rpoint)
	d.Input(r8.Bytes())

	p := curve.ClearCofactor(new(edwards25519.Point).ScalarMult(x, r.s8))
	d.Input(p.Bytes())

	k := d.Result()
	return k[:], nil
}

// Receive runs a full transfer for choice c out of n: derive the key
// for c, receive all n ciphertexts, decrypt only the c-th, and abort
// with ErrCrypto on tag failure.
func (r *COReceiver) Receive(c, n uint64) ([]byte, error) {
	if c >= n {
		return nil, fmt.Errorf("%w: choice %d out of range [0,%d)", ErrProtocol, c, n)
	}
	key, err := r.ComputeKey(c)
	if err != nil {
		return nil, err
	}
	var key32 [DigestSize]byte
	copy(key32[:], key)
	aead, err := NewAEAD(key32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	nonce := zeroNonce()

	var result []byte
	for j := uint64(0); j < n; j++ {
		ct, err := r.transport.Receive()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		if j != c {
			continue
		}
		pt, err := aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
		}
		result = pt
	}
	return result, nil
}

// sendPoint sends a point's compressed wire encoding.
func sendPoint(t Transport, p *edwards25519.Point) error {
	if err := t.Send(p.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}
