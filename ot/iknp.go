//
// iknp.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//
// IKNP 1-out-of-2 OT extension.
//  - https://www.iacr.org/archive/crypto2003/27290145/27290145.pdf
//
// Bootstraps a fixed batch of M base OTs (one pair per bit of the
// security parameter Kappa) into an unbounded number of cheap
// 1-out-of-2 OTs over arbitrary-length byte strings, using only XOF
// and XOR on bit matrices.

package ot

import (
	"fmt"
	"io"
)

const (
	// Kappa is the IKNP security parameter in bytes.
	Kappa = 16

	// M is the number of base OTs the extension bootstraps from,
	// i.e. the security parameter expressed in bits.
	M = Kappa * 8
)

// IKNPReceiver is the OT-extension receiver. It plays the base-OT
// sender role during setup: it draws M
// random seed pairs and hands each pair to the wrapped base-OT sender
// as a 1-out-of-2 transfer.
type IKNPReceiver struct {
	transport Transport
	seeds     [M][2][]byte
}

// NewIKNPReceiver runs the crosswise bootstrap: base is an already
// set-up base-OT sender over the same transport.
func NewIKNPReceiver(base BaseOTSender, transport Transport, rand io.Reader) (*IKNPReceiver, error) {
	r := &IKNPReceiver{transport: transport}
	for i := 0; i < M; i++ {
		k0 := make([]byte, Kappa)
		k1 := make([]byte, Kappa)
		if _, err := io.ReadFull(rand, k0); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand, k1); err != nil {
			return nil, err
		}
		if err := base.Send([][]byte{k0, k1}); err != nil {
			return nil, fmt.Errorf("iknp: base OT seed %d: %w", i, err)
		}
		r.seeds[i] = [2][]byte{k0, k1}
	}
	return r, nil
}

// Receive runs the transfer phase for choice bits r, recovering
// pair_j.first where r[j] is false and pair_j.second where r[j] is
// true, for every j.
func (rcv *IKNPReceiver) Receive(choices *BitVector) ([][]byte, error) {
	n := choices.Len()

	tRows := make([]*BitVector, M)
	for i := 0; i < M; i++ {
		tRow := xofBits(rcv.seeds[i][0], n)
		gRow := xofBits(rcv.seeds[i][1], n)
		tRows[i] = tRow

		u, err := tRow.Xor(gRow)
		if err != nil {
			return nil, err
		}
		u, err = u.Xor(choices)
		if err != nil {
			return nil, err
		}
		if err := rcv.transport.Send(u.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	results := make([][]byte, n)
	for j := 0; j < n; j++ {
		y0, err := rcv.transport.Receive()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		y1, err := rcv.transport.Receive()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		if len(y0) != len(y1) {
			return nil, fmt.Errorf("%w: y0/y1 length mismatch at column %d: %d != %d",
				ErrProtocol, j, len(y0), len(y1))
		}

		col := NewBitVector(M)
		for i := 0; i < M; i++ {
			col.SetBit(i, tRows[i].Bit(j))
		}
		h := columnHash(uint64(j), col, len(y0))

		y := y0
		if choices.Bit(j) {
			y = y1
		}
		out := make([]byte, len(y))
		for k := range out {
			out[k] = y[k] ^ h[k]
		}
		results[j] = out
	}
	return results, nil
}

// IKNPSender is the OT-extension sender. It plays the base-OT
// receiver role during setup: it draws M random
// choice bits and, for each, receives the corresponding seed via the
// wrapped base-OT receiver.
type IKNPSender struct {
	transport Transport
	choices   *BitVector
	seeds     [M][]byte
}

// NewIKNPSender runs the crosswise bootstrap: base is an already
// set-up base-OT receiver over the same transport.
func NewIKNPSender(base BaseOTReceiver, transport Transport, rand io.Reader) (*IKNPSender, error) {
	choices, err := RandomBitVector(M, rand)
	if err != nil {
		return nil, err
	}
	var seeds [M][]byte
	for i := 0; i < M; i++ {
		c := uint64(0)
		if choices.Bit(i) {
			c = 1
		}
		seed, err := base.Receive(c, 2)
		if err != nil {
			return nil, fmt.Errorf("iknp: base OT seed %d: %w", i, err)
		}
		seeds[i] = seed
	}
	return &IKNPSender{transport: transport, choices: choices, seeds: seeds}, nil
}

// Send runs the transfer phase for n pairs, masking pair_j's
// first value under a hash the receiver can only compute when
// r[j]=false, and its second value under one only computable when
// r[j]=true.
func (s *IKNPSender) Send(pairs [][2][]byte) error {
	n := len(pairs)

	qRows := make([]*BitVector, M)
	for i := 0; i < M; i++ {
		raw, err := s.transport.Receive()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		u, err := BitVectorFromBytes(raw, n)
		if err != nil {
			return err
		}
		g := xofBits(s.seeds[i], n)

		q := g
		if s.choices.Bit(i) {
			q, err = u.Xor(g)
			if err != nil {
				return err
			}
		}
		qRows[i] = q
	}

	for j := 0; j < n; j++ {
		x0, x1 := pairs[j][0], pairs[j][1]
		if len(x0) != len(x1) {
			return fmt.Errorf("%w: plaintext pair length mismatch at %d: %d != %d",
				ErrProtocol, j, len(x0), len(x1))
		}

		col := NewBitVector(M)
		for i := 0; i < M; i++ {
			col.SetBit(i, qRows[i].Bit(j))
		}
		h0 := columnHash(uint64(j), col, len(x0))

		colXorS, err := col.Xor(s.choices)
		if err != nil {
			return err
		}
		h1 := columnHash(uint64(j), colXorS, len(x1))

		y0 := make([]byte, len(x0))
		for k := range y0 {
			y0[k] = x0[k] ^ h0[k]
		}
		y1 := make([]byte, len(x1))
		for k := range y1 {
			y1[k] = x1[k] ^ h1[k]
		}

		if err := s.transport.Send(y0); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		if err := s.transport.Send(y1); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return nil
}
