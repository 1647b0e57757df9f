//
// co_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"filippo.io/edwards25519"

	"github.com/markkurossi/otx/ot/curve"
)

// runCO drives one full Chou-Orlandi base-OT transfer over a fresh
// in-memory Pipe and returns the receiver's recovered plaintext.
func runCO(t *testing.T, plaintexts [][]byte, c uint64) []byte {
	t.Helper()

	senderConn, receiverConn := NewPipe()
	errCh := make(chan error, 2)
	var result []byte

	go func() {
		sender, err := NewCOSender(senderConn, rand.Reader)
		if err != nil {
			errCh <- fmt.Errorf("NewCOSender: %w", err)
			return
		}
		errCh <- sender.Send(plaintexts)
	}()

	go func() {
		receiver, err := NewCOReceiver(receiverConn, rand.Reader)
		if err != nil {
			errCh <- fmt.Errorf("NewCOReceiver: %w", err)
			return
		}
		r, err := receiver.Receive(c, uint64(len(plaintexts)))
		if err != nil {
			errCh <- fmt.Errorf("Receive: %w", err)
			return
		}
		result = r
		errCh <- nil
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("base OT failed: %v", err)
		}
	}
	return result
}

// The smallest interesting transfer: two messages, choice 1.
func TestCOMinimal(t *testing.T) {
	plaintexts := [][]byte{[]byte("hello!"), []byte("world!")}
	result := runCO(t, plaintexts, 1)
	if !bytes.Equal(result, plaintexts[1]) {
		t.Fatalf("result = %q, want %q", result, plaintexts[1])
	}
}

// A wider transfer with every index exercised as the choice.
func TestCOLarger(t *testing.T) {
	const n = 10
	plaintexts := make([][]byte, n)
	for i := range plaintexts {
		buf := make([]byte, 64)
		if _, err := rand.Read(buf); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		plaintexts[i] = buf
	}
	for c := uint64(0); c < n; c++ {
		result := runCO(t, plaintexts, c)
		if !bytes.Equal(result, plaintexts[c]) {
			t.Fatalf("c=%d: result = %x, want %x", c, result, plaintexts[c])
		}
	}
}

// The sender's key vector has K[c] equal to the receiver's
// derived key, and the keys at other positions differ.
func TestCOKeyAgreement(t *testing.T) {
	const n = 8
	const c = uint64(3)

	senderConn, receiverConn := NewPipe()
	errCh := make(chan error, 2)
	var senderKeys [][]byte
	var receiverKey []byte

	go func() {
		sender, err := NewCOSender(senderConn, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		keys, err := sender.ComputeKeys(n)
		if err != nil {
			errCh <- err
			return
		}
		senderKeys = keys
		errCh <- nil
	}()

	go func() {
		receiver, err := NewCOReceiver(receiverConn, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		key, err := receiver.ComputeKey(c)
		if err != nil {
			errCh <- err
			return
		}
		receiverKey = key
		errCh <- nil
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("key derivation failed: %v", err)
		}
	}

	if !bytes.Equal(senderKeys[c], receiverKey) {
		t.Fatalf("K[%d] = %x, want %x", c, senderKeys[c], receiverKey)
	}
	for j, k := range senderKeys {
		if uint64(j) == c {
			continue
		}
		if bytes.Equal(k, receiverKey) {
			t.Fatalf("K[%d] unexpectedly equals the receiver's key at c=%d", j, c)
		}
	}
}

// Tamper detection: flipping a byte of the first
// ciphertext must surface as a crypto error when the receiver chose
// index 0.
func TestCOTamperDetected(t *testing.T) {
	plaintexts := [][]byte{[]byte("hello!"), []byte("world!")}

	senderConn, receiverConn := NewPipe()
	tamperConn := &tamperingTransport{Transport: receiverConn}

	errCh := make(chan error, 2)
	go func() {
		sender, err := NewCOSender(senderConn, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		errCh <- sender.Send(plaintexts)
	}()

	var recvErr error
	go func() {
		// The receiver stops reading once the tag check fails, so close
		// the sender's writer to release its pending second ciphertext.
		defer senderConn.Close()
		receiver, err := NewCOReceiver(tamperConn, rand.Reader)
		if err != nil {
			recvErr = err
			errCh <- nil
			return
		}
		_, recvErr = receiver.Receive(0, uint64(len(plaintexts)))
		errCh <- nil
	}()

	for i := 0; i < 2; i++ {
		<-errCh
	}

	if !errors.Is(recvErr, ErrCrypto) {
		t.Fatalf("Receive error = %v, want a crypto error on a tampered ciphertext", recvErr)
	}
}

// tamperingTransport flips the first byte of the first record it
// relays after the point exchange, so the probe below exercises the
// Receive side's AEAD tag check.
type tamperingTransport struct {
	Transport
	receiveCount int
}

func (t *tamperingTransport) Receive() ([]byte, error) {
	data, err := t.Transport.Receive()
	if err != nil {
		return nil, err
	}
	t.receiveCount++
	// The first record the receiver gets is the masked point S; the
	// second is the first base-OT ciphertext.
	if t.receiveCount == 2 && len(data) > 0 {
		tampered := make([]byte, len(data))
		copy(tampered, data)
		tampered[0] ^= 0xFF
		return tampered, nil
	}
	return data, nil
}

// A sender that sends a
// small-order point as S instead of a real Diffie-Hellman share must
// not be able to use it to influence which key the receiver derives.
// Cofactor-clearing the received point projects any order-8
// component away before it is used in ComputeKey, regardless of the
// receiver's choice.
func TestMaliciousTorsionSIsNeutralized(t *testing.T) {
	for _, c := range []uint64{0, 5} {
		senderConn, receiverConn := NewPipe()
		errCh := make(chan error, 2)

		go func() {
			// A well-behaved sender never does this; this simulates an
			// attacker substituting a known order-8 point for S.
			if err := senderConn.Send(curve.EightTorsion().Bytes()); err != nil {
				errCh <- err
				return
			}
			// Consume the receiver's R so its send can complete.
			_, err := senderConn.Receive()
			errCh <- err
		}()

		var key []byte
		go func() {
			receiver, err := NewCOReceiver(receiverConn, rand.Reader)
			if err != nil {
				errCh <- err
				return
			}
			k, err := receiver.ComputeKey(c)
			if err != nil {
				errCh <- err
				return
			}
			key = k
			errCh <- nil
		}()

		for i := 0; i < 2; i++ {
			if err := <-errCh; err != nil {
				t.Fatalf("c=%d: %v", c, err)
			}
		}
		if len(key) != DigestSize {
			t.Fatalf("c=%d: derived key has length %d, want %d", c, len(key), DigestSize)
		}
	}
	// The assertion that matters is structural: ComputeKey never
	// inspects c before clearing S's cofactor, so a torsion S cannot
	// make key derivation branch on, or fail differently for, the
	// receiver's choice. Both calls above complete identically.
}

// observingTransport records every record it relays so a test can
// inspect what actually crossed the wire.
type observingTransport struct {
	Transport
	received [][]byte
}

func (o *observingTransport) Receive() ([]byte, error) {
	data, err := o.Transport.Receive()
	if err != nil {
		return nil, err
	}
	o.received = append(o.received, data)
	return data, nil
}

// The receiver's wire point carries the eight-torsion
// mask, so an observer never sees a torsion-free R even when c = 0;
// only after cofactor multiplication does the point land in the
// prime-order subgroup. A receiver that skips the mask leaks c = 0
// as a torsion-free wire point, which this observer detects.
func TestWirePointMasking(t *testing.T) {
	senderConn, receiverConn := NewPipe()
	observer := &observingTransport{Transport: senderConn}

	errCh := make(chan error, 2)
	go func() {
		sender, err := NewCOSender(observer, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		_, err = sender.ComputeKeys(2)
		errCh <- err
	}()
	go func() {
		receiver, err := NewCOReceiver(receiverConn, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		_, err = receiver.ComputeKey(0)
		errCh <- err
	}()
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("key derivation failed: %v", err)
		}
	}

	if len(observer.received) != 1 {
		t.Fatalf("observed %d records, want 1", len(observer.received))
	}
	rp, err := curve.Decompress(observer.received[0])
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if curve.IsTorsionFree(rp) {
		t.Fatalf("wire point R is torsion-free: the eight-torsion mask is missing")
	}
	if !curve.IsTorsionFree(curve.ClearCofactor(rp)) {
		t.Fatalf("cofactor-cleared R is not in the prime-order subgroup")
	}

	// The broken variant the mask exists to prevent: with c = 0 and no
	// mask, R = 8*x*G is torsion-free and the observer can tell.
	x, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	unmasked := curve.ClearCofactor(new(edwards25519.Point).ScalarBaseMult(x))
	if !curve.IsTorsionFree(unmasked) {
		t.Fatalf("unmasked c=0 point should be torsion-free")
	}
}
