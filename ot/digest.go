//
// digest.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"
)

// DigestSize is the fixed output length, in bytes, of the digest
// used as a symmetric cipher key.
const DigestSize = 32

// aeadNonceSize is the length of the all-zero nonce every AEAD
// operation in this package uses. The fixed nonce is safe only
// because every key is derived from a fresh transcript.
const aeadNonceSize = 12

// Digest wraps a fixed-output SHA3-256 hash with the
// clone-mid-stream capability the base-OT transcript needs:
// one pre-seeded instance is branched once per candidate index.
type Digest struct {
	h     hash.Hash
	input []byte
}

// NewDigest creates an empty digest.
func NewDigest() *Digest {
	return &Digest{h: sha3.New256()}
}

// Input feeds more bytes into the running transcript.
func (d *Digest) Input(p []byte) {
	d.h.Write(p)
	d.input = append(d.input, p...)
}

// Result returns the digest of everything fed so far. It does not
// consume the digest; further Input/Clone calls remain valid.
func (d *Digest) Result() [DigestSize]byte {
	var out [DigestSize]byte
	copy(out[:], d.h.Sum(nil))
	return out
}

// Clone forks the transcript so the original and the clone can be
// extended independently, as required when deriving one key per
// candidate index from a shared prefix.
func (d *Digest) Clone() *Digest {
	cp := make([]byte, len(d.input))
	copy(cp, d.input)
	h := sha3.New256()
	h.Write(cp)
	return &Digest{h: h, input: cp}
}

// XOF wraps an extendable-output function (SHAKE256) used for the
// IKNP row and column hashes, where the caller picks the output
// length at result time.
type XOF struct {
	sh sha3.ShakeHash
}

// NewXOF creates an empty XOF.
func NewXOF() *XOF {
	return &XOF{sh: sha3.NewShake256()}
}

// Input feeds more bytes into the sponge.
func (x *XOF) Input(p []byte) {
	x.sh.Write(p)
}

// Result squeezes n bytes of output. Once Result has been called the
// XOF must not be fed further input.
func (x *XOF) Result(n int) []byte {
	out := make([]byte, n)
	x.sh.Read(out)
	return out
}

// Clone forks the sponge state before any output has been squeezed.
func (x *XOF) Clone() *XOF {
	return &XOF{sh: x.sh.Clone()}
}

// xofBits expands seed with the XOF and packs the result into a
// BitVector of exactly n bits.
func xofBits(seed []byte, n int) *BitVector {
	x := NewXOF()
	x.Input(seed)
	raw := x.Result((n + 7) / 8)
	v, err := BitVectorFromBytes(raw, n)
	if err != nil {
		// raw is sized to exactly match n by construction above.
		panic(err)
	}
	return v
}

// columnHash computes the per-column mask h := XOF(j || col) with
// output length outLen, j encoded as 8 big-endian bytes.
func columnHash(j uint64, col *BitVector, outLen int) []byte {
	x := NewXOF()
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], j)
	x.Input(idx[:])
	x.Input(col.Bytes())
	return x.Result(outLen)
}

// NewAEAD builds the symmetric cipher bound to a base-OT key: AES-256
// in GCM mode, keyed by the digest's 32-byte output.
func NewAEAD(key [DigestSize]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// zeroNonce returns the all-zero AEAD nonce shared by every call in
// this package.
func zeroNonce() []byte {
	return make([]byte, aeadNonceSize)
}

// RNG is a ChaCha20-keyed cryptographically secure byte source. Each
// construction draws its own fresh key and nonce from its seed source
// so no process-wide RNG state is ever shared across instances.
type RNG struct {
	c *chacha20.Cipher
}

// NewRNG seeds a fresh RNG from seed, a cryptographically secure
// source such as crypto/rand.Reader.
func NewRNG(seed io.Reader) (*RNG, error) {
	var key [chacha20.KeySize]byte
	var nonce [chacha20.NonceSize]byte
	if _, err := io.ReadFull(seed, key[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(seed, nonce[:]); err != nil {
		return nil, err
	}
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, err
	}
	return &RNG{c: c}, nil
}

// Read fills p with keystream bytes, implementing io.Reader so an RNG
// can be passed anywhere this package expects a randomness source.
func (r *RNG) Read(p []byte) (int, error) {
	zero := make([]byte, len(p))
	r.c.XORKeyStream(p, zero)
	return len(p), nil
}
