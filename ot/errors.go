//
// errors.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import "errors"

// The four abstract error kinds the protocol engines can fail with.
// Every failure an engine reports wraps exactly one of these with
// fmt.Errorf's %w so callers can classify it with errors.Is while
// still seeing the underlying detail. The exception is a failed read
// from the caller's randomness source, which is returned unwrapped.
var (
	// ErrInvalidPoint marks a decompression failure or a wrong-length
	// point encoding received from a peer.
	ErrInvalidPoint = errors.New("ot: invalid point")

	// ErrTransport marks a send or receive failure on the underlying
	// Transport.
	ErrTransport = errors.New("ot: transport error")

	// ErrCrypto marks an AEAD tag mismatch or other primitive failure.
	ErrCrypto = errors.New("ot: crypto error")

	// ErrProtocol marks a length mismatch between paired values, an
	// index out of range, or any other violation of the message
	// format the protocol expects from a well-behaved peer.
	ErrProtocol = errors.New("ot: protocol error")
)
