//
// transport.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

// Transport is the duplex channel the protocol engines exchange
// wire blobs over. It exposes two record-oriented operations, Send
// and Receive, both treated as atomic and order-preserving, plus a
// Flush for implementations that buffer output.
// Network framing, retransmission, and transport-level encryption
// are all the concern of the concrete implementation, not of this
// package.
type Transport interface {
	// Send delivers one opaque blob to the peer.
	Send(data []byte) error

	// Receive returns the next blob sent by the peer, in the order it
	// was sent.
	Receive() ([]byte, error)

	// Flush pushes any buffered output to the peer. Implementations
	// backed by an unbuffered channel may make this a no-op.
	Flush() error
}
