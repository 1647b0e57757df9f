//
// pipe.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.

package ot

import (
	"encoding/binary"
	"fmt"
	"io"
)

var bo = binary.BigEndian

var _ Transport = &Pipe{}

// Pipe implements Transport over a pair of in-memory io.Pipe halves
// with 4-byte big-endian length-prefixed framing.
type Pipe struct {
	r *io.PipeReader
	w *io.PipeWriter
}

// NewPipe creates a pair of connected loopback transports: whatever
// one side sends, the other receives, and vice versa.
func NewPipe() (*Pipe, *Pipe) {
	ar, aw := io.Pipe()
	br, bw := io.Pipe()

	return &Pipe{r: ar, w: bw}, &Pipe{r: br, w: aw}
}

// Send delivers data as one length-prefixed record.
func (p *Pipe) Send(data []byte) error {
	var hdr [4]byte
	bo.PutUint32(hdr[:], uint32(len(data)))
	if _, err := p.w.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(data) > 0 {
		if _, err := p.w.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return nil
}

// Receive reads the next length-prefixed record sent by the peer.
func (p *Pipe) Receive() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(p.r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	n := bo.Uint32(hdr[:])
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(p.r, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return buf, nil
}

// Flush is a no-op: Pipe writes directly to the underlying io.Pipe,
// which has no internal buffering to push out.
func (p *Pipe) Flush() error {
	return nil
}

// Close closes the writer half, unblocking any pending Receive on the
// peer with io.EOF.
func (p *Pipe) Close() error {
	return p.w.Close()
}
