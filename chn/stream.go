// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chn

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// Stream implements Channel on top of an ordered byte stream such as a TCP connection
// or an in-process pipe
type Stream struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader
	w   *bufio.Writer
	hdr [headerLen]byte
}

// NewStream returns a new Stream using rwc
func NewStream(rwc io.ReadWriteCloser) *Stream {
	return &Stream{
		rwc: rwc,
		r:   bufio.NewReader(rwc),
		w:   bufio.NewWriter(rwc),
	}
}

// Pipe returns two connected in-process endpoints
//
//	NOTE: the pipe is unbuffered; a send completes only when the peer reads it
func Pipe() (a, b *Stream) {
	c1, c2 := net.Pipe()
	return NewStream(c1), NewStream(c2)
}

// SendInts sends a block of integers
func (o *Stream) SendInts(vals []int) (err error) {
	return o.write(encodeInts(vals))
}

// SendDoubles sends a block of float64 values
func (o *Stream) SendDoubles(vals []float64) (err error) {
	return o.write(encodeDoubles(vals))
}

// RecvInts receives exactly len(vals) integers
func (o *Stream) RecvInts(vals []int) (err error) {
	payload, err := o.read(KindInts, len(vals))
	if err != nil {
		return
	}
	decodeInts(payload, vals)
	return
}

// RecvDoubles receives exactly len(vals) float64 values
func (o *Stream) RecvDoubles(vals []float64) (err error) {
	payload, err := o.read(KindDoubles, len(vals))
	if err != nil {
		return
	}
	decodeDoubles(payload, vals)
	return
}

// Close closes the underlying stream
func (o *Stream) Close() (err error) {
	return o.rwc.Close()
}

// write sends one frame and flushes it
func (o *Stream) write(frame []byte) (err error) {
	if _, err = o.w.Write(frame); err != nil {
		return fmt.Errorf("stream: send failed: %w", err)
	}
	if err = o.w.Flush(); err != nil {
		return fmt.Errorf("stream: send failed: %w", err)
	}
	return
}

// read receives one frame of the given kind and length. On a mismatch, the payload
// is consumed so that the stream stays aligned with the peer
func (o *Stream) read(kind byte, count int) (payload []byte, err error) {
	if _, err = io.ReadFull(o.r, o.hdr[:]); err != nil {
		return nil, fmt.Errorf("stream: receive failed: %w", err)
	}
	if err = checkHeader(o.hdr[:], kind, count); err != nil {
		n := int64(binary.LittleEndian.Uint32(o.hdr[1:]))
		if _, e := io.CopyN(io.Discard, o.r, 8*n); e != nil {
			return nil, fmt.Errorf("stream: receive failed: %w", e)
		}
		return nil, fmt.Errorf("stream: %w", err)
	}
	payload = make([]byte, 8*count)
	if _, err = io.ReadFull(o.r, payload); err != nil {
		return nil, fmt.Errorf("stream: receive failed: %w", err)
	}
	return
}
