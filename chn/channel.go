// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package chn implements point-to-point channels between two processes
package chn

import (
	"errors"
	"io"
	"net"
)

// Channel is a duplex, ordered and reliable link between exactly two processes.
//
//	Every send must be matched by exactly one receive on the peer, issued in the same
//	relative order. Receivers pre-size their buffers: a message whose length differs
//	from len(vals) is a size mismatch and nothing is truncated. All calls block.
type Channel interface {
	SendInts(vals []int) (err error)        // sends a block of integers
	RecvInts(vals []int) (err error)        // receives exactly len(vals) integers
	SendDoubles(vals []float64) (err error) // sends a block of float64
	RecvDoubles(vals []float64) (err error) // receives exactly len(vals) float64
	Close() (err error)                     // releases the link
}

// Acceptor accepts channels from peers connecting to a listening endpoint
type Acceptor interface {
	Accept() (ch Channel, err error)
	Addr() string
	Close() error
}

// block kinds on the wire
const (
	KindInts    byte = 1
	KindDoubles byte = 2
)

var (
	// ErrSizeMismatch is returned when a received block does not fit the receiver's buffer
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrKindMismatch is returned when integers arrive where doubles are expected or vice versa
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrNoMpi is returned by MPI endpoints when the binary was built without MPI support
	ErrNoMpi = errors.New("MPI is not available; rebuild with -tags mpi")
)

// IsClosed tells whether err means that the peer closed the link
func IsClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}

// kindName returns the name of a block kind
func kindName(kind byte) string {
	switch kind {
	case KindInts:
		return "ints"
	case KindDoubles:
		return "doubles"
	}
	return "unknown"
}
