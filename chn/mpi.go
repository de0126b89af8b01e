// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build mpi

package chn

import (
	"fmt"

	"github.com/cpmech/gosl/mpi"
)

// Mpi implements Channel with point-to-point MPI messages to one peer rank.
// Each block goes out as a header {kind, count} followed by the payload
type Mpi struct {
	comm *mpi.Communicator
	peer int
	hdr  []int
}

// MpiStart initialises MPI
func MpiStart() { mpi.Start() }

// MpiStop finalises MPI
func MpiStop() { mpi.Stop() }

// MpiOn tells whether MPI has been started
func MpiOn() bool { return mpi.IsOn() }

// MpiRank returns the rank of this process in the world communicator
func MpiRank() int { return mpi.WorldRank() }

// MpiSize returns the number of processes in the world communicator
func MpiSize() int { return mpi.WorldSize() }

// NewMpi returns a channel to peer over the world communicator
func NewMpi(peer int) (o *Mpi, err error) {
	if !mpi.IsOn() {
		return nil, fmt.Errorf("mpi: not started: %w", ErrNoMpi)
	}
	return &Mpi{comm: mpi.NewCommunicator(nil), peer: peer, hdr: make([]int, 2)}, nil
}

// SendInts sends a block of integers
func (o *Mpi) SendInts(vals []int) (err error) {
	o.hdr[0], o.hdr[1] = int(KindInts), len(vals)
	o.comm.SendI(o.hdr, o.peer)
	if len(vals) > 0 {
		o.comm.SendI(vals, o.peer)
	}
	return
}

// SendDoubles sends a block of float64 values
func (o *Mpi) SendDoubles(vals []float64) (err error) {
	o.hdr[0], o.hdr[1] = int(KindDoubles), len(vals)
	o.comm.SendI(o.hdr, o.peer)
	if len(vals) > 0 {
		o.comm.Send(vals, o.peer)
	}
	return
}

// RecvInts receives exactly len(vals) integers
func (o *Mpi) RecvInts(vals []int) (err error) {
	if err = o.recvHeader(KindInts, len(vals)); err != nil {
		return
	}
	if len(vals) > 0 {
		o.comm.RecvI(vals, o.peer)
	}
	return
}

// RecvDoubles receives exactly len(vals) float64 values
func (o *Mpi) RecvDoubles(vals []float64) (err error) {
	if err = o.recvHeader(KindDoubles, len(vals)); err != nil {
		return
	}
	if len(vals) > 0 {
		o.comm.Recv(vals, o.peer)
	}
	return
}

// Close does nothing; MPI is finalised by MpiStop
func (o *Mpi) Close() (err error) {
	return
}

// recvHeader receives and checks the header. On a mismatch, the payload is drained
func (o *Mpi) recvHeader(kind byte, count int) (err error) {
	o.comm.RecvI(o.hdr, o.peer)
	k, n := byte(o.hdr[0]), o.hdr[1]
	if k == kind && n == count {
		return
	}
	if n > 0 {
		if k == KindInts {
			o.comm.RecvI(make([]int, n), o.peer)
		} else {
			o.comm.Recv(make([]float64, n), o.peer)
		}
	}
	if k != kind {
		return fmt.Errorf("mpi: expected %s block but got %s: %w", kindName(kind), kindName(k), ErrKindMismatch)
	}
	return fmt.Errorf("mpi: expected %d %s but peer sent %d: %w", count, kindName(kind), n, ErrSizeMismatch)
}
