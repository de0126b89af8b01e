// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !mpi

package chn

// Mpi is unavailable in this build
type Mpi struct{}

func MpiStart()    {}
func MpiStop()     {}
func MpiOn() bool  { return false }
func MpiRank() int { return 0 }
func MpiSize() int { return 1 }

// NewMpi always fails without the mpi build tag
func NewMpi(peer int) (o *Mpi, err error) {
	return nil, ErrNoMpi
}

func (o *Mpi) SendInts(vals []int) (err error)        { return ErrNoMpi }
func (o *Mpi) RecvInts(vals []int) (err error)        { return ErrNoMpi }
func (o *Mpi) SendDoubles(vals []float64) (err error) { return ErrNoMpi }
func (o *Mpi) RecvDoubles(vals []float64) (err error) { return ErrNoMpi }
func (o *Mpi) Close() (err error)                     { return nil }
