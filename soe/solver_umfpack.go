// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build umfpack

package soe

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// umfpackSolver uses UMFPACK through gosl/la; available with -tags umfpack
type umfpackSolver struct {
	t la.Triplet
	s la.SparseSolver
}

func init() {
	RegisterSolver("umfpack", func() Solver { return new(umfpackSolver) })
}

func (o *umfpackSolver) Factor(a Layout) (err error) {
	n, err := checkFull(a)
	if err != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.Free()
			err = chk.Err("umfpack: %v", r)
		}
	}()
	o.Free()
	o.t.Init(n, n, a.Pattern().Nnz()+n*(a.Pattern().Kl+a.Pattern().Ku+1))
	a.Each(func(i, j int, v float64) {
		o.t.Put(i, j, v)
	})
	o.s = la.NewSparseSolver("umfpack")
	o.s.Init(&o.t, nil)
	o.s.Fact()
	return
}

func (o *umfpackSolver) Solve(x, b []float64) (err error) {
	if o.s == nil {
		return chk.Err("umfpack: no factorisation")
	}
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("umfpack: %v", r)
		}
	}()
	o.s.Solve(x, b, false)
	return
}

func (o *umfpackSolver) Free() {
	if o.s != nil {
		o.s.Free()
		o.s = nil
	}
}
