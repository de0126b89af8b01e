// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// sparseSolver uses the pure-Go sparse LU of package sparse. Its vectors are 1-based
type sparseSolver struct {
	m   *sparse.Matrix
	n   int
	rhs []float64
	ok  bool
}

func init() {
	RegisterSolver("sparse", func() Solver { return new(sparseSolver) })
}

// Factor builds a fresh matrix on every call. The package reorders rows and
// columns in place while factorising, so a factorised matrix cannot take new
// values without translation; a new one also drops the previous fill-ins
func (o *sparseSolver) Factor(a Layout) (err error) {
	n, err := checkFull(a)
	if err != nil {
		return
	}
	o.Free()
	defer func() {
		if r := recover(); r != nil {
			o.Free()
			err = fmt.Errorf("sparse: %v: %w", r, ErrSingular)
		}
	}()
	o.m, err = sparse.Create(int64(n), &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	})
	if err != nil {
		o.m = nil
		return fmt.Errorf("sparse: cannot create %d×%d matrix: %v", n, n, err)
	}
	o.n = n
	if len(o.rhs) != n+1 {
		o.rhs = make([]float64, n+1)
	}
	a.Each(func(i, j int, v float64) {
		o.m.GetElement(int64(i+1), int64(j+1)).Real += v
	})
	if err = o.m.Factor(); err != nil {
		return fmt.Errorf("sparse: %v: %w", err, ErrSingular)
	}
	o.ok = true
	return
}

func (o *sparseSolver) Solve(x, b []float64) (err error) {
	if !o.ok {
		return fmt.Errorf("sparse: no factorisation: %w", ErrSingular)
	}
	copy(o.rhs[1:], b)
	sol, err := o.m.Solve(o.rhs)
	if err != nil {
		return fmt.Errorf("sparse: %v: %w", err, ErrSingular)
	}
	copy(x, sol[1:o.n+1])
	return
}

func (o *sparseSolver) Free() {
	if o.m != nil {
		o.m.Destroy()
		o.m = nil
	}
	o.n, o.ok = 0, false
}
