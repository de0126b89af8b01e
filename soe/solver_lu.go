// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// luSolver factorises with gonum's dense LU. Band layouts are handed over as BandDense
type luSolver struct {
	lu mat.LU
	n  int
}

func init() {
	RegisterSolver("lu", func() Solver { return new(luSolver) })
}

func (o *luSolver) Factor(a Layout) (err error) {
	if o.n, err = checkFull(a); err != nil {
		return
	}
	var m mat.Matrix
	if band, ok := a.(*Band); ok {
		m = band.Dense()
	} else {
		d := mat.NewDense(o.n, o.n, nil)
		a.Each(func(i, j int, v float64) {
			d.Set(i, j, d.At(i, j)+v)
		})
		m = d
	}
	o.lu.Factorize(m)
	if c := o.lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) || c > mat.ConditionTolerance {
		o.n = 0
		return fmt.Errorf("lu: condition number %g: %w", c, ErrSingular)
	}
	return
}

func (o *luSolver) Solve(x, b []float64) (err error) {
	if o.n == 0 {
		return fmt.Errorf("lu: no factorisation: %w", ErrSingular)
	}
	xv := mat.NewVecDense(o.n, x)
	if err = o.lu.SolveVecTo(xv, false, mat.NewVecDense(o.n, b)); err != nil {
		return fmt.Errorf("lu: %v: %w", err, ErrSingular)
	}
	return
}

func (o *luSolver) Free() {
	o.lu.Reset()
	o.n = 0
}
