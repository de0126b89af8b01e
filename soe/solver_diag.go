// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import "fmt"

// diagSolver inverts the diagonal; other entries are ignored
type diagSolver struct {
	d []float64
}

func init() {
	RegisterSolver("diag", func() Solver { return new(diagSolver) })
}

func (o *diagSolver) Factor(a Layout) (err error) {
	n, err := checkFull(a)
	if err != nil {
		return
	}
	o.d = make([]float64, n)
	for i := range o.d {
		o.d[i] = a.Get(i, i)
		if o.d[i] == 0 {
			o.d = nil
			return fmt.Errorf("diag: zero pivot at equation %d: %w", i, ErrSingular)
		}
	}
	return
}

func (o *diagSolver) Solve(x, b []float64) (err error) {
	if o.d == nil {
		return fmt.Errorf("diag: no factorisation: %w", ErrSingular)
	}
	for i, d := range o.d {
		x[i] = b[i] / d
	}
	return
}

func (o *diagSolver) Free() {
	o.d = nil
}
