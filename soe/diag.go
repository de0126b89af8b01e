// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

// Diag stores only the diagonal. Off-diagonal contributions are dropped without
// complaint, as in lumped systems
type Diag struct {
	p    *Pattern
	data []float64
}

func init() {
	register("diag", CodeDiag, func() Layout { return new(Diag) })
}

func (o *Diag) Name() string      { return "diag" }
func (o *Diag) Code() int         { return CodeDiag }
func (o *Diag) Pattern() *Pattern { return o.p }
func (o *Diag) Values() []float64 { return o.data }
func (o *Diag) Zero()             { zero(o.data) }

func (o *Diag) Alloc(p *Pattern) {
	o.p = p
	o.data = make([]float64, len(p.Rows))
}

// Add adds v to A[i][i]; off-diagonal terms are ignored
func (o *Diag) Add(i, j int, v float64) (ok bool) {
	r := o.p.Row(i)
	if r < 0 || j < 0 || j >= o.p.Size {
		return false
	}
	if i == j {
		o.data[r] += v
	}
	return true
}

func (o *Diag) Get(i, j int) float64 {
	if r := o.p.Row(i); r >= 0 && i == j {
		return o.data[r]
	}
	return 0
}

func (o *Diag) Each(fn func(i, j int, v float64)) {
	for r, i := range o.p.Rows {
		fn(i, i, o.data[r])
	}
}
