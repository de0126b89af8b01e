// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import "sort"

// SparseRow stores the entries of the pattern's column lists in compressed-row form
type SparseRow struct {
	p      *Pattern
	rowptr []int
	colidx []int
	data   []float64
}

func init() {
	register("sparse", CodeSparse, func() Layout { return new(SparseRow) })
}

func (o *SparseRow) Name() string      { return "sparse" }
func (o *SparseRow) Code() int         { return CodeSparse }
func (o *SparseRow) Pattern() *Pattern { return o.p }
func (o *SparseRow) Values() []float64 { return o.data }
func (o *SparseRow) Zero()             { zero(o.data) }

func (o *SparseRow) Alloc(p *Pattern) {
	o.p = p
	o.rowptr, o.colidx = p.Compressed()
	o.data = make([]float64, len(o.colidx))
}

func (o *SparseRow) Add(i, j int, v float64) (ok bool) {
	k := o.pos(i, j)
	if k < 0 {
		return false
	}
	o.data[k] += v
	return true
}

func (o *SparseRow) Get(i, j int) float64 {
	if k := o.pos(i, j); k >= 0 {
		return o.data[k]
	}
	return 0
}

func (o *SparseRow) Each(fn func(i, j int, v float64)) {
	for r, i := range o.p.Rows {
		for k := o.rowptr[r]; k < o.rowptr[r+1]; k++ {
			fn(i, o.colidx[k], o.data[k])
		}
	}
}

// pos returns the position of (i,j) in data or -1
func (o *SparseRow) pos(i, j int) int {
	r := o.p.Row(i)
	if r < 0 {
		return -1
	}
	cols := o.colidx[o.rowptr[r]:o.rowptr[r+1]]
	k := sort.SearchInts(cols, j)
	if k == len(cols) || cols[k] != j {
		return -1
	}
	return o.rowptr[r] + k
}
