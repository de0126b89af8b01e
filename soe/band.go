// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import "gonum.org/v1/gonum/mat"

// Band stores the band [i-Kl, i+Ku] of each row.
//
//	Entry (i,j) of storage row r is data[r*(Kl+Ku+1) + j-i+Kl], which is the
//	row-major band form used by gonum's BandDense.
type Band struct {
	p    *Pattern
	w    int
	data []float64
}

func init() {
	register("band", CodeBand, func() Layout { return new(Band) })
}

func (o *Band) Name() string      { return "band" }
func (o *Band) Code() int         { return CodeBand }
func (o *Band) Pattern() *Pattern { return o.p }
func (o *Band) Values() []float64 { return o.data }
func (o *Band) Zero()             { zero(o.data) }

// Alloc allocates storage
func (o *Band) Alloc(p *Pattern) {
	o.p = p
	o.w = p.Kl + p.Ku + 1
	o.data = make([]float64, len(p.Rows)*o.w)
}

// Add adds v to A[i][j]
func (o *Band) Add(i, j int, v float64) (ok bool) {
	k := o.pos(i, j)
	if k < 0 {
		return false
	}
	o.data[k] += v
	return true
}

// Get returns A[i][j]
func (o *Band) Get(i, j int) float64 {
	if k := o.pos(i, j); k >= 0 {
		return o.data[k]
	}
	return 0
}

// Each visits every stored entry inside the matrix
func (o *Band) Each(fn func(i, j int, v float64)) {
	for r, i := range o.p.Rows {
		for k := 0; k < o.w; k++ {
			j := i - o.p.Kl + k
			if j < 0 || j >= o.p.Size {
				continue
			}
			fn(i, j, o.data[r*o.w+k])
		}
	}
}

// Dense returns a gonum view of the storage. Only valid when every row is stored
func (o *Band) Dense() *mat.BandDense {
	n := o.p.Size
	return mat.NewBandDense(n, n, o.p.Kl, o.p.Ku, o.data)
}

// pos returns the position of (i,j) in data or -1
func (o *Band) pos(i, j int) int {
	r := o.p.Row(i)
	if r < 0 || j < 0 || j >= o.p.Size {
		return -1
	}
	k := j - i + o.p.Kl
	if k < 0 || k >= o.w {
		return -1
	}
	return r*o.w + k
}
