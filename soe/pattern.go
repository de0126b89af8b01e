// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/xcfem/xc-sub024/graph"
)

// Pattern describes which entries of a system of equations are stored by one process
type Pattern struct {
	Size  int     // number of equations of the whole system
	Kl    int     // lower half bandwidth
	Ku    int     // upper half bandwidth
	Rows  []int   // global ids of the stored rows; ascending
	Index []int   // [Size] global id => position in Rows; -1 if not stored
	Adj   [][]int // [len(Rows)] sorted global column ids of each stored row, diagonal included
}

// NewPattern builds a pattern from a graph of equations. rows == nil means all rows.
// The columns of row i are i plus the neighbours of vertex i in g (g may be nil)
func NewPattern(size, kl, ku int, rows []int, g *graph.Graph) (o *Pattern, err error) {
	if rows == nil {
		rows = utl.IntRange(size)
	}
	adj := make([][]int, len(rows))
	for r, i := range rows {
		adj[r] = []int{i}
		if g != nil {
			if v := g.Vertex(i); v != nil {
				adj[r] = append(adj[r], v.Adj...)
			}
		}
	}
	return NewPatternAdj(size, kl, ku, rows, adj)
}

// NewPatternAdj builds a pattern from explicit column lists. Diagonals are added
// when missing. rows == nil means all rows
func NewPatternAdj(size, kl, ku int, rows []int, adj [][]int) (o *Pattern, err error) {
	if size < 0 || kl < 0 || ku < 0 {
		return nil, chk.Err("soe: invalid pattern size=%d kl=%d ku=%d", size, kl, ku)
	}
	if rows == nil {
		rows = utl.IntRange(size)
	}
	if adj != nil && len(adj) != len(rows) {
		return nil, chk.Err("soe: pattern has %d rows but %d column lists", len(rows), len(adj))
	}
	o = &Pattern{Size: size, Kl: utl.Imin(kl, utl.Imax(size-1, 0)), Ku: utl.Imin(ku, utl.Imax(size-1, 0))}
	o.Rows = make([]int, len(rows))
	copy(o.Rows, rows)
	o.Index = utl.IntVals(size, -1)
	o.Adj = make([][]int, len(rows))
	for r, i := range o.Rows {
		if i < 0 || i >= size {
			return nil, chk.Err("soe: pattern row %d outside [0,%d)", i, size)
		}
		if r > 0 && i <= o.Rows[r-1] {
			return nil, chk.Err("soe: pattern rows must be ascending and unique; %d follows %d", i, o.Rows[r-1])
		}
		o.Index[i] = r
		cols := []int{i}
		if adj != nil {
			for _, j := range adj[r] {
				if j < 0 || j >= size {
					return nil, chk.Err("soe: row %d has column %d outside [0,%d)", i, j, size)
				}
				cols = append(cols, j)
			}
		}
		o.Adj[r] = unique(cols)
	}
	return
}

// Full tells whether every row of the system is stored
func (o *Pattern) Full() bool {
	return len(o.Rows) == o.Size
}

// NumRows returns the number of stored rows
func (o *Pattern) NumRows() int {
	return len(o.Rows)
}

// Nnz returns the number of entries of the sparse-row form
func (o *Pattern) Nnz() (nnz int) {
	for _, cols := range o.Adj {
		nnz += len(cols)
	}
	return
}

// Row returns the storage row of global id i or -1
func (o *Pattern) Row(i int) int {
	if i < 0 || i >= o.Size {
		return -1
	}
	return o.Index[i]
}

// Compressed returns the sparse-row form of the column lists
func (o *Pattern) Compressed() (rowptr, colidx []int) {
	rowptr = make([]int, len(o.Rows)+1)
	colidx = make([]int, 0, o.Nnz())
	for r, cols := range o.Adj {
		colidx = append(colidx, cols...)
		rowptr[r+1] = len(colidx)
	}
	return
}

// unique sorts s and removes repeated entries
func unique(s []int) []int {
	sort.Ints(s)
	k := 0
	for i, x := range s {
		if i == 0 || x != s[k-1] {
			s[k] = x
			k++
		}
	}
	return s[:k]
}
