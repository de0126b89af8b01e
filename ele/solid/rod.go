// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements structural elements
package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/xcfem/xc-sub024/ele"
)

// Rod represents a structural rod element (for axial loads only) with 2 nodes only and
// simply implemented with constant stiffness matrix; i.e. no numerical integration is needed
type Rod struct {

	// basic data
	Cid int       // element id
	X   []float64 // [2] coordinates of nodes along the rod axis

	// parameters and properties
	E float64 // Young's modulus
	A float64 // cross-sectional area
	L float64 // length of rod

	// matrices
	K [][]float64 // [2][2] element K matrix

	// problem variables
	Umap []int // assembly map (location array/element equations)
}

// register element
func init() {
	ele.SetAllocator("rod", func(id int, x []float64, prms dbf.Params) (ele.Element, error) {

		// check
		if len(x) != 2 {
			return nil, chk.Err("rod needs 2 nodes; %d given", len(x))
		}

		// basic data
		var o Rod
		o.Cid = id
		o.X = x

		// parameters
		var err error
		if o.E, err = ele.GetPositive(prms, "E"); err != nil {
			return nil, err
		}
		if o.A, err = ele.GetPositive(prms, "A"); err != nil {
			return nil, err
		}

		// geometry
		o.L = math.Abs(x[1] - x[0])
		if o.L < 1e-15 {
			return nil, chk.Err("rod %d has zero length", id)
		}

		// K matrix
		α := o.E * o.A / o.L
		o.K = [][]float64{
			{+α, -α},
			{-α, +α},
		}
		return &o, nil
	})
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the element Id
func (o *Rod) Id() int { return o.Cid }

// SetEqs set equations
func (o *Rod) SetEqs(eqs []int) (err error) {
	if len(eqs) != 2 {
		return chk.Err("rod %d needs 2 equations; %d given", o.Cid, len(eqs))
	}
	o.Umap = []int{eqs[0], eqs[1]}
	return
}

// Eqs returns the equations of this element
func (o *Rod) Eqs() []int { return o.Umap }

// SetEleConds set element conditions
func (o *Rod) SetEleConds(key string, f dbf.T) (err error) {
	return chk.Err("rod cannot handle condition %q", key)
}

// AddToRhs adds external forces to B. A rod carries no distributed load
func (o *Rod) AddToRhs(a ele.Assembler, t float64) (err error) {
	return
}

// AddToKb adds element K to A
func (o *Rod) AddToKb(a ele.Assembler) (err error) {
	return a.AddA(o.K, o.Umap, 1)
}

// Force returns the axial force; positive means tension
func (o *Rod) Force(u []float64) float64 {
	return o.E * o.A * (u[1] - u[0]) / o.L
}
