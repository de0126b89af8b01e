// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/xcfem/xc-sub024/ele"
)

// Spring connects one node to the ground
type Spring struct {
	Cid  int         // element id
	Ks   float64     // stiffness
	K    [][]float64 // [1][1] element K matrix
	Umap []int       // assembly map
}

// PointLoad applies a force P⋅f(t) at one node
type PointLoad struct {
	Cid  int     // element id
	P    float64 // reference value
	Fcn  dbf.T   // multiplier; nil means 1
	Umap []int   // assembly map
}

// register elements
func init() {
	ele.SetAllocator("spring", func(id int, x []float64, prms dbf.Params) (ele.Element, error) {
		if len(x) != 1 {
			return nil, chk.Err("spring needs 1 node; %d given", len(x))
		}
		ks, err := ele.GetPositive(prms, "ks")
		if err != nil {
			return nil, err
		}
		return &Spring{Cid: id, Ks: ks, K: [][]float64{{ks}}}, nil
	})
	ele.SetAllocator("pload", func(id int, x []float64, prms dbf.Params) (ele.Element, error) {
		if len(x) != 1 {
			return nil, chk.Err("point load needs 1 node; %d given", len(x))
		}
		P, err := ele.GetPrm(prms, "P")
		if err != nil {
			return nil, err
		}
		return &PointLoad{Cid: id, P: P}, nil
	})
}

// Spring ///////////////////////////////////////////////////////////////////////////////////////////

// Id returns the element Id
func (o *Spring) Id() int { return o.Cid }

// SetEqs set equations
func (o *Spring) SetEqs(eqs []int) (err error) {
	if len(eqs) != 1 {
		return chk.Err("spring %d needs 1 equation; %d given", o.Cid, len(eqs))
	}
	o.Umap = []int{eqs[0]}
	return
}

// Eqs returns the equations of this element
func (o *Spring) Eqs() []int { return o.Umap }

// SetEleConds set element conditions
func (o *Spring) SetEleConds(key string, f dbf.T) (err error) {
	return chk.Err("spring cannot handle condition %q", key)
}

// AddToRhs does nothing
func (o *Spring) AddToRhs(a ele.Assembler, t float64) (err error) {
	return
}

// AddToKb adds element K to A
func (o *Spring) AddToKb(a ele.Assembler) (err error) {
	return a.AddA(o.K, o.Umap, 1)
}

// Force returns the support reaction
func (o *Spring) Force(u []float64) float64 {
	return -o.Ks * u[0]
}

// PointLoad ////////////////////////////////////////////////////////////////////////////////////////

// Id returns the element Id
func (o *PointLoad) Id() int { return o.Cid }

// SetEqs set equations
func (o *PointLoad) SetEqs(eqs []int) (err error) {
	if len(eqs) != 1 {
		return chk.Err("point load %d needs 1 equation; %d given", o.Cid, len(eqs))
	}
	o.Umap = []int{eqs[0]}
	return
}

// Eqs returns the equations of this element
func (o *PointLoad) Eqs() []int { return o.Umap }

// SetEleConds sets the load multiplier with key "fx"
func (o *PointLoad) SetEleConds(key string, f dbf.T) (err error) {
	if key != "fx" {
		return chk.Err("point load cannot handle condition %q", key)
	}
	o.Fcn = f
	return
}

// AddToRhs adds P⋅f(t) to B
func (o *PointLoad) AddToRhs(a ele.Assembler, t float64) (err error) {
	return a.AddB([]float64{o.Value(t)}, o.Umap, 1)
}

// AddToKb does nothing
func (o *PointLoad) AddToKb(a ele.Assembler) (err error) {
	return
}

// Value returns the force at t
func (o *PointLoad) Value(t float64) float64 {
	if o.Fcn == nil {
		return o.P
	}
	return o.P * o.Fcn.F(t, nil)
}
