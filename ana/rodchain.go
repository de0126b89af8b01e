// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"github.com/cpmech/gosl/chk"
)

// RodChain computes the displacements of a chain of rods along x, supported by a
// spring at x=0 and loaded by P at the free end
//
//	u(x) = P/ks + P⋅x/(E⋅A)
//	N    = P          (axial force in every rod)
//	R    = -P         (support reaction)
type RodChain struct {
	E  float64 // Young's modulus
	A  float64 // cross-sectional area
	L  float64 // length of each rod
	Ks float64 // stiffness of support spring
	P  float64 // tip load
}

// Init initialises this structure
func (o *RodChain) Init(E, A, L, ks, P float64) (err error) {
	if E <= 0 || A <= 0 || L <= 0 || ks <= 0 {
		return chk.Err("rod chain needs positive E, A, L and ks. E=%g A=%g L=%g ks=%g", E, A, L, ks)
	}
	o.E, o.A, o.L, o.Ks, o.P = E, A, L, ks, P
	return
}

// Disp returns the displacement at x
func (o RodChain) Disp(x float64) float64 {
	return o.P/o.Ks + o.P*x/(o.E*o.A)
}

// NodeDisp returns the displacement at node i; i.e. at x = i⋅L
func (o RodChain) NodeDisp(i int) float64 {
	return o.Disp(float64(i) * o.L)
}

// NodesDisp returns the displacements at the given nodes
func (o RodChain) NodesDisp(nodes []int) (u []float64) {
	u = make([]float64, len(nodes))
	for k, i := range nodes {
		u[k] = o.NodeDisp(i)
	}
	return
}

// Force returns the axial force in the rods
func (o RodChain) Force() float64 {
	return o.P
}

// Reaction returns the force of the support spring on the chain
func (o RodChain) Reaction() float64 {
	return -o.P
}

// Scaled returns a copy with load P⋅fac
func (o RodChain) Scaled(fac float64) RodChain {
	o.P *= fac
	return o
}
