// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements finite elements
package ele

import (
	"github.com/cpmech/gosl/fun/dbf"
)

// Assembler receives element contributions; e.g. soe.SOE or dsoe.LinSOE
type Assembler interface {
	AddA(m [][]float64, eqs []int, fact float64) (err error) // adds fact*m to the rows/columns eqs of A
	AddB(v []float64, eqs []int, fact float64) (err error)   // adds fact*v to the rows eqs of B
}

// Element defines what all elements must implement
type Element interface {

	// information and initialisation
	Id() int                      // returns the element Id
	SetEqs(eqs []int) (err error) // set equations; one per node
	Eqs() []int                   // equations of this element

	// conditions
	SetEleConds(key string, f dbf.T) (err error) // set element conditions

	// called for each step
	AddToRhs(a Assembler, t float64) (err error) // adds external forces at step t to B
	AddToKb(a Assembler) (err error)             // adds element K to A
}

// WithForce defines elements that can compute an internal force from nodal values
type WithForce interface {
	Force(u []float64) float64 // u holds the values at the element's equations
}
