// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Solver factorises and solves systems whose layout stores every row
type Solver interface {
	Factor(a Layout) (err error)      // factorises the coefficients in a
	Solve(x, b []float64) (err error) // solves A⋅x = b with the last factorisation
	Free()                            // releases resources
}

// solvers holds all available solvers
var solvers = make(map[string]func() Solver)

// RegisterSolver adds a solver to the registry
func RegisterSolver(name string, alloc func() Solver) {
	if _, ok := solvers[name]; ok {
		chk.Panic("soe: solver %q is already registered", name)
	}
	solvers[name] = alloc
}

// NewSolver returns a new solver
func NewSolver(name string) (s Solver, err error) {
	alloc, ok := solvers[name]
	if !ok {
		return nil, chk.Err("soe: cannot find solver named %q; available: %v", name, SolverNames())
	}
	return alloc(), nil
}

// SolverNames returns the registered solver names
func SolverNames() (names []string) {
	for name := range solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// checkFull returns an error if a does not store the whole system
func checkFull(a Layout) (n int, err error) {
	p := a.Pattern()
	if p == nil || !p.Full() {
		return 0, chk.Err("soe: solvers need every row of the system")
	}
	if p.Size == 0 {
		return 0, chk.Err("soe: cannot factorise an empty system")
	}
	return p.Size, nil
}
