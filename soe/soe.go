// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package soe implements the storage and solution of linear systems of equations A⋅X = B
package soe

import (
	"errors"
	"fmt"

	"github.com/cpmech/gosl/io"
)

var (
	// ErrOutOfRange is returned when some entries of a contribution cannot be stored
	ErrOutOfRange = errors.New("equation id out of range")

	// ErrShape is returned when a contribution disagrees with its list of equation ids
	ErrShape = errors.New("contribution shape mismatch")

	// ErrSingular is returned when the coefficient matrix cannot be factorised
	ErrSingular = errors.New("singular matrix")

	// ErrNoSolver is returned by Solve when no solver has been set
	ErrNoSolver = errors.New("no solver")
)

// SOE holds a system of equations A⋅X = B.
//
//	B and X are indexed by storage row (see Pattern.Rows). Factored is true only if
//	the solver holds a factorisation of the current A.
type SOE struct {
	Name     string    // name used in messages
	A        Layout    // coefficients
	B        []float64 // right-hand side
	X        []float64 // solution
	Factored bool      // A has not changed since the last successful factorisation
	solver   Solver
}

// New returns a new system with the given storage layout and solver. An empty
// solver name gives a system that can be assembled but not solved
func New(name, layout, solver string) (o *SOE, err error) {
	o = &SOE{Name: name}
	if o.A, err = NewLayout(layout); err != nil {
		return nil, err
	}
	if solver != "" {
		if o.solver, err = NewSolver(solver); err != nil {
			return nil, err
		}
	}
	return
}

// SetSolver replaces the solver
func (o *SOE) SetSolver(s Solver) {
	if o.solver != nil {
		o.solver.Free()
	}
	o.solver = s
	o.Factored = false
}

// SetSize allocates storage for pattern p; everything is zeroed
func (o *SOE) SetSize(p *Pattern) {
	o.A.Alloc(p)
	o.B = make([]float64, p.NumRows())
	o.X = make([]float64, p.NumRows())
	o.Factored = false
}

// Pattern returns the current pattern
func (o *SOE) Pattern() *Pattern {
	return o.A.Pattern()
}

// Size returns the number of equations of the whole system
func (o *SOE) Size() int {
	if p := o.A.Pattern(); p != nil {
		return p.Size
	}
	return 0
}

// AddA adds fact⋅m to the rows and columns eqs. Entries that cannot be stored are
// skipped and reported; all others are applied
func (o *SOE) AddA(m [][]float64, eqs []int, fact float64) (err error) {
	if fact == 0 {
		return
	}
	o.Factored = false
	nr := len(m)
	if nr > len(eqs) {
		nr = len(eqs)
	}
	var rejected []int
	for a := 0; a < nr; a++ {
		nc := len(m[a])
		if nc > len(eqs) {
			nc = len(eqs)
		}
		for b := 0; b < nc; b++ {
			if !o.A.Add(eqs[a], eqs[b], fact*m[a][b]) {
				rejected = append(rejected, eqs[a], eqs[b])
			}
		}
	}
	if nr != len(m) || nr != len(eqs) || (nr > 0 && len(m[0]) != len(eqs)) {
		io.PfRed("%s: AddA: matrix is %d×%d but %d equations are given\n", o.Name, len(m), width(m), len(eqs))
		return fmt.Errorf("%s: AddA: %d×%d matrix for %d equations: %w", o.Name, len(m), width(m), len(eqs), ErrShape)
	}
	if len(rejected) > 0 {
		io.PfRed("%s: AddA: skipped %d entries (i,j) = %v\n", o.Name, len(rejected)/2, rejected)
		return fmt.Errorf("%s: AddA: %d entries skipped: %w", o.Name, len(rejected)/2, ErrOutOfRange)
	}
	return
}

// AddB adds fact⋅v to the rows eqs
func (o *SOE) AddB(v []float64, eqs []int, fact float64) (err error) {
	if fact == 0 {
		return
	}
	return o.putB(v, eqs, fact, "AddB")
}

// SetB replaces B by fact⋅v where v is indexed by global id and has the size of
// the whole system. Rows not stored here are ignored
func (o *SOE) SetB(v []float64, fact float64) (err error) {
	if fact == 0 {
		return
	}
	p := o.A.Pattern()
	if len(v) != p.Size {
		io.PfRed("%s: SetB: vector has %d entries but system has %d\n", o.Name, len(v), p.Size)
		return fmt.Errorf("%s: SetB: %d entries for %d equations: %w", o.Name, len(v), p.Size, ErrShape)
	}
	for r, i := range p.Rows {
		o.B[r] = fact * v[i]
	}
	return
}

// ZeroA zeroes all coefficients
func (o *SOE) ZeroA() {
	o.A.Zero()
	o.Factored = false
}

// ZeroB zeroes the right-hand side
func (o *SOE) ZeroB() {
	zero(o.B)
}

// Solve solves the system, factorising A only if it changed
func (o *SOE) Solve() (err error) {
	if o.solver == nil {
		return fmt.Errorf("%s: Solve: %w", o.Name, ErrNoSolver)
	}
	if !o.Factored {
		if err = o.solver.Factor(o.A); err != nil {
			io.PfRed("%s: Solve: factorisation failed: %v\n", o.Name, err)
			return fmt.Errorf("%s: factorisation failed: %w", o.Name, err)
		}
		o.Factored = true
	}
	if err = o.solver.Solve(o.X, o.B); err != nil {
		o.Factored = false
		io.PfRed("%s: Solve: solution failed: %v\n", o.Name, err)
		return fmt.Errorf("%s: solution failed: %w", o.Name, err)
	}
	return
}

// GetX returns the solution for global id i
func (o *SOE) GetX(i int) (x float64, err error) {
	r := o.A.Pattern().Row(i)
	if r < 0 {
		return 0, fmt.Errorf("%s: GetX: equation %d is not stored here: %w", o.Name, i, ErrOutOfRange)
	}
	return o.X[r], nil
}

// Clean releases the solver and the storage
func (o *SOE) Clean() {
	if o.solver != nil {
		o.solver.Free()
		o.solver = nil
	}
	o.B, o.X = nil, nil
	o.Factored = false
}

// putB adds fact⋅v to B
func (o *SOE) putB(v []float64, eqs []int, fact float64, op string) (err error) {
	p := o.A.Pattern()
	n := len(v)
	if n > len(eqs) {
		n = len(eqs)
	}
	var rejected []int
	for a := 0; a < n; a++ {
		r := p.Row(eqs[a])
		if r < 0 {
			rejected = append(rejected, eqs[a])
			continue
		}
		o.B[r] += fact * v[a]
	}
	if len(v) != len(eqs) {
		io.PfRed("%s: %s: vector has %d entries but %d equations are given\n", o.Name, op, len(v), len(eqs))
		return fmt.Errorf("%s: %s: %d entries for %d equations: %w", o.Name, op, len(v), len(eqs), ErrShape)
	}
	if len(rejected) > 0 {
		io.PfRed("%s: %s: skipped equations %v\n", o.Name, op, rejected)
		return fmt.Errorf("%s: %s: %d entries skipped: %w", o.Name, op, len(rejected), ErrOutOfRange)
	}
	return
}

// width returns the number of columns of the first row of m
func width(m [][]float64) int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}
