// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/graph"
)

// tridiag assembles the 3×3 system [[2,-1,0],[-1,2,-1],[0,-1,2]] ⋅ x = [1,0,1]
func tridiag(tst *testing.T, o *SOE) {
	ke := [][]float64{{1, -1}, {-1, 1}}
	for _, eqs := range [][]int{{0, 1}, {1, 2}} {
		if err := o.AddA(ke, eqs, 1); err != nil {
			tst.Fatalf("%v", err)
		}
	}
	for _, eq := range []int{0, 2} {
		if err := o.AddA([][]float64{{1}}, []int{eq}, 1); err != nil {
			tst.Fatalf("%v", err)
		}
		if err := o.AddB([]float64{1}, []int{eq}, 1); err != nil {
			tst.Fatalf("%v", err)
		}
	}
}

func newSystem(tst *testing.T, layout, solver string) (o *SOE) {
	g := graph.New()
	g.AddClique([]int{0, 1})
	g.AddClique([]int{1, 2})
	p, err := NewPattern(3, 1, 1, nil, g)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	o, err = New("test", layout, solver)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	o.SetSize(p)
	return
}

func Test_soe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe01. layouts and solvers")

	for _, c := range []struct{ layout, solver string }{
		{"band", "lu"},
		{"sparse", "lu"},
		{"band", "sparse"},
		{"sparse", "sparse"},
	} {
		o := newSystem(tst, c.layout, c.solver)
		tridiag(tst, o)
		if err := o.Solve(); err != nil {
			tst.Errorf("%s/%s: %v", c.layout, c.solver, err)
			continue
		}
		chk.Array(tst, c.layout+"/"+c.solver, 1e-13, o.X, []float64{1, 1, 1})
		if !o.Factored {
			tst.Errorf("%s/%s: must be factored", c.layout, c.solver)
		}
		o.Clean()
	}
}

func Test_soe02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe02. summation is order independent")

	a := newSystem(tst, "band", "")
	b := newSystem(tst, "band", "")
	m1 := [][]float64{{1.5, 2}, {3, 4}}
	m2 := [][]float64{{10, 20}, {30, 40}}
	a.AddA(m1, []int{0, 1}, 2)
	a.AddA(m2, []int{1, 2}, 2)
	b.AddA(m2, []int{1, 2}, 2)
	b.AddA(m1, []int{0, 1}, 2)
	chk.Array(tst, "A", 1e-15, a.A.Values(), b.A.Values())
	chk.Float64(tst, "A11", 1e-15, a.A.Get(1, 1), 2*(4+10))
}

func Test_soe03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe03. zeroing, cache validity and quick return")

	o := newSystem(tst, "sparse", "lu")
	tridiag(tst, o)
	if err := o.Solve(); err != nil {
		tst.Fatalf("%v", err)
	}
	x1 := append([]float64{}, o.X...)
	if err := o.Solve(); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "same X", 0, o.X, x1)

	// quick return keeps everything
	b := append([]float64{}, o.B...)
	o.AddB([]float64{100}, []int{1}, 0)
	o.SetB([]float64{7, 7, 7}, 0)
	o.AddA([][]float64{{100}}, []int{1}, 0)
	chk.Array(tst, "B", 0, o.B, b)
	if !o.Factored {
		tst.Errorf("zero factor must not touch factored flag")
	}

	// AddA invalidates
	o.AddA([][]float64{{1}}, []int{1}, 1)
	if o.Factored {
		tst.Errorf("AddA must reset factored flag")
	}
	o.Solve()

	// idempotent zero
	o.ZeroA()
	o.ZeroA()
	if o.Factored {
		tst.Errorf("ZeroA must reset factored flag")
	}
	chk.Array(tst, "A", 0, o.A.Values(), make([]float64, len(o.A.Values())))
	chk.Array(tst, "B untouched", 0, o.B, b)
	o.ZeroB()
	o.ZeroB()
	chk.Array(tst, "B", 0, o.B, []float64{0, 0, 0})

	// SetB replaces
	o.SetB([]float64{1, 2, 3}, 2)
	chk.Array(tst, "B", 0, o.B, []float64{2, 4, 6})
}

func Test_soe04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe04. rejected entries")

	o := newSystem(tst, "band", "lu")

	// (0,2) is outside the band; the rest is applied
	err := o.AddA([][]float64{{1, 2}, {3, 4}}, []int{0, 2}, 1)
	if !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("expected out of range. got %v", err)
	}
	chk.Float64(tst, "A00", 0, o.A.Get(0, 0), 1)
	chk.Float64(tst, "A22", 0, o.A.Get(2, 2), 4)
	chk.Float64(tst, "A02", 0, o.A.Get(0, 2), 0)

	err = o.AddB([]float64{1, 1}, []int{5, 1}, 1)
	if !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("expected out of range. got %v", err)
	}
	chk.Array(tst, "B", 0, o.B, []float64{0, 1, 0})

	err = o.AddB([]float64{1}, []int{0, 1}, 1)
	if !errors.Is(err, ErrShape) {
		tst.Errorf("expected shape mismatch. got %v", err)
	}
	err = o.AddA([][]float64{{1}}, []int{-1}, 1)
	if !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("expected out of range. got %v", err)
	}
	if _, err = o.GetX(3); !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("expected out of range. got %v", err)
	}
}

func Test_soe05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe05. diagonal system and singular matrices")

	o := newSystem(tst, "diag", "diag")
	tridiag(tst, o)
	chk.Float64(tst, "A01 dropped", 0, o.A.Get(0, 1), 0)
	if err := o.Solve(); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "X", 1e-15, o.X, []float64{0.5, 0, 0.5})

	for _, solver := range []string{"lu", "diag", "sparse"} {
		s := newSystem(tst, "band", solver)
		s.AddA([][]float64{{1, 1}, {1, 1}}, []int{0, 1}, 1)
		err := s.Solve()
		if !errors.Is(err, ErrSingular) {
			tst.Errorf("%s: expected singular. got %v", solver, err)
		}
		if s.Factored {
			tst.Errorf("%s: failed solve must leave factored false", solver)
		}
	}

	n := newSystem(tst, "band", "")
	if err := n.Solve(); !errors.Is(err, ErrNoSolver) {
		tst.Errorf("expected no solver. got %v", err)
	}
	if _, err := NewSolver("nope"); err == nil {
		tst.Errorf("unknown solver must fail")
	}
}

func Test_pattern01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pattern01. partial rows and compressed form")

	g := graph.New()
	g.AddClique([]int{4, 5})
	g.AddClique([]int{5, 6})
	p, err := NewPattern(8, 3, 9, []int{4, 5, 6}, g)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "kl", p.Kl, 3)
	chk.Int(tst, "ku", p.Ku, 7)
	chk.Int(tst, "row(5)", p.Row(5), 1)
	chk.Int(tst, "row(0)", p.Row(0), -1)
	chk.Int(tst, "row(9)", p.Row(9), -1)
	rowptr, colidx := p.Compressed()
	chk.Ints(tst, "rowptr", rowptr, []int{0, 2, 5, 7})
	chk.Ints(tst, "colidx", colidx, []int{4, 5, 4, 5, 6, 5, 6})
	if p.Full() {
		tst.Errorf("pattern is not full")
	}

	if _, err = NewPattern(8, 1, 1, []int{5, 4}, nil); err == nil {
		tst.Errorf("descending rows must fail")
	}
	if _, err = NewPatternAdj(3, 1, 1, nil, [][]int{{0}, {1, 3}, {2}}); err == nil {
		tst.Errorf("column outside the system must fail")
	}

	// sparse layout on the partial pattern
	l, _ := NewLayout("sparse")
	l.Alloc(p)
	if l.Add(4, 6, 1) {
		tst.Errorf("(4,6) is not in the pattern")
	}
	if !l.Add(5, 6, 2) {
		tst.Errorf("(5,6) is in the pattern")
	}
	var n int
	l.Each(func(i, j int, v float64) { n++ })
	chk.Int(tst, "visited", n, 7)

	// copy between layouts
	band, _ := NewLayoutCode(CodeBand)
	band.Alloc(p)
	chk.Int(tst, "rejected", AddLayout(band, l, 3), 0)
	chk.Float64(tst, "band(5,6)", 0, band.Get(5, 6), 6)
}

func Test_soe06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("soe06. re-factorisation after new coefficients")

	for _, c := range []struct{ layout, solver string }{
		{"band", "lu"},
		{"sparse", "lu"},
		{"band", "sparse"},
		{"sparse", "sparse"},
	} {
		g := graph.New()
		g.AddClique([]int{0, 1})
		p, err := NewPattern(2, 1, 1, nil, g)
		if err != nil {
			tst.Fatalf("%v", err)
		}
		o, err := New("refactor", c.layout, c.solver)
		if err != nil {
			tst.Fatalf("%v", err)
		}
		o.SetSize(p)
		for k, sys := range []struct {
			a [][]float64
			b []float64
		}{
			{[][]float64{{2, 1}, {1, 3}}, []float64{3, 4}},
			{[][]float64{{4, -1}, {-1, 2}}, []float64{3, 1}},
			{[][]float64{{2, 1}, {1, 3}}, []float64{3, 4}},
		} {
			o.ZeroA()
			o.ZeroB()
			if err = o.AddA(sys.a, []int{0, 1}, 1); err != nil {
				tst.Fatalf("%v", err)
			}
			if err = o.AddB(sys.b, []int{0, 1}, 1); err != nil {
				tst.Fatalf("%v", err)
			}
			if err = o.Solve(); err != nil {
				tst.Errorf("%s/%s: solve %d: %v", c.layout, c.solver, k, err)
				break
			}
			chk.Array(tst, io.Sf("%s/%s: X%d", c.layout, c.solver, k), 1e-14, o.X, []float64{1, 1})
		}
		o.Clean()
	}
}
