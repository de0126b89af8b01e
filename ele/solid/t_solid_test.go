// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/ele"
	"github.com/xcfem/xc-sub024/graph"
	"github.com/xcfem/xc-sub024/soe"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_rod01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rod01. stiffness and force")

	e, err := ele.New("rod", 3, []float64{1, 3}, dbf.Params{&dbf.P{N: "E", V: 100}, &dbf.P{N: "A", V: 0.5}})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	o := e.(*Rod)
	chk.Int(tst, "id", o.Id(), 3)
	chk.Float64(tst, "L", 1e-15, o.L, 2)
	chk.Deep2(tst, "K", 1e-15, o.K, [][]float64{{25, -25}, {-25, 25}})
	if err = o.SetEqs([]int{4, 5}); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Ints(tst, "Umap", o.Eqs(), []int{4, 5})
	chk.Float64(tst, "N", 1e-15, o.Force([]float64{0.1, 0.3}), 5)

	// errors
	if err = o.SetEqs([]int{1}); err == nil {
		tst.Errorf("SetEqs must fail with one equation")
	}
	if _, err = ele.New("rod", 0, []float64{1, 1}, dbf.Params{&dbf.P{N: "E", V: 1}, &dbf.P{N: "A", V: 1}}); err == nil {
		tst.Errorf("zero length must fail")
	}
	if _, err = ele.New("rod", 0, []float64{0, 1}, dbf.Params{&dbf.P{N: "E", V: 1}}); err == nil {
		tst.Errorf("missing A must fail")
	}
	if _, err = ele.New("beam", 0, []float64{0, 1}, nil); err == nil {
		tst.Errorf("unknown element must fail")
	}
	chk.Strings(tst, "names", ele.Names(), []string{"pload", "rod", "spring"})
}

func Test_rod02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rod02. spring + 2 rods + tip load")

	// elements
	prms := dbf.Params{&dbf.P{N: "E", V: 10}, &dbf.P{N: "A", V: 1}, &dbf.P{N: "ks", V: 4}, &dbf.P{N: "P", V: 2}}
	var elems []ele.Element
	for i, c := range []struct {
		kind string
		x    []float64
		eqs  []int
	}{
		{"spring", []float64{0}, []int{0}},
		{"rod", []float64{0, 1}, []int{0, 1}},
		{"rod", []float64{1, 2}, []int{1, 2}},
		{"pload", []float64{2}, []int{2}},
	} {
		e, err := ele.New(c.kind, i, c.x, prms)
		if err != nil {
			tst.Fatalf("%v", err)
		}
		if err = e.SetEqs(c.eqs); err != nil {
			tst.Fatalf("%v", err)
		}
		elems = append(elems, e)
	}
	ramp := dbf.New("lin", dbf.Params{&dbf.P{N: "m", V: 0.5}})
	if err := elems[3].SetEleConds("fx", ramp); err != nil {
		tst.Fatalf("%v", err)
	}
	if err := elems[1].SetEleConds("fx", ramp); err == nil {
		tst.Errorf("rod must not accept fx")
	}

	// system
	g := graph.New()
	for _, e := range elems {
		g.AddClique(e.Eqs())
	}
	p, err := soe.NewPattern(3, 1, 1, nil, g)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	o, err := soe.New("rods", "band", "lu")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	o.SetSize(p)
	for _, e := range elems {
		if err = e.AddToKb(o); err != nil {
			tst.Fatalf("%v", err)
		}
		if err = e.AddToRhs(o, 2); err != nil {
			tst.Fatalf("%v", err)
		}
	}
	if err = o.Solve(); err != nil {
		tst.Fatalf("%v", err)
	}

	// P(t=2) = 2 ⋅ 0.5 ⋅ 2 = 2 => u0 = 2/4, u_i = u0 + i⋅2/10
	chk.Array(tst, "X", 1e-14, o.X, []float64{0.5, 0.7, 0.9})
	u, err := ele.Gather(o.GetX, elems[2].Eqs())
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "N", 1e-14, elems[2].(ele.WithForce).Force(u), 2)
	chk.Float64(tst, "R", 1e-14, elems[0].(ele.WithForce).Force([]float64{o.X[0]}), -2)
}
