// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"testing"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/ana"
	"github.com/xcfem/xc-sub024/inp"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newSim returns simulation data for a chain of rods
func newSim(tst *testing.T, text string) *inp.Simulation {
	sim, err := inp.ParseSim([]byte(text), "json")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	return sim
}

// checkChain compares the results of all processes with the analytical solution
func checkChain(tst *testing.T, sim *inp.Simulation, mains []*Main, fcn func(t float64) float64) {
	m := sim.Model
	var sol ana.RodChain
	if err := sol.Init(m.E, m.A, m.L, m.Ks, m.P); err != nil {
		tst.Fatalf("%v", err)
	}
	seen := make(map[int]bool)
	for _, o := range mains {
		if len(o.Results.Steps) != m.Nsteps {
			tst.Fatalf("rank %d: %d steps recorded instead of %d", o.Part.Rank, len(o.Results.Steps), m.Nsteps)
		}
		if o.Results.RunId != mains[0].RunId.String() {
			tst.Errorf("rank %d: run id %q differs from master's", o.Part.Rank, o.Results.RunId)
		}
		for _, n := range o.Results.Nodes {
			seen[n] = true
		}
		for _, stp := range o.Results.Steps {
			cur := sol.Scaled(fcn(stp.T))
			chk.Array(tst, io.Sf("rank %d: u @ t=%g", o.Part.Rank, stp.T), 1e-10, stp.U, cur.NodesDisp(o.Results.Nodes))
			for i, id := range o.Results.Elems {
				if id == m.Nelems {
					chk.Float64(tst, "reaction", 1e-10, stp.F[i], cur.Reaction())
				} else {
					chk.Float64(tst, io.Sf("N%d", id), 1e-10, stp.F[i], cur.Force())
				}
			}
		}
	}
	if len(seen) != m.Nelems+1 {
		tst.Errorf("%d nodes computed instead of %d", len(seen), m.Nelems+1)
	}
}

func Test_fem01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fem01. one process")

	sim := newSim(tst, `{"model":{"nelems":4,"E":10,"A":2,"L":0.5,"ks":8,"P":3}}`)
	mains, err := RunLocal(context.Background(), sim, chk.Verbose)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	checkChain(tst, sim, mains, func(t float64) float64 { return 1 })
	chk.Ints(tst, "nodes", mains[0].Dom.Nodes, []int{0, 1, 2, 3, 4})
}

func Test_fem02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fem02. three processes and load steps")

	for _, c := range []struct{ layout, solver string }{
		{"band", "lu"},
		{"sparse", "sparse"},
		{"sparse", "lu"},
	} {
		sim := newSim(tst, `{
  "net"    : { "nproc" : 3 },
  "linsol" : { "layout" : "`+c.layout+`", "name" : "`+c.solver+`" },
  "model"  : { "nelems" : 7, "E" : 100, "L" : 2, "ks" : 20, "P" : 4, "nsteps" : 3, "load" : "ramp" },
  "functions" : [ { "name" : "ramp", "type" : "lin", "prms" : [ { "n" : "m", "v" : 0.5 } ] } ]
}`)
		mains, err := RunLocal(context.Background(), sim, chk.Verbose)
		if err != nil {
			tst.Fatalf("%s/%s: %v", c.layout, c.solver, err)
		}
		checkChain(tst, sim, mains, func(t float64) float64 { return 0.5 * t })

		// partitions share their boundary nodes
		chk.Ints(tst, "nodes of rank 0", mains[0].Dom.Nodes, []int{0, 1, 2})
		chk.Ints(tst, "nodes of rank 1", mains[1].Dom.Nodes, []int{2, 3, 4})
		chk.Ints(tst, "nodes of rank 2", mains[2].Dom.Nodes, []int{4, 5, 6, 7})

		// K was sent once: later steps only ship B
		na := len(mains[1].Soe.Local.A.Values())
		if mains[1].Traffic.DoublesSent != na+3*3 {
			tst.Errorf("%s/%s: worker sent %d doubles; expected A once (%d) and B in 3 steps (3 each)", c.layout, c.solver, mains[1].Traffic.DoublesSent, na)
		}
	}
}

func Test_fem03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fem03. master solving with actors")

	for _, layout := range []string{"band", "sparse"} {
		sim := newSim(tst, `{
  "net"    : { "nproc" : 2, "nactors" : 2 },
  "linsol" : { "layout" : "`+layout+`", "name" : "lu" },
  "model"  : { "nelems" : 5, "E" : 3, "ks" : 2, "P" : -1, "nsteps" : 2 }
}`)
		mains, err := RunLocal(context.Background(), sim, chk.Verbose)
		if err != nil {
			tst.Fatalf("%s: %v", layout, err)
		}
		checkChain(tst, sim, mains, func(t float64) float64 { return 1 })
		if mains[0].ActorTr.DoublesRecv != 2*6 {
			tst.Errorf("%s: master must fetch X (6 values) from actors in 2 steps; got %d values", layout, mains[0].ActorTr.DoublesRecv)
		}
		if mains[1].Traffic.DoublesRecv != 2*6 {
			tst.Errorf("%s: worker must receive X (6 values) in 2 steps; got %d values", layout, mains[1].Traffic.DoublesRecv)
		}
	}
}

func Test_fem04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fem04. errors and results file")

	// invalid support spring
	sim := newSim(tst, `{"net":{"nproc":2},"model":{"nelems":2,"ks":1e-300}}`)
	sim.Model.Ks = 0
	if _, err := RunLocal(context.Background(), sim, chk.Verbose); err == nil {
		tst.Errorf("building a spring with ks=0 must fail")
	}

	// pipes cannot link processes
	sim = newSim(tst, `{"net":{"nproc":2,"rank":1}}`)
	if _, err := Connect(sim); err == nil {
		tst.Errorf("Connect with pipes must fail")
	}

	// too many partitions
	sim = newSim(tst, `{"model":{"nelems":2}}`)
	if _, err := NewDomain(sim, 0, 3); err == nil {
		tst.Errorf("NewDomain must fail with 3 partitions of 2 elements")
	}

	// results file
	sim = newSim(tst, `{"net":{"nproc":2},"model":{"nelems":3}}`)
	sim.DirOut, sim.Key = tst.TempDir(), "chain"
	mains, err := RunLocal(context.Background(), sim, chk.Verbose)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	for r, o := range mains {
		res, err := ReadResults(sim.DirOut, sim.Key, r)
		if err != nil {
			tst.Fatalf("%v", err)
		}
		chk.Ints(tst, "nodes", res.Nodes, o.Results.Nodes)
		chk.Array(tst, "u", 1e-15, res.Last().U, o.Results.Last().U)
		if res.RunId != mains[0].RunId.String() {
			tst.Errorf("wrong run id in file of rank %d", r)
		}
	}
}

func Test_fem05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fem05. actors stop when their shadows close")

	shadows, actors := startActors(3, "lu", false)
	chk.Int(tst, "number of shadows", len(shadows), 3)
	if err := shadows[1].Barrier(); err != nil {
		tst.Fatalf("%v", err)
	}

	done := make(chan bool)
	go func() {
		stopActors(shadows, actors)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		tst.Fatalf("actors did not stop")
	}
	if err := shadows[0].Barrier(); err == nil {
		tst.Errorf("barrier on a closed shadow must fail")
	}
}
