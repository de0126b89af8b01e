// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/xcfem/xc-sub024/ele"
	"github.com/xcfem/xc-sub024/graph"
	"github.com/xcfem/xc-sub024/inp"
)

// Domain holds the elements of one partition of a chain of rods along x.
//
//	Node i sits at x = i⋅L and its only unknown is ux with equation number i.
//	Rods [Proc⋅n/Nproc, (Proc+1)⋅n/Nproc) belong to this partition, so neighbour
//	partitions share one boundary node. The support spring at node 0 belongs to the
//	first partition and the tip load at node n to the last one.
type Domain struct {
	Proc   int           // this processor number
	Nproc  int           // number of processors
	Elems  []ele.Element // elements in this processor
	Forces []ele.Element // elements with internal forces; subset of Elems
	Nodes  []int         // nodes (equations) of this processor; ascending
	Graph  *graph.Graph  // equations graph of this processor
}

// NewDomain returns the partition proc of the model in sim
func NewDomain(sim *inp.Simulation, proc, nproc int) (o *Domain, err error) {

	// check
	mdl := sim.Model
	n := mdl.Nelems
	if nproc < 1 || proc < 0 || proc >= nproc || n < nproc {
		return nil, chk.Err("cannot split %d elements into %d partitions (proc=%d)", n, nproc, proc)
	}

	// new domain
	o = &Domain{Proc: proc, Nproc: nproc, Graph: graph.New()}
	prms := dbf.Params{
		&dbf.P{N: "E", V: mdl.E},
		&dbf.P{N: "A", V: mdl.A},
		&dbf.P{N: "ks", V: mdl.Ks},
		&dbf.P{N: "P", V: mdl.P},
	}

	// support
	if proc == 0 {
		if _, err = o.add("spring", n, prms, mdl.L, 0); err != nil {
			return nil, err
		}
	}

	// rods
	for e := proc * n / nproc; e < (proc+1)*n/nproc; e++ {
		if _, err = o.add("rod", e, prms, mdl.L, e, e+1); err != nil {
			return nil, err
		}
	}

	// tip load
	if proc == nproc-1 {
		fcn, err := sim.Functions.Get(mdl.Load)
		if err != nil {
			return nil, err
		}
		load, err := o.add("pload", n+1, prms, mdl.L, n)
		if err != nil {
			return nil, err
		}
		if err = load.SetEleConds("fx", fcn); err != nil {
			return nil, err
		}
	}

	// nodes
	o.Nodes = o.Graph.Tags()
	sort.Ints(o.Nodes)
	return
}

// add allocates a new element connecting nodes
func (o *Domain) add(kind string, id int, prms dbf.Params, L float64, nodes ...int) (e ele.Element, err error) {
	x := make([]float64, len(nodes))
	for i, n := range nodes {
		x[i] = float64(n) * L
	}
	if e, err = ele.New(kind, id, x, prms); err != nil {
		return
	}
	if err = e.SetEqs(nodes); err != nil {
		return
	}
	if err = o.Graph.AddClique(nodes); err != nil {
		return
	}
	o.Elems = append(o.Elems, e)
	if _, ok := e.(ele.WithForce); ok {
		o.Forces = append(o.Forces, e)
	}
	return
}
