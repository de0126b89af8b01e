// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the FEM driver of a partitioned model
package fem

import (
	"context"
	"fmt"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/xcfem/xc-sub024/actor"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/dist"
	"github.com/xcfem/xc-sub024/dsoe"
	"github.com/xcfem/xc-sub024/inp"
)

// TagRunId tags the run id sent by the master after the processes connect
const TagRunId = -3

// Main holds all data for a simulation using the finite element method
type Main struct {
	Sim     *inp.Simulation   // simulation data
	RunId   uuid.UUID         // run id; the same in all processes after Run
	Part    *dist.Participant // this process and its channels
	Dom     *Domain           // partition of this process
	Soe     *dsoe.LinSOE      // distributed system of equations
	Results *Results          // solution at the nodes of this process
	Actors  []*actor.Shadow   // actors solving on behalf of the master
	Traffic comm.Stats        // traffic to peers; set by Clean
	ActorTr comm.Stats        // traffic to actors; set by Clean
	Verbose bool              // show messages
	ShowMsg bool              // show messages on the master only
}

// NewMain returns a new Main structure
//
//	Input:
//	 sim     -- simulation data
//	 part    -- this process, already linked to its peers
//	 verbose -- show messages
func NewMain(sim *inp.Simulation, part *dist.Participant, verbose bool) (o *Main, err error) {
	o = &Main{Sim: sim, Part: part, Verbose: verbose, ShowMsg: verbose && part.IsMaster()}
	if o.Dom, err = NewDomain(sim, part.Rank, part.Nproc); err != nil {
		return nil, err
	}
	if o.Soe, err = dsoe.New(part, sim.LinSol.Layout, sim.LinSol.Name); err != nil {
		return nil, err
	}
	o.RunId = uuid.New()
	o.Results = &Results{Proc: part.Rank, Nodes: o.Dom.Nodes}
	if o.ShowMsg {
		io.Pf("> Domain with %d elements split into %d partitions\n", sim.Model.Nelems, part.Nproc)
	}
	return
}

// SetActors makes the master solve the global system with actors
func (o *Main) SetActors(shadows []*actor.Shadow) (err error) {
	if !o.Part.IsMaster() {
		return chk.Err("fem: rank %d: only the master drives actors", o.Part.Rank)
	}
	if len(shadows) == 0 {
		return
	}
	o.Actors = shadows
	o.Soe.SetSolver(actor.NewRemoteSolver(shadows...))
	if o.ShowMsg {
		io.Pf("> %d actors connected\n", len(shadows))
	}
	return
}

// Run runs all load steps. K is assembled once; B is assembled at each step with the
// load function evaluated at t = step number
func (o *Main) Run(ctx context.Context) (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// run id and graph
	if err = o.shareRunId(); err != nil {
		return
	}
	o.Results.RunId = o.RunId.String()
	if err = o.Soe.SetGraph(ctx, o.Dom.Graph); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Run %v. Number of equations = %d\n", o.RunId, o.Soe.Size())
	}

	// stiffness
	o.Soe.ZeroA()
	for _, e := range o.Dom.Elems {
		if err = e.AddToKb(o.Soe); err != nil {
			return
		}
	}

	// steps
	for step := 1; step <= o.Sim.Model.Nsteps; step++ {
		t := float64(step)
		o.Soe.ZeroB()
		for _, e := range o.Dom.Elems {
			if err = e.AddToRhs(o.Soe, t); err != nil {
				return
			}
		}
		if err = o.Soe.Solve(ctx); err != nil {
			return
		}
		if err = o.Results.Add(t, o.Soe.GetX, o.Dom); err != nil {
			return
		}
		if o.ShowMsg {
			io.Pforan("> step %d: t = %g\n", step, t)
		}
	}
	return o.Part.Barrier()
}

// Clean closes the channels to peers and actors
func (o *Main) Clean() {
	for i := 0; i < o.Part.NumChannels(); i++ {
		if c := o.Part.Channel(i); c != nil {
			o.Traffic.Add(c.Stats)
		}
	}
	for _, s := range o.Actors {
		o.ActorTr.Add(s.Context().Stats)
		s.Context().Close()
	}
	o.Actors = nil
	o.Soe.Clean()
	o.Part.Clean()
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// shareRunId makes all processes use the run id of the master
func (o *Main) shareRunId() (err error) {
	buf := make([]int, len(o.RunId))
	if o.Part.IsMaster() {
		for i, b := range o.RunId {
			buf[i] = int(b)
		}
		for i := 0; i < o.Part.NumChannels(); i++ {
			if err = o.Part.Channel(i).SendID(TagRunId, buf); err != nil {
				return fmt.Errorf("fem: send run id: %w", err)
			}
		}
		return
	}
	if err = o.Part.Master().RecvID(TagRunId, buf); err != nil {
		return fmt.Errorf("fem: rank %d: receive run id: %w", o.Part.Rank, err)
	}
	raw := make([]byte, len(buf))
	for i, b := range buf {
		raw[i] = byte(b)
	}
	o.RunId, err = uuid.FromBytes(raw)
	return
}

// onexit prints final message with cpu time and saves results
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// show final message
	if prevErr != nil {
		io.PfRed("fem: rank %d: run failed: %v\n", o.Part.Rank, prevErr)
		return prevErr
	}
	if o.ShowMsg {
		io.PfGreen("> Success\n")
		io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
	}

	// save results
	if o.Sim.DirOut != "" {
		err = o.Results.Save(o.Sim.DirOut, o.Sim.Key)
	}
	return
}
