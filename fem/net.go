// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/actor"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/dist"
	"github.com/xcfem/xc-sub024/inp"
)

// Connect returns this process linked to its peers. With MPI, rank and number of
// processes come from MPI and are written back into sim
func Connect(sim *inp.Simulation) (part *dist.Participant, err error) {
	if sim.Net.Transport == "mpi" {
		if !chn.MpiOn() {
			return nil, chk.Err("fem: MPI transport requested but MPI is off")
		}
		sim.Net.Rank, sim.Net.Nproc = chn.MpiRank(), chn.MpiSize()
	}
	if part, err = dist.NewParticipant(sim.Net.Rank, sim.Net.Nproc); err != nil {
		return
	}
	if part.Nproc == 1 {
		return
	}
	if sim.Net.Transport == "mpi" {
		err = connectMpi(part)
		return
	}
	if part.IsMaster() {
		var ln chn.Acceptor
		if ln, err = listen(sim.Net.Transport, sim.Net.Master); err != nil {
			return
		}
		defer ln.Close()
		if io.Verbose {
			io.Pf("> waiting for %d workers on %s\n", part.Nproc-1, ln.Addr())
		}
		err = part.AcceptWorkers(ln)
		return
	}
	ch, err := dial(sim.Net.Transport, sim.Net.Master)
	if err != nil {
		return
	}
	err = part.JoinMaster(ch)
	return
}

// ConnectActors waits for sim.Net.Nactors actors on the master. Actors are ordered
// as they connect
func ConnectActors(sim *inp.Simulation) (shadows []*actor.Shadow, err error) {
	if sim.Net.Nactors == 0 {
		return
	}
	ln, err := listen(sim.Net.Transport, sim.Net.Actor)
	if err != nil {
		return
	}
	defer ln.Close()
	for i := 0; i < sim.Net.Nactors; i++ {
		ch, err := ln.Accept()
		if err != nil {
			return nil, err
		}
		shadows = append(shadows, actor.NewShadow(comm.New(ch, i)))
	}
	return
}

// RunActor connects to the master's actor address and serves commands until the
// master closes the link
func RunActor(sim *inp.Simulation, verbose bool) (status int, err error) {
	ch, err := dial(sim.Net.Transport, sim.Net.Actor)
	if err != nil {
		return actor.StatusFailed, err
	}
	a := actor.New(comm.New(ch, 0), sim.LinSol.Name)
	a.Verbose = verbose
	defer ch.Close()
	return a.Run()
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// listen opens a listening endpoint
func listen(transport, addr string) (chn.Acceptor, error) {
	switch transport {
	case "tcp":
		return chn.Listen(addr)
	case "ws":
		return chn.ListenWebSocket(addr)
	}
	return nil, chk.Err("fem: transport %q cannot listen for peers", transport)
}

// dial connects to a listening endpoint
func dial(transport, addr string) (chn.Channel, error) {
	switch transport {
	case "tcp":
		return chn.Dial(addr)
	case "ws":
		return chn.DialWebSocket("ws://" + addr + chn.WebSocketPath)
	}
	return nil, chk.Err("fem: transport %q cannot dial peers", transport)
}

// connectMpi registers one MPI channel per peer
func connectMpi(part *dist.Participant) (err error) {
	peers := []int{0}
	if part.IsMaster() {
		peers = peers[:0]
		for r := 1; r < part.Nproc; r++ {
			peers = append(peers, r)
		}
	}
	for _, r := range peers {
		ch, err := chn.NewMpi(r)
		if err != nil {
			return err
		}
		if err = part.Register(r, comm.New(ch, r)); err != nil {
			return err
		}
	}
	return
}
