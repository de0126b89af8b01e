// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dist holds the identity of a process taking part in a distributed analysis
// and its registry of peer channels
package dist

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/comm"
)

// message tags used by the participant itself
const (
	TagHello   = -1
	TagBarrier = -2
)

// Participant is one process of a star topology with the master at rank 0.
//
//	On the master, channel i links to worker rank i+1.
//	On a worker, channel 0 links to the master.
type Participant struct {
	Rank  int             // rank of this process; 0 is the master
	Nproc int             // number of processes
	chans []*comm.Context // registry of peer contexts
}

// NewParticipant returns a new participant
func NewParticipant(rank, nproc int) (o *Participant, err error) {
	if nproc < 1 || rank < 0 || rank >= nproc {
		return nil, chk.Err("dist: invalid rank=%d for nproc=%d", rank, nproc)
	}
	return &Participant{Rank: rank, Nproc: nproc}, nil
}

// IsMaster tells whether this process is the master
func (o *Participant) IsMaster() bool {
	return o.Rank == 0
}

// Register stores the context linking to peer. The registry grows lazily; a slot
// cannot be overwritten
func (o *Participant) Register(peer int, ctx *comm.Context) (err error) {
	idx, err := o.index(peer)
	if err != nil {
		return
	}
	for len(o.chans) <= idx {
		o.chans = append(o.chans, nil)
	}
	if o.chans[idx] != nil {
		return chk.Err("dist: rank %d: peer %d is already registered", o.Rank, peer)
	}
	ctx.Peer = peer
	o.chans[idx] = ctx
	return
}

// Channel returns the context at index idx of the registry
func (o *Participant) Channel(idx int) *comm.Context {
	if idx < 0 || idx >= len(o.chans) {
		return nil
	}
	return o.chans[idx]
}

// NumChannels returns the number of registry slots
func (o *Participant) NumChannels() int {
	return len(o.chans)
}

// Master returns the context linking a worker to the master
func (o *Participant) Master() *comm.Context {
	if o.IsMaster() {
		return nil
	}
	return o.Channel(0)
}

// Complete tells whether every peer is registered
func (o *Participant) Complete() bool {
	want := 1
	if o.IsMaster() {
		want = o.Nproc - 1
	}
	if o.Nproc == 1 {
		want = 0
	}
	if len(o.chans) != want {
		return false
	}
	for _, c := range o.chans {
		if c == nil {
			return false
		}
	}
	return true
}

// AcceptWorkers accepts Nproc-1 workers on the master. Each worker announces its rank
func (o *Participant) AcceptWorkers(acceptor chn.Acceptor) (err error) {
	if !o.IsMaster() {
		return chk.Err("dist: rank %d: only the master accepts workers", o.Rank)
	}
	for i := 1; i < o.Nproc; i++ {
		ch, err := acceptor.Accept()
		if err != nil {
			return err
		}
		ctx := comm.New(ch, -1)
		peer, err := ctx.RecvInt(TagHello)
		if err != nil {
			return fmt.Errorf("dist: hello from new worker: %w", err)
		}
		if err = o.Register(peer, ctx); err != nil {
			return err
		}
		if io.Verbose {
			io.Pf("dist: worker %d joined\n", peer)
		}
	}
	return
}

// JoinMaster registers ch as the link to the master and announces this rank
func (o *Participant) JoinMaster(ch chn.Channel) (err error) {
	ctx := comm.New(ch, 0)
	if err = ctx.SendInt(TagHello, o.Rank); err != nil {
		return fmt.Errorf("dist: rank %d: hello: %w", o.Rank, err)
	}
	return o.Register(0, ctx)
}

// Barrier blocks until every process has reached it
func (o *Participant) Barrier() (err error) {
	if o.IsMaster() {
		for _, c := range o.chans {
			if _, err = c.RecvInt(TagBarrier); err != nil {
				return fmt.Errorf("dist: barrier: %w", err)
			}
		}
		for _, c := range o.chans {
			if err = c.SendInt(TagBarrier, 0); err != nil {
				return fmt.Errorf("dist: barrier: %w", err)
			}
		}
		return
	}
	c := o.Master()
	if err = c.SendInt(TagBarrier, o.Rank); err != nil {
		return fmt.Errorf("dist: barrier: %w", err)
	}
	if _, err = c.RecvInt(TagBarrier); err != nil {
		return fmt.Errorf("dist: barrier: %w", err)
	}
	return
}

// Clean closes every channel and empties the registry
func (o *Participant) Clean() {
	for _, c := range o.chans {
		if c != nil {
			c.Close()
		}
	}
	o.chans = nil
}

// index returns the registry slot of peer
func (o *Participant) index(peer int) (idx int, err error) {
	if peer < 0 || peer >= o.Nproc || peer == o.Rank {
		return 0, chk.Err("dist: rank %d: invalid peer %d (nproc=%d)", o.Rank, peer, o.Nproc)
	}
	if o.IsMaster() {
		return peer - 1, nil
	}
	if peer != 0 {
		return 0, chk.Err("dist: worker %d can only link to the master; got peer %d", o.Rank, peer)
	}
	return 0, nil
}
