// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actor

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/soe"
)

// status codes
const (
	StatusOK     = 0
	StatusFailed = -1
)

// Actor solves the whole system on behalf of the master and owns the rows
// [Low,High) of the solution
type Actor struct {
	Low, High int      // range of X returned by fetch
	Sys       *soe.SOE // system being solved; nil before the first resize
	Verbose   bool     // show messages
	c         *comm.Context
	solver    string
	hdr       []int
}

// New returns an actor talking to the master through c
func New(c *comm.Context, solver string) *Actor {
	return &Actor{c: c, solver: solver, hdr: make([]int, 3)}
}

// Run executes commands until the master closes the channel (status 0), a command
// is unknown (status -1 and ErrProtocol) or the channel fails (status -1)
func (o *Actor) Run() (status int, err error) {
	for {
		if err = o.c.RecvID(Tag, o.hdr); err != nil {
			if chn.IsClosed(err) {
				return StatusOK, nil
			}
			io.PfRed("actor: receive header failed: %v\n", err)
			return StatusFailed, err
		}
		action := Action(o.hdr[0])
		if o.Verbose {
			io.Pf("actor: %v %d %d\n", action, o.hdr[1], o.hdr[2])
		}
		switch action {
		case ActionBarrier:
			err = o.c.SendID(Tag, o.hdr)
		case ActionSolve:
			err = o.solve(o.hdr[1] != 0)
		case ActionResize:
			err = o.resize(o.hdr[1], o.hdr[2])
		case ActionZeroA:
			if o.Sys != nil {
				o.Sys.ZeroA()
			}
		case ActionZeroB:
			if o.Sys != nil {
				o.Sys.ZeroB()
			}
		case ActionFetch:
			err = o.fetch()
		case ActionReserved:
		default:
			io.PfRed("actor: protocol violation: unknown action %d (args %d %d)\n", o.hdr[0], o.hdr[1], o.hdr[2])
			return StatusFailed, fmt.Errorf("actor: %v: %w", action, ErrProtocol)
		}
		if err != nil {
			io.PfRed("actor: %v failed: %v\n", action, err)
			return StatusFailed, err
		}
	}
}

// resize allocates a new system
func (o *Actor) resize(size, nnz int) (err error) {
	data := make([]int, 5)
	if err = o.c.RecvID(Tag, data); err != nil {
		return
	}
	low, high, kl, ku, code := data[0], data[1], data[2], data[3], data[4]
	var adj [][]int
	if code == soe.CodeSparse {
		rowptr := make([]int, size+1)
		colidx := make([]int, nnz)
		if err = o.c.RecvID(Tag, rowptr); err != nil {
			return
		}
		if err = o.c.RecvID(Tag, colidx); err != nil {
			return
		}
		adj = make([][]int, size)
		for i := range adj {
			if rowptr[i] < 0 || rowptr[i] > rowptr[i+1] || rowptr[i+1] > nnz {
				return chk.Err("actor: resize: invalid row pointers")
			}
			adj[i] = colidx[rowptr[i]:rowptr[i+1]]
		}
	}
	if low < 0 || high < low || high > size {
		return chk.Err("actor: resize: invalid range [%d,%d) for size %d", low, high, size)
	}
	p, err := soe.NewPatternAdj(size, kl, ku, nil, adj)
	if err != nil {
		return
	}
	l, err := soe.NewLayoutCode(code)
	if err != nil {
		return
	}
	if o.Sys != nil {
		o.Sys.Clean()
	}
	if o.Sys, err = soe.New("actor", l.Name(), o.solver); err != nil {
		return
	}
	o.Sys.SetSize(p)
	o.Low, o.High = low, high
	return o.c.SendID(Tag, []int{size, low, high})
}

// solve receives A (unless factored) and B, solves, and replies the status
func (o *Actor) solve(factored bool) (err error) {
	if o.Sys == nil {
		return chk.Err("actor: solve before resize")
	}
	if !factored {
		if err = o.c.RecvVector(Tag, o.Sys.A.Values()); err != nil {
			return
		}
	}
	o.Sys.Factored = factored
	if err = o.c.RecvVector(Tag, o.Sys.B); err != nil {
		return
	}
	status := StatusOK
	if e := o.Sys.Solve(); e != nil {
		status = StatusFailed
	}
	return o.c.SendInt(Tag, status)
}

// fetch sends the owned segment of X
func (o *Actor) fetch() (err error) {
	if err = o.c.SendID(Tag, []int{o.Low, o.High}); err != nil {
		return
	}
	var x []float64
	if o.Sys != nil {
		x = o.Sys.X[o.Low:o.High]
	}
	return o.c.SendVector(Tag, x)
}
