// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actor

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/soe"
)

// Shadow is the master-side handle of one actor
type Shadow struct {
	Low, High int // range owned by the actor
	c         *comm.Context
	hdr       []int
}

// NewShadow returns a handle to the actor at the other end of c
func NewShadow(c *comm.Context) *Shadow {
	return &Shadow{c: c, hdr: make([]int, 3)}
}

// Context returns the communicator context
func (o *Shadow) Context() *comm.Context {
	return o.c
}

// Send sends a raw header
func (o *Shadow) Send(action Action, arg1, arg2 int) (err error) {
	o.hdr[0], o.hdr[1], o.hdr[2] = int(action), arg1, arg2
	return o.c.SendID(Tag, o.hdr)
}

// Barrier waits for the actor to echo a barrier header
func (o *Shadow) Barrier() (err error) {
	if err = o.Send(ActionBarrier, 0, 0); err != nil {
		return
	}
	echo := make([]int, 3)
	if err = o.c.RecvID(Tag, echo); err != nil {
		return
	}
	if Action(echo[0]) != ActionBarrier {
		return fmt.Errorf("actor: barrier echo %v: %w", echo, ErrProtocol)
	}
	return
}

// Resize allocates a system with pattern p and storage layout code on the actor,
// which will own [low,high)
func (o *Shadow) Resize(p *soe.Pattern, code, low, high int) (err error) {
	nnz := 0
	var rowptr, colidx []int
	if code == soe.CodeSparse {
		rowptr, colidx = p.Compressed()
		nnz = len(colidx)
	}
	if err = o.Send(ActionResize, p.Size, nnz); err != nil {
		return
	}
	if err = o.c.SendID(Tag, []int{low, high, p.Kl, p.Ku, code}); err != nil {
		return
	}
	if code == soe.CodeSparse {
		if err = o.c.SendID(Tag, rowptr); err != nil {
			return
		}
		if err = o.c.SendID(Tag, colidx); err != nil {
			return
		}
	}
	reply := make([]int, 3)
	if err = o.c.RecvID(Tag, reply); err != nil {
		return
	}
	if reply[0] != p.Size || reply[1] != low || reply[2] != high {
		return chk.Err("actor: resize confirmation %v does not match {%d %d %d}", reply, p.Size, low, high)
	}
	o.Low, o.High = low, high
	return
}

// SendSolve asks for a solution. a is sent only if factored is false
func (o *Shadow) SendSolve(factored bool, a, b []float64) (err error) {
	flag := 0
	if factored {
		flag = 1
	}
	if err = o.Send(ActionSolve, flag, 0); err != nil {
		return
	}
	if !factored {
		if err = o.c.SendVector(Tag, a); err != nil {
			return
		}
	}
	return o.c.SendVector(Tag, b)
}

// RecvStatus receives the status of a solution
func (o *Shadow) RecvStatus() (status int, err error) {
	return o.c.RecvInt(Tag)
}

// Solve asks for a solution and waits for its status
func (o *Shadow) Solve(factored bool, a, b []float64) (status int, err error) {
	if err = o.SendSolve(factored, a, b); err != nil {
		return
	}
	return o.RecvStatus()
}

// ZeroA zeroes the coefficients of the actor
func (o *Shadow) ZeroA() error {
	return o.Send(ActionZeroA, 0, 0)
}

// ZeroB zeroes the right-hand side of the actor
func (o *Shadow) ZeroB() error {
	return o.Send(ActionZeroB, 0, 0)
}

// Fetch copies the owned segment of the actor's solution into x
func (o *Shadow) Fetch(x []float64) (err error) {
	if err = o.Send(ActionFetch, 0, 0); err != nil {
		return
	}
	rng := make([]int, 2)
	if err = o.c.RecvID(Tag, rng); err != nil {
		return
	}
	if rng[0] < 0 || rng[1] < rng[0] || rng[1] > len(x) {
		return chk.Err("actor: fetch range [%d,%d) outside solution of size %d", rng[0], rng[1], len(x))
	}
	return o.c.RecvVector(Tag, x[rng[0]:rng[1]])
}
