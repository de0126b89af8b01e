// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actor

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub024/soe"
)

// RemoteSolver implements soe.Solver with actors. Each actor solves the whole
// system; the solution is gathered from the ranges they own, split evenly
type RemoteSolver struct {
	Shadows  []*Shadow
	a        soe.Layout
	sized    *soe.Pattern
	refactor bool
}

// NewRemoteSolver returns a solver driving the given actors
func NewRemoteSolver(shadows ...*Shadow) *RemoteSolver {
	return &RemoteSolver{Shadows: shadows}
}

// Factor records the coefficients to ship with the next solution, resizing the
// actors if the pattern changed
func (o *RemoteSolver) Factor(a soe.Layout) (err error) {
	p := a.Pattern()
	if len(o.Shadows) == 0 {
		return chk.Err("actor: remote solver has no actors")
	}
	if p == nil || !p.Full() {
		return chk.Err("actor: remote solver needs every row of the system")
	}
	if p != o.sized {
		k := len(o.Shadows)
		for i, s := range o.Shadows {
			if err = s.Resize(p, a.Code(), i*p.Size/k, (i+1)*p.Size/k); err != nil {
				return
			}
		}
		o.sized = p
	}
	o.a = a
	o.refactor = true
	return
}

// Solve ships B (and A if it changed) to every actor and gathers X
func (o *RemoteSolver) Solve(x, b []float64) (err error) {
	if o.a == nil {
		return fmt.Errorf("actor: no coefficients: %w", soe.ErrSingular)
	}
	for _, s := range o.Shadows {
		if err = s.SendSolve(!o.refactor, o.a.Values(), b); err != nil {
			return
		}
	}
	failed := 0
	for _, s := range o.Shadows {
		status, err := s.RecvStatus()
		if err != nil {
			return err
		}
		if status != StatusOK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("actor: %d of %d actors failed: %w", failed, len(o.Shadows), soe.ErrSingular)
	}
	o.refactor = false
	for _, s := range o.Shadows {
		if err = s.Fetch(x); err != nil {
			return
		}
	}
	return
}

// Free forgets the coefficients; actors stop when their channels close
func (o *RemoteSolver) Free() {
	o.a, o.sized = nil, nil
}
