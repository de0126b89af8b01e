// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dsoe

import (
	"context"
	"fmt"

	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/soe"
	"github.com/xcfem/xc-sub024/tracing"
)

// Solve solves the distributed system. Every process must call it
func (o *LinSOE) Solve(ctx context.Context) (err error) {
	if o.localMap == nil {
		return fmt.Errorf("dsoe: rank %d: Solve: %w", o.Part.Rank, ErrNoGraph)
	}
	_, span := tracing.StartSpan(ctx, "dsoe.solve")
	span.WithInts(map[string]int{"rank": o.Part.Rank, "size": o.size})
	defer func() { tracing.EndSpan(span, err) }()
	if o.Part.IsMaster() {
		return o.recvBAsendBX()
	}
	return o.sendBArecvX()
}

// sendBArecvX ships A (only if changed) and B to the master and receives X
func (o *LinSOE) sendBArecvX() (err error) {
	c, tag := o.Part.Master(), o.tags[0]
	factored := 0
	if o.Local.Factored {
		factored = 1
	}
	if err = c.SendInt(tag, factored); err != nil {
		return o.failed("send status", err)
	}
	if factored == 0 {
		if err = c.SendVector(tag, o.Local.A.Values()); err != nil {
			return o.failed("send A", err)
		}
	}
	if err = c.SendVector(tag, o.Local.B); err != nil {
		return o.failed("send B", err)
	}
	status, err := c.RecvInt(tag)
	if err != nil {
		return o.failed("receive status", err)
	}
	if status != statusOK {
		o.Local.Factored = false
		return o.failed("solve", fmt.Errorf("status %d: %w", status, ErrRemoteSolve))
	}
	x := make([]float64, o.size)
	if err = c.RecvVector(tag, x); err != nil {
		return o.failed("receive X", err)
	}
	for r, i := range o.Local.Pattern().Rows {
		o.Local.X[r] = x[i]
	}
	o.Local.Factored = true
	return
}

// recvBAsendBX receives A and B from every worker in channel order, solves the
// aggregated system and sends X back
func (o *LinSOE) recvBAsendBX() (err error) {
	changed := !o.Local.Factored || !o.Global.Factored
	for i := range o.shapes {
		c, tag := o.Part.Channel(i), o.tags[i]
		factored, err := c.RecvInt(tag)
		if err != nil {
			return o.failed("receive status", err)
		}
		if factored == 0 {
			if err = c.RecvVector(tag, o.shapes[i].Values()); err != nil {
				return o.failed("receive A", err)
			}
			changed = true
		}
		if err = c.RecvVector(tag, o.wB[i]); err != nil {
			return o.failed("receive B", err)
		}
	}

	// aggregate
	if changed {
		o.Global.ZeroA()
		rejected := soe.AddLayout(o.Global.A, o.Local.A, 1)
		for _, shape := range o.shapes {
			rejected += soe.AddLayout(o.Global.A, shape, 1)
		}
		if rejected > 0 {
			io.PfRed("dsoe: master: %d coefficients do not fit the global layout\n", rejected)
		}
	}
	o.Global.ZeroB()
	addRows(o.Global.B, o.Local.Pattern().Rows, o.Local.B)
	for i, shape := range o.shapes {
		addRows(o.Global.B, shape.Pattern().Rows, o.wB[i])
	}

	// solve and scatter
	serr := o.Global.Solve()
	if err = o.sendResultsBack(serr == nil); err != nil {
		return
	}
	if serr != nil {
		return serr
	}
	for r, i := range o.Local.Pattern().Rows {
		o.Local.X[r] = o.Global.X[i]
	}
	o.Local.Factored = true
	return
}

// sendResultsBack sends the status and, on success, the whole X to every worker
func (o *LinSOE) sendResultsBack(ok bool) (err error) {
	status := statusOK
	if !ok {
		status = statusFailed
	}
	for i := range o.shapes {
		c, tag := o.Part.Channel(i), o.tags[i]
		if err = c.SendInt(tag, status); err != nil {
			return o.failed("send status", err)
		}
		if !ok {
			continue
		}
		if err = c.SendVector(tag, o.Global.X); err != nil {
			return o.failed("send X", err)
		}
	}
	return
}

// failed prints and wraps an error of the solution phase
func (o *LinSOE) failed(op string, err error) error {
	io.PfRed("dsoe: rank %d: Solve: %s failed: %v\n", o.Part.Rank, op, err)
	return fmt.Errorf("dsoe: rank %d: %s: %w", o.Part.Rank, op, err)
}

// addRows adds the entries of v, stored for the global ids rows, into the dense b
func addRows(b []float64, rows []int, v []float64) {
	for r, i := range rows {
		b[i] += v[r]
	}
}
