// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dsoe implements a system of equations assembled by several processes and
// solved by the master
package dsoe

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/xcfem/xc-sub024/dist"
	"github.com/xcfem/xc-sub024/graph"
	"github.com/xcfem/xc-sub024/soe"
	"github.com/xcfem/xc-sub024/tracing"
)

var (
	// ErrMapFrozen is returned by a second handshake on the same system
	ErrMapFrozen = errors.New("local map already computed")

	// ErrNoGraph is returned when the system is used before the handshake
	ErrNoGraph = errors.New("graph handshake not done")

	// ErrRemoteSolve is returned by workers when the master reports a failed solution
	ErrRemoteSolve = errors.New("master failed to solve")
)

// status codes sent by the master after each solution
const (
	statusOK     = 0
	statusFailed = -1
)

// LinSOE is the share of one process in a distributed system of equations.
//
//	Every process assembles its own contributions into Local. On solve, workers ship
//	Local to the master, which aggregates everything into Global, solves, and sends
//	X back. Workers keep the rows they own.
type LinSOE struct {
	Part   *dist.Participant // identity and channels
	Local  *soe.SOE          // contributions of this process; Factored means "A already shipped"
	Global *soe.SOE          // aggregated system; master only

	// handshake results
	raw      []int   // local => global list of this process
	localMap []int   // dense global => local index; graph.NotOwned if not owned
	raws     [][]int // master: raw list of each worker, in channel order
	tags     []int   // database tag on each channel
	size     int     // number of equations
	kl, ku   int     // half bandwidths of the global system
	frozen   bool    // the handshake succeeded once; survives Clean

	// master: last data received from workers
	shapes []soe.Layout // A rows of each worker, stored with the worker's pattern
	wB     [][]float64  // B rows of each worker
}

// New returns a new distributed system. solver is used by the master only
func New(part *dist.Participant, layout, solver string) (o *LinSOE, err error) {
	o = &LinSOE{Part: part}
	if o.Local, err = soe.New(fmt.Sprintf("dsoe.local[%d]", part.Rank), layout, ""); err != nil {
		return nil, err
	}
	if part.IsMaster() {
		if o.Global, err = soe.New("dsoe.global", layout, solver); err != nil {
			return nil, err
		}
	}
	return
}

// SetSolver replaces the solver of the master
func (o *LinSOE) SetSolver(s soe.Solver) {
	if o.Global != nil {
		o.Global.SetSolver(s)
	}
}

// SetGraph runs the one-time graph handshake: workers send their graphs, the master
// merges them and replies with the size of the system, workers reply with their
// local => global lists, and everybody computes its local map
func (o *LinSOE) SetGraph(ctx context.Context, g *graph.Graph) (err error) {
	if o.frozen {
		return fmt.Errorf("dsoe: rank %d: SetGraph: %w", o.Part.Rank, ErrMapFrozen)
	}
	if !o.Part.Complete() {
		return chk.Err("dsoe: rank %d: SetGraph: channels are not connected", o.Part.Rank)
	}
	_, span := tracing.StartSpan(ctx, "dsoe.handshake")
	span.WithInts(map[string]int{"rank": o.Part.Rank, "nverts": g.NumVerts()})
	defer func() {
		if err != nil {
			io.PfRed("dsoe: rank %d: handshake failed: %v\n", o.Part.Rank, err)
		}
		tracing.EndSpan(span, err)
	}()

	o.tags = make([]int, o.Part.NumChannels())
	for i := range o.tags {
		o.tags[i] = o.Part.Channel(i).NextDbTag()
	}
	o.raw = g.Tags()

	var merged *graph.Graph
	if o.Part.IsMaster() {
		var subs []*graph.Graph
		if merged, subs, err = o.getSubGraphs(g); err != nil {
			return
		}
		if err = o.sendSizeData(); err != nil {
			return
		}
		if err = o.allocWorkers(subs); err != nil {
			return
		}
	} else {
		if err = o.sendGraph(g); err != nil {
			return
		}
	}
	if err = o.calcLocalMap(); err != nil {
		return
	}

	// storage
	rows := append([]int{}, o.raw...)
	sort.Ints(rows)
	p, err := soe.NewPattern(o.size, o.kl, o.ku, rows, g)
	if err != nil {
		return
	}
	o.Local.SetSize(p)
	if o.Global != nil {
		if p, err = soe.NewPattern(o.size, o.kl, o.ku, nil, merged); err != nil {
			return
		}
		o.Global.SetSize(p)
	}
	span.WithInts(map[string]int{"size": o.size, "kl": o.kl, "ku": o.ku})
	return
}

// sendGraph ships the local graph to the master and waits for the size data
func (o *LinSOE) sendGraph(g *graph.Graph) (err error) {
	c, tag := o.Part.Master(), o.tags[0]
	sizes, verts, adj := g.Encode()
	if err = c.SendID(tag, sizes); err != nil {
		return
	}
	if err = c.SendID(tag, verts); err != nil {
		return
	}
	if err = c.SendID(tag, adj); err != nil {
		return
	}
	data := make([]int, 3)
	if err = c.RecvID(tag, data); err != nil {
		return
	}
	o.size, o.kl, o.ku = data[0], data[1], data[2]
	return c.SendID(tag, o.raw)
}

// getSubGraphs merges the local graph and then every worker's graph, in channel order
func (o *LinSOE) getSubGraphs(g *graph.Graph) (merged *graph.Graph, subs []*graph.Graph, err error) {
	m := graph.NewMerger()
	if err = m.Merge(g); err != nil {
		return
	}
	subs = make([]*graph.Graph, o.Part.NumChannels())
	for i := range subs {
		c, tag := o.Part.Channel(i), o.tags[i]
		sizes := make([]int, 2)
		if err = c.RecvID(tag, sizes); err != nil {
			return
		}
		verts := make([]int, 2*sizes[0])
		adj := make([]int, sizes[1])
		if err = c.RecvID(tag, verts); err != nil {
			return
		}
		if err = c.RecvID(tag, adj); err != nil {
			return
		}
		if subs[i], err = graph.Decode(verts, adj); err != nil {
			return
		}
		if err = m.Merge(subs[i]); err != nil {
			return
		}
	}
	if merged, err = m.Graph(); err != nil {
		return
	}
	o.size = m.Size()
	o.kl, o.ku = merged.Bandwidth()
	if io.Verbose {
		io.Pforan("dsoe: merged %v vertices into a system of size %d (kl=%d, ku=%d)\n", m.Counts, o.size, o.kl, o.ku)
	}
	return
}

// sendSizeData sends the size data to every worker and receives its raw list
func (o *LinSOE) sendSizeData() (err error) {
	o.raws = make([][]int, o.Part.NumChannels())
	data := []int{o.size, o.kl, o.ku}
	for i := range o.raws {
		c, tag := o.Part.Channel(i), o.tags[i]
		if err = c.SendID(tag, data); err != nil {
			return
		}
	}
	return
}

// allocWorkers receives the raw lists and allocates the buffers of each worker
func (o *LinSOE) allocWorkers(subs []*graph.Graph) (err error) {
	o.shapes = make([]soe.Layout, len(subs))
	o.wB = make([][]float64, len(subs))
	for i, sub := range subs {
		c, tag := o.Part.Channel(i), o.tags[i]
		o.raws[i] = make([]int, sub.NumVerts())
		if err = c.RecvID(tag, o.raws[i]); err != nil {
			return
		}
		rows := append([]int{}, o.raws[i]...)
		sort.Ints(rows)
		p, err := soe.NewPattern(o.size, o.kl, o.ku, rows, sub)
		if err != nil {
			return err
		}
		if o.shapes[i], err = soe.NewLayout(o.Local.A.Name()); err != nil {
			return err
		}
		o.shapes[i].Alloc(p)
		o.wB[i] = make([]float64, p.NumRows())
	}
	return
}

// calcLocalMap computes the dense global => local map of this process
func (o *LinSOE) calcLocalMap() (err error) {
	if o.localMap, err = graph.CalcLocalMap(o.raw, o.size); err == nil {
		o.frozen = true
	}
	return
}

// LocalMap returns a copy of the dense global => local map; graph.NotOwned marks
// other ids
func (o *LinSOE) LocalMap() []int {
	if o.localMap == nil {
		return nil
	}
	return utl.IntCopy(o.localMap)
}

// RawMap returns a copy of the local => global list of worker channel idx (master) or of this
// process (idx < 0)
func (o *LinSOE) RawMap(idx int) []int {
	if idx < 0 {
		return utl.IntCopy(o.raw)
	}
	if idx < len(o.raws) {
		return utl.IntCopy(o.raws[idx])
	}
	return nil
}

// Size returns the number of equations of the whole system
func (o *LinSOE) Size() int {
	return o.size
}

// Owns tells whether this process owns global id eq
func (o *LinSOE) Owns(eq int) bool {
	return eq >= 0 && eq < len(o.localMap) && o.localMap[eq] != graph.NotOwned
}

// AddA adds fact⋅m to the rows and columns eqs
func (o *LinSOE) AddA(m [][]float64, eqs []int, fact float64) (err error) {
	if fact == 0 {
		return
	}
	if o.localMap == nil {
		return fmt.Errorf("dsoe: rank %d: AddA: %w", o.Part.Rank, ErrNoGraph)
	}
	return o.Local.AddA(m, eqs, fact)
}

// AddB adds fact⋅v to the rows eqs
func (o *LinSOE) AddB(v []float64, eqs []int, fact float64) (err error) {
	if fact == 0 {
		return
	}
	if o.localMap == nil {
		return fmt.Errorf("dsoe: rank %d: AddB: %w", o.Part.Rank, ErrNoGraph)
	}
	return o.Local.AddB(v, eqs, fact)
}

// SetB replaces the contribution of this process to B by fact⋅v; v is indexed by
// global id
func (o *LinSOE) SetB(v []float64, fact float64) (err error) {
	if fact == 0 {
		return
	}
	if o.localMap == nil {
		return fmt.Errorf("dsoe: rank %d: SetB: %w", o.Part.Rank, ErrNoGraph)
	}
	return o.Local.SetB(v, fact)
}

// Contribute adds an element contribution: fact⋅m to A and fact⋅v to B. Either
// m or v may be nil
func (o *LinSOE) Contribute(m [][]float64, v []float64, eqs []int, fact float64) (err error) {
	if m != nil {
		err = o.AddA(m, eqs, fact)
	}
	if v != nil {
		if e := o.AddB(v, eqs, fact); err == nil {
			err = e
		}
	}
	return
}

// ZeroA zeroes the coefficients of this process
func (o *LinSOE) ZeroA() {
	o.Local.ZeroA()
}

// ZeroB zeroes the right-hand side of this process
func (o *LinSOE) ZeroB() {
	o.Local.ZeroB()
}

// Factored tells whether the coefficients of this process are unchanged since the
// last successful solution
func (o *LinSOE) Factored() bool {
	return o.Local.Factored
}

// GetX returns the solution for global id eq. Workers only know the ids they own
func (o *LinSOE) GetX(eq int) (x float64, err error) {
	if o.Global != nil {
		return o.Global.GetX(eq)
	}
	if !o.Owns(eq) {
		return 0, fmt.Errorf("dsoe: rank %d: GetX: equation %d is not owned: %w", o.Part.Rank, eq, soe.ErrOutOfRange)
	}
	return o.Local.GetX(eq)
}

// Clean releases storage, maps and the solver; channels belong to Part. A cleaned
// system cannot run the handshake again
func (o *LinSOE) Clean() {
	o.Local.Clean()
	if o.Global != nil {
		o.Global.Clean()
	}
	o.raw, o.localMap, o.raws, o.shapes, o.wB = nil, nil, nil, nil, nil
}
