// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"sort"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/katalvlaran/lvlath/graph/core"
)

// Merger accumulates partition graphs into the global graph of the system
type Merger struct {
	Counts []int // number of vertices contributed by each merge, in merge order
	g      *core.Graph
	maxTag int
}

// NewMerger returns an empty merger
func NewMerger() *Merger {
	return &Merger{g: core.NewGraph(false, false), maxTag: -1}
}

// Merge adds the vertices and edges of sub. Shared vertices and edges are added once
func (o *Merger) Merge(sub *Graph) (err error) {
	for _, v := range sub.Vertices() {
		if v.Tag < 0 {
			return chk.Err("graph: merge: invalid vertex %d", v.Tag)
		}
		a := strconv.Itoa(v.Tag)
		o.g.AddVertex(&core.Vertex{ID: a, Metadata: map[string]interface{}{}})
		o.maxTag = utl.Imax(o.maxTag, v.Tag)
		for _, j := range v.Adj {
			if j < 0 {
				return chk.Err("graph: merge: invalid edge %d-%d", v.Tag, j)
			}
			b := strconv.Itoa(j)
			if j == v.Tag || o.g.HasEdge(a, b) {
				continue
			}
			o.g.AddEdge(a, b, 0)
			o.maxTag = utl.Imax(o.maxTag, j)
		}
	}
	o.Counts = append(o.Counts, sub.NumVerts())
	return
}

// Size returns the number of equations of the merged system
func (o *Merger) Size() int {
	return o.maxTag + 1
}

// NumVerts returns the number of distinct vertices merged so far
func (o *Merger) NumVerts() int {
	return len(o.g.Vertices())
}

// Graph returns the merged graph with vertices and adjacency sorted by tag
func (o *Merger) Graph() (g *Graph, err error) {
	verts := o.g.Vertices()
	tags := make([]int, len(verts))
	for i, v := range verts {
		if tags[i], err = strconv.Atoi(v.ID); err != nil {
			return nil, chk.Err("graph: invalid vertex id %q", v.ID)
		}
	}
	sort.Ints(tags)
	g = New()
	for _, tag := range tags {
		v, _ := g.AddVertex(tag)
		nbrs := o.g.Neighbors(strconv.Itoa(tag))
		v.Adj = make([]int, len(nbrs))
		for k, nb := range nbrs {
			v.Adj[k], _ = strconv.Atoi(nb.ID)
		}
		sort.Ints(v.Adj)
	}
	return
}
