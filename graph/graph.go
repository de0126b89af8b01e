// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package graph implements the graph of equations used to size and partition systems
// of equations
package graph

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Vertex is one equation; Tag is its global id and Adj holds the ids of the
// equations coupled to it (sorted, without Tag itself)
type Vertex struct {
	Tag int
	Adj []int
}

// Graph holds vertices in insertion order
type Graph struct {
	verts []*Vertex
	index map[int]int // tag => position in verts
}

// New returns an empty graph
func New() *Graph {
	return &Graph{index: make(map[int]int)}
}

// AddVertex adds a vertex with the given tag if it does not exist yet
func (o *Graph) AddVertex(tag int) (v *Vertex, err error) {
	if tag < 0 {
		return nil, chk.Err("graph: negative vertex tag %d", tag)
	}
	if idx, ok := o.index[tag]; ok {
		return o.verts[idx], nil
	}
	v = &Vertex{Tag: tag}
	o.index[tag] = len(o.verts)
	o.verts = append(o.verts, v)
	return
}

// AddEdge couples a and b in both directions, adding missing vertices
func (o *Graph) AddEdge(a, b int) (err error) {
	va, err := o.AddVertex(a)
	if err != nil {
		return
	}
	vb, err := o.AddVertex(b)
	if err != nil {
		return
	}
	if a == b {
		return
	}
	va.Adj = insert(va.Adj, b)
	vb.Adj = insert(vb.Adj, a)
	return
}

// AddClique couples every pair of eqs; e.g. the equations of one element
func (o *Graph) AddClique(eqs []int) (err error) {
	for i, a := range eqs {
		if _, err = o.AddVertex(a); err != nil {
			return
		}
		for _, b := range eqs[i+1:] {
			if err = o.AddEdge(a, b); err != nil {
				return
			}
		}
	}
	return
}

// Vertex returns the vertex with the given tag or nil
func (o *Graph) Vertex(tag int) *Vertex {
	if idx, ok := o.index[tag]; ok {
		return o.verts[idx]
	}
	return nil
}

// Vertices returns the vertices in insertion order
func (o *Graph) Vertices() []*Vertex {
	return o.verts
}

// NumVerts returns the number of vertices
func (o *Graph) NumVerts() int {
	return len(o.verts)
}

// NumAdj returns the total number of adjacency entries
func (o *Graph) NumAdj() (nadj int) {
	for _, v := range o.verts {
		nadj += len(v.Adj)
	}
	return
}

// Tags returns the vertex tags in insertion order; i.e. the local => global list
func (o *Graph) Tags() (tags []int) {
	tags = make([]int, len(o.verts))
	for i, v := range o.verts {
		tags[i] = v.Tag
	}
	return
}

// MaxTag returns the largest tag or -1 if the graph is empty
func (o *Graph) MaxTag() (max int) {
	max = -1
	for _, v := range o.verts {
		max = utl.Imax(max, v.Tag)
	}
	return
}

// Bandwidth returns the lower and upper half bandwidths of the matrix with the
// sparsity of this graph
func (o *Graph) Bandwidth() (kl, ku int) {
	for _, v := range o.verts {
		for _, j := range v.Adj {
			if j < v.Tag {
				kl = utl.Imax(kl, v.Tag-j)
			} else {
				ku = utl.Imax(ku, j-v.Tag)
			}
		}
	}
	return
}

// Encode returns the wire form of the graph:
//
//	sizes = {nverts, nadj}
//	verts = {tag0, deg0, tag1, deg1, ...}
//	adj   = concatenated adjacency lists
func (o *Graph) Encode() (sizes, verts, adj []int) {
	sizes = []int{o.NumVerts(), o.NumAdj()}
	verts = make([]int, 0, 2*sizes[0])
	adj = make([]int, 0, sizes[1])
	for _, v := range o.verts {
		verts = append(verts, v.Tag, len(v.Adj))
		adj = append(adj, v.Adj...)
	}
	return
}

// Decode builds a graph from its wire form
func Decode(verts, adj []int) (o *Graph, err error) {
	if len(verts)%2 != 0 {
		return nil, chk.Err("graph: vertex block must hold pairs; got %d entries", len(verts))
	}
	o = New()
	pos := 0
	for i := 0; i < len(verts); i += 2 {
		tag, deg := verts[i], verts[i+1]
		if deg < 0 || pos+deg > len(adj) {
			return nil, chk.Err("graph: vertex %d declares %d neighbours but only %d remain", tag, deg, len(adj)-pos)
		}
		v, err := o.AddVertex(tag)
		if err != nil {
			return nil, err
		}
		for _, b := range adj[pos : pos+deg] {
			if b < 0 {
				return nil, chk.Err("graph: vertex %d has negative neighbour %d", tag, b)
			}
			if b != tag {
				v.Adj = insert(v.Adj, b)
			}
		}
		pos += deg
	}
	if pos != len(adj) {
		return nil, chk.Err("graph: %d adjacency entries left over", len(adj)-pos)
	}
	return
}

// insert adds x to the sorted list s if missing
func insert(s []int, x int) []int {
	i := sort.SearchInts(s, x)
	if i < len(s) && s[i] == x {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = x
	return s
}
