// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soe

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Layout is a storage strategy for the coefficients of a system of equations.
// All indices are global equation ids
type Layout interface {
	Name() string                      // registry name
	Code() int                         // wire code
	Alloc(p *Pattern)                  // allocates storage for pattern p; all zero
	Pattern() *Pattern                 // pattern given to Alloc
	Zero()                             // zeroes all coefficients
	Add(i, j int, v float64) (ok bool) // adds v to A[i][j]; false if (i,j) is not storable
	Get(i, j int) float64              // returns A[i][j]; 0 if not stored
	Values() []float64                 // packed storage; sending it is sending A
	Each(fn func(i, j int, v float64)) // visits every stored entry
}

// layout codes on the wire
const (
	CodeBand   = 0
	CodeDiag   = 1
	CodeSparse = 2
)

// layouts holds all available storage layouts
var layouts = make(map[string]func() Layout)

// layoutNames maps wire codes to registry names
var layoutNames = make(map[int]string)

// register adds a layout to the registry
func register(name string, code int, alloc func() Layout) {
	if _, ok := layouts[name]; ok {
		chk.Panic("soe: layout %q is already registered", name)
	}
	layouts[name] = alloc
	layoutNames[code] = name
}

// NewLayout returns a new empty layout
func NewLayout(name string) (l Layout, err error) {
	alloc, ok := layouts[name]
	if !ok {
		return nil, chk.Err("soe: cannot find layout named %q; available: %v", name, LayoutNames())
	}
	return alloc(), nil
}

// NewLayoutCode returns a new empty layout given its wire code
func NewLayoutCode(code int) (l Layout, err error) {
	name, ok := layoutNames[code]
	if !ok {
		return nil, chk.Err("soe: unknown layout code %d", code)
	}
	return NewLayout(name)
}

// LayoutNames returns the registered layout names
func LayoutNames() (names []string) {
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// AddLayout adds fact times every entry of src to dst and returns the number of
// entries dst could not store
func AddLayout(dst, src Layout, fact float64) (rejected int) {
	src.Each(func(i, j int, v float64) {
		if v == 0 {
			return
		}
		if !dst.Add(i, j, fact*v) {
			rejected++
		}
	})
	return
}

// zero fills v with zeroes
func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
