// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// AllocatorType defines a function that allocates an element
//
//	Input:
//	 id   -- element id
//	 x    -- coordinates of nodes
//	 prms -- parameters; e.g. E, A, ks
type AllocatorType func(id int, x []float64, prms dbf.Params) (Element, error)

// allocators holds all available elements
var allocators = make(map[string]AllocatorType)

// New returns a new element from from factory
func New(kind string, id int, x []float64, prms dbf.Params) (ele Element, err error) {
	fcn, ok := allocators[kind]
	if !ok {
		err = chk.Err("cannot get allocator for element {type=%q, id=%d}", kind, id)
		return
	}
	ele, err = fcn(id, x, prms)
	if err != nil {
		err = chk.Err("cannot allocate element {type=%q, id=%d}:\n%v", kind, id, err)
	}
	return
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(elementName string, fcn AllocatorType) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("cannot set allocator function for %q because element name exists already", elementName)
	}
	allocators[elementName] = fcn
}

// GetAllocator gets callback function that allocates an element
func GetAllocator(elementName string) AllocatorType {
	if fcn, ok := allocators[elementName]; ok {
		return fcn
	}
	chk.Panic("cannot get allocator function for element %q", elementName)
	return nil
}

// Names returns the names of all elements in the factory
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
