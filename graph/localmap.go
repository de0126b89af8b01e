// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/cpmech/gosl/chk"

// NotOwned marks global ids absent from a local map
const NotOwned = -1

// CalcLocalMap inverts the local => global list raw into a dense global => local
// array of length size. Ids not in raw hold NotOwned
func CalcLocalMap(raw []int, size int) (dense []int, err error) {
	dense = make([]int, size)
	for i := range dense {
		dense[i] = NotOwned
	}
	for loc, glob := range raw {
		if glob < 0 || glob >= size {
			return nil, chk.Err("graph: local %d maps to global %d outside [0,%d)", loc, glob, size)
		}
		if dense[glob] != NotOwned {
			return nil, chk.Err("graph: global %d appears twice in local map (locals %d and %d)", glob, dense[glob], loc)
		}
		dense[glob] = loc
	}
	return
}
