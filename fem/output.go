// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xcfem/xc-sub024/ele"
)

// Step holds the results of one load step
type Step struct {
	T float64   `json:"t"` // step
	U []float64 `json:"u"` // displacements at Results.Nodes
	F []float64 `json:"f"` // internal forces of Results.Elems
}

// Results holds the solution at the nodes of one process
type Results struct {
	RunId string  `json:"runid"` // run id
	Proc  int     `json:"proc"`  // processor number
	Nodes []int   `json:"nodes"` // nodes of this processor
	Elems []int   `json:"elems"` // ids of elements with internal forces
	Steps []*Step `json:"steps"` // all steps
}

// Add appends the results of step t reading the solution with x
func (o *Results) Add(t float64, x func(eq int) (float64, error), dom *Domain) (err error) {
	stp := &Step{T: t}
	if stp.U, err = ele.Gather(x, o.Nodes); err != nil {
		return
	}
	setElems := len(o.Elems) == 0
	for _, e := range dom.Forces {
		u, err := ele.Gather(x, e.Eqs())
		if err != nil {
			return err
		}
		stp.F = append(stp.F, e.(ele.WithForce).Force(u))
		if setElems {
			o.Elems = append(o.Elems, e.Id())
		}
	}
	o.Steps = append(o.Steps, stp)
	return
}

// Last returns the results of the last step or nil
func (o *Results) Last() *Step {
	if len(o.Steps) == 0 {
		return nil
	}
	return o.Steps[len(o.Steps)-1]
}

// Save writes the results to dirout/key_p<proc>.json
func (o *Results) Save(dirout, key string) (err error) {
	if err = os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create directory for results:\n%v", err)
	}
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode results:\n%v", err)
	}
	fn := filepath.Join(dirout, io.Sf("%s_p%d.json", key, o.Proc))
	if err = os.WriteFile(fn, b, 0644); err != nil {
		return chk.Err("cannot write results:\n%v", err)
	}
	if io.Verbose {
		io.Pf("file <%s> written\n", fn)
	}
	return
}

// ReadResults reads results written by Save
func ReadResults(dirout, key string, proc int) (o *Results, err error) {
	b, err := os.ReadFile(filepath.Join(dirout, io.Sf("%s_p%d.json", key, proc)))
	if err != nil {
		return
	}
	o = new(Results)
	err = json.Unmarshal(b, o)
	return
}
