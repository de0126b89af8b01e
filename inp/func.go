// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// FuncData holds function definition
type FuncData struct {
	Name string     `json:"name" yaml:"name"` // name of function. ex: load, ramp1, etc.
	Type string     `json:"type" yaml:"type"` // type of function. ex: cte, rmp, lin
	Prms dbf.Params `json:"prms" yaml:"prms"` // parameters
}

// FuncsData holds functions
type FuncsData []*FuncData

// Get returns function by name. "" and "one" give the constant 1
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "" || name == "one" {
		return NewFunc("cte", dbf.Params{&dbf.P{N: "c", V: 1}})
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = NewFunc(f.Type, f.Prms)
			if err != nil {
				err = chk.Err("cannot get function named %q because of the following error:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q", name)
	return
}

// NewFunc allocates a dbf function. dbf.New panics on unknown types or
// missing parameters; the panic is returned as an error instead
func NewFunc(kind string, prms dbf.Params) (fcn dbf.T, err error) {
	defer func() {
		if r := recover(); r != nil {
			fcn, err = nil, chk.Err("function %q: %v", kind, r)
		}
	}()
	fcn = dbf.New(kind, prms)
	if fcn == nil {
		err = chk.Err("function %q is not available", kind)
	}
	return
}

// String prints one function
func (o FuncData) String() string {
	l := io.Sf("{name:%q, type:%q, prms:[", o.Name, o.Type)
	for i, p := range o.Prms {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%s=%g", p.N, p.V)
	}
	return l + "]}"
}
