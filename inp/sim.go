// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc" yaml:"desc"`       // description of simulation
	DirOut  string `json:"dirout" yaml:"dirout"`   // directory for output; e.g. /tmp/soe
	Verbose bool   `json:"verbose" yaml:"verbose"` // show messages
	Trace   string `json:"trace" yaml:"trace"`     // file to write spans to; empty means no tracing
}

// NetData holds data about the processes taking part in the analysis
type NetData struct {
	Transport string `json:"transport" yaml:"transport"` // "pipe", "tcp", "ws" or "mpi"
	Rank      int    `json:"rank" yaml:"rank"`           // rank of this process; 0 is the master. ignored with mpi
	Nproc     int    `json:"nproc" yaml:"nproc"`         // number of processes. ignored with mpi
	Master    string `json:"master" yaml:"master"`       // address where the master waits for workers
	Actor     string `json:"actor" yaml:"actor"`         // address where the master waits for actors
	Nactors   int    `json:"nactors" yaml:"nactors"`     // number of actor processes solving for the master; 0 means none
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Layout string `json:"layout" yaml:"layout"` // storage layout: "band", "diag" or "sparse"
	Name   string `json:"name" yaml:"name"`     // solver: "lu", "diag", "sparse" or "umfpack"
}

// ModelData holds data of a chain of rods along x, fixed at x=0 by a spring and
// loaded at the free end
type ModelData struct {
	Nelems int     `json:"nelems" yaml:"nelems"` // number of rods
	E      float64 `json:"E" yaml:"E"`           // Young's modulus
	A      float64 `json:"A" yaml:"A"`           // cross-sectional area
	L      float64 `json:"L" yaml:"L"`           // length of each rod
	Ks     float64 `json:"ks" yaml:"ks"`         // stiffness of the support spring
	P      float64 `json:"P" yaml:"P"`           // tip load
	Nsteps int     `json:"nsteps" yaml:"nsteps"` // number of load steps
	Load   string  `json:"load" yaml:"load"`     // name of load function of the step number; empty means constant
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data       `json:"data" yaml:"data"`           // global simulation data
	Net       NetData    `json:"net" yaml:"net"`             // processes
	LinSol    LinSolData `json:"linsol" yaml:"linsol"`       // linear solver data
	Model     ModelData  `json:"model" yaml:"model"`         // structural model
	Functions FuncsData  `json:"functions" yaml:"functions"` // load functions

	// derived
	Key    string // simulation key; e.g. mysim01.sim => mysim01
	DirOut string // directory to save results
}

// ReadSim reads all simulation data from a .sim or .json (JSON) or .yaml/.yml file
func ReadSim(simfilepath string) (o *Simulation, err error) {
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(simfilepath)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	if o, err = ParseSim(b, format); err != nil {
		return nil, chk.Err("ReadSim: %q:\n%v", simfilepath, err)
	}
	o.Key = io.FnKey(filepath.Base(simfilepath))
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/soe/" + o.Key
	}
	return
}

// ParseSim decodes simulation data in the given format ("json" or "yaml")
func ParseSim(b []byte, format string) (o *Simulation, err error) {
	o = new(Simulation)
	o.SetDefault()
	switch format {
	case "json":
		err = json.Unmarshal(b, o)
	case "yaml":
		err = yaml.Unmarshal(b, o)
	default:
		return nil, chk.Err("unknown format %q", format)
	}
	if err != nil {
		return nil, chk.Err("cannot unmarshal simulation data:\n%v", err)
	}
	if err = o.PostProcess(); err != nil {
		return nil, err
	}
	o.Key = "sim"
	o.DirOut = o.Data.DirOut
	return
}

// SetDefault sets defaults values
func (o *Simulation) SetDefault() {
	o.Net.Transport = "pipe"
	o.Net.Nproc = 1
	o.Net.Master = "127.0.0.1:7701"
	o.Net.Actor = "127.0.0.1:7702"
	o.LinSol.Layout = "band"
	o.LinSol.Name = "lu"
	o.Model.Nelems = 10
	o.Model.E = 1
	o.Model.A = 1
	o.Model.L = 1
	o.Model.Ks = 1
	o.Model.P = 1
	o.Model.Nsteps = 1
}

// PostProcess checks the data just read
func (o *Simulation) PostProcess() (err error) {
	if utl.StrIndexSmall([]string{"pipe", "tcp", "ws", "mpi"}, o.Net.Transport) < 0 {
		return chk.Err("net: unknown transport %q", o.Net.Transport)
	}
	if o.Net.Nproc < 1 || o.Net.Rank < 0 || o.Net.Rank >= o.Net.Nproc {
		return chk.Err("net: invalid rank=%d for nproc=%d", o.Net.Rank, o.Net.Nproc)
	}
	if o.Net.Nactors < 0 {
		return chk.Err("net: invalid number of actors %d", o.Net.Nactors)
	}
	if utl.StrIndexSmall([]string{"band", "diag", "sparse"}, o.LinSol.Layout) < 0 {
		return chk.Err("linsol: unknown layout %q", o.LinSol.Layout)
	}
	if o.Model.Nelems < o.Net.Nproc {
		return chk.Err("model: %d elements cannot be shared by %d processes", o.Model.Nelems, o.Net.Nproc)
	}
	if o.Model.E <= 0 || o.Model.A <= 0 || o.Model.L <= 0 || o.Model.Ks <= 0 {
		return chk.Err("model: E, A, L and ks must be positive")
	}
	if o.Model.Nsteps < 1 {
		return chk.Err("model: nsteps must be at least 1")
	}
	if o.Model.Load != "" {
		if _, err = o.Functions.Get(o.Model.Load); err != nil {
			return
		}
	}
	return
}
