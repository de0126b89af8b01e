// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/fem"
	"github.com/xcfem/xc-sub024/inp"
	"github.com/xcfem/xc-sub024/tracing"
)

// flags
var (
	verbose bool
	trace   string
	metrics string
)

var rootCmd = &cobra.Command{
	Use:   "soe",
	Short: "Distributed assembly and solution of linear systems of equations",
	Long: `Assemble and solve the linear system of a chain of rods split among
processes linked by pipes, TCP, WebSockets or MPI.

The model, the processes and the solver are defined in a JSON (.sim, .json)
or YAML (.yaml, .yml) file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		io.Verbose = verbose
		if metrics != "" {
			go http.ListenAndServe(metrics, promhttp.Handler())
		}
		return
	},
}

var runCmd = &cobra.Command{
	Use:   "run <simfile>",
	Short: "Run one process of a distributed analysis",
	Long: `Run one process of a distributed analysis. The rank comes from net.rank
in the simulation file or from MPI when net.transport is "mpi". The master
(rank 0) also waits for net.nactors actors if requested.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sim, err := readSim(args[0])
		if err != nil {
			return
		}
		part, err := fem.Connect(sim)
		if err != nil {
			return
		}
		if err = startTracing(part.Rank); err != nil {
			return
		}
		defer stopTracing()
		analysis, err := fem.NewMain(sim, part, verbose)
		if err != nil {
			part.Clean()
			return
		}
		defer analysis.Clean()
		if part.IsMaster() {
			shadows, err := fem.ConnectActors(sim)
			if err != nil {
				return err
			}
			if err = analysis.SetActors(shadows); err != nil {
				return err
			}
		}
		return analysis.Run(context.Background())
	},
}

var actorCmd = &cobra.Command{
	Use:   "actor <simfile>",
	Short: "Run an actor solving the global system for the master",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sim, err := readSim(args[0])
		if err != nil {
			return
		}
		status, err := fem.RunActor(sim, verbose)
		if err != nil {
			return
		}
		if status != 0 {
			return chk.Err("actor finished with status %d", status)
		}
		return
	},
}

var localCmd = &cobra.Command{
	Use:   "local <simfile>",
	Short: "Run all processes of an analysis in this process, linked by pipes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sim, err := readSim(args[0])
		if err != nil {
			return
		}
		if err = startTracing(0); err != nil {
			return
		}
		defer stopTracing()
		mains, err := fem.RunLocal(context.Background(), sim, verbose)
		if err != nil {
			return
		}
		if verbose {
			for _, o := range mains {
				if stp := o.Results.Last(); stp != nil {
					io.Pf("rank %d: nodes %v: u = %v\n", o.Part.Rank, o.Results.Nodes, stp.U)
				}
			}
		}
		return
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages")
	rootCmd.PersistentFlags().StringVar(&trace, "trace", "", "write OpenTelemetry spans to this file")
	rootCmd.PersistentFlags().StringVar(&metrics, "metrics", "", "serve Prometheus metrics at this address; e.g. :9090")
	rootCmd.AddCommand(runCmd, actorCmd, localCmd)
}

func main() {

	// catch errors
	code := 0
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			code = 1
		}
		chn.MpiStop()
		os.Exit(code)
	}()
	chn.MpiStart()

	// run command
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		code = 1
	}
}

// readSim reads the simulation file and sets verbose mode
func readSim(fn string) (sim *inp.Simulation, err error) {
	if sim, err = inp.ReadSim(fn); err != nil {
		return
	}
	if sim.Data.Verbose {
		verbose = true
		io.Verbose = true
	}
	if trace == "" {
		trace = sim.Data.Trace
	}
	return
}

// startTracing installs the span exporter if --trace or data.trace is given
func startTracing(rank int) (err error) {
	if trace == "" {
		return
	}
	fn := trace
	if rank > 0 {
		fn = io.Sf("%s.%d", trace, rank)
	}
	return tracing.Init("soe", "1.0", fn)
}

// stopTracing flushes pending spans
func stopTracing() {
	if trace != "" {
		tracing.Shutdown(context.Background())
	}
}
