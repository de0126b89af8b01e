// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xcfem/xc-sub024/actor"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/dist"
	"github.com/xcfem/xc-sub024/inp"
)

// RunLocal runs every partition of sim in its own goroutine, linked by pipes, plus
// sim.Net.Nactors actors solving for the master. When a process fails, its channels
// are closed so that the others stop too. Mains are returned cleaned, with results
func RunLocal(ctx context.Context, sim *inp.Simulation, verbose bool) (mains []*Main, err error) {

	// processes
	nproc := sim.Net.Nproc
	parts := make([]*dist.Participant, nproc)
	for r := range parts {
		if parts[r], err = dist.NewParticipant(r, nproc); err != nil {
			return
		}
	}
	for r := 1; r < nproc; r++ {
		a, b := chn.Pipe()
		if err = parts[0].Register(r, comm.New(a, r)); err != nil {
			return
		}
		if err = parts[r].Register(0, comm.New(b, 0)); err != nil {
			return
		}
	}
	mains = make([]*Main, nproc)
	for r := range mains {
		if mains[r], err = NewMain(sim, parts[r], verbose); err != nil {
			for _, p := range parts {
				p.Clean()
			}
			return nil, err
		}
	}

	// actors
	shadows, actors := startActors(sim.Net.Nactors, sim.LinSol.Name, verbose)
	if err = mains[0].SetActors(shadows); err != nil {
		stopActors(shadows, actors)
		for _, m := range mains {
			m.Part.Clean()
		}
		return nil, err
	}

	// run; the master's Clean closes the shadows and so stops the actors
	var wg sync.WaitGroup
	errs := make([]error, nproc)
	for r := range mains {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			errs[r] = mains[r].Run(ctx)
			mains[r].Clean()
			if errs[r] != nil {
				errs[r] = fmt.Errorf("rank %d: %w", r, errs[r])
			}
		}(r)
	}
	wg.Wait()
	actors.Wait()
	return mains, errors.Join(errs...)
}

// startActors runs n in-process actors. Each one serves its shadow until the
// shadow's context is closed
func startActors(n int, solver string, verbose bool) (shadows []*actor.Shadow, wg *sync.WaitGroup) {
	wg = new(sync.WaitGroup)
	shadows = make([]*actor.Shadow, n)
	for i := range shadows {
		a, b := chn.Pipe()
		shadows[i] = actor.NewShadow(comm.New(a, i))
		wg.Add(1)
		go func(c *comm.Context) {
			defer wg.Done()
			defer c.Close()
			act := actor.New(c, solver)
			act.Verbose = verbose
			act.Run()
		}(comm.New(b, 0))
	}
	return
}

// stopActors closes the shadows and waits for the actors to return
func stopActors(shadows []*actor.Shadow, wg *sync.WaitGroup) {
	for _, s := range shadows {
		s.Context().Close()
	}
	wg.Wait()
}
