// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actor

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub024/chn"
	"github.com/xcfem/xc-sub024/comm"
	"github.com/xcfem/xc-sub024/soe"
)

type result struct {
	status int
	err    error
}

// start runs an actor in a goroutine and returns its shadow
func start(solver string) (act *Actor, sh *Shadow, done chan result) {
	a, b := chn.Pipe()
	act = New(comm.New(b, 0), solver)
	sh = NewShadow(comm.New(a, 1))
	done = make(chan result, 1)
	go func() {
		status, err := act.Run()
		done <- result{status, err}
	}()
	return
}

// tridiag assembles [[2,-1,0],[-1,2,-1],[0,-1,2]] ⋅ x = [1,0,1] into o
func tridiag(o *soe.SOE) {
	ke := [][]float64{{1, -1}, {-1, 1}}
	o.AddA(ke, []int{0, 1}, 1)
	o.AddA(ke, []int{1, 2}, 1)
	o.AddA([][]float64{{1}}, []int{0}, 1)
	o.AddA([][]float64{{1}}, []int{2}, 1)
	o.AddB([]float64{1, 1}, []int{0, 2}, 1)
}

func master(tst *testing.T, layout string) (sys *soe.SOE) {
	p, err := soe.NewPatternAdj(3, 1, 1, nil, [][]int{{0, 1}, {0, 1, 2}, {1, 2}})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	if sys, err = soe.New("master", layout, ""); err != nil {
		tst.Fatalf("%v", err)
	}
	sys.SetSize(p)
	tridiag(sys)
	return
}

func Test_actor01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("actor01. zeroA and zeroB")

	act, sh, done := start("lu")
	sys := master(tst, "band")
	if err := sh.Resize(sys.Pattern(), soe.CodeBand, 0, 3); err != nil {
		tst.Fatalf("%v", err)
	}
	status, err := sh.Solve(false, sys.A.Values(), sys.B)
	if err != nil || status != StatusOK {
		tst.Fatalf("solve failed: status=%d err=%v", status, err)
	}
	x := make([]float64, 3)
	if err = sh.Fetch(x); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "x", 1e-14, x, []float64{1, 1, 1})

	// zeroA leaves B and X
	sh.ZeroA()
	sh.Barrier()
	chk.Array(tst, "A", 0, act.Sys.A.Values(), make([]float64, 9))
	chk.Array(tst, "B", 0, act.Sys.B, []float64{1, 0, 1})
	chk.Array(tst, "X", 1e-14, act.Sys.X, []float64{1, 1, 1})
	if act.Sys.Factored {
		tst.Errorf("zeroA must reset factored flag")
	}

	// zeroB leaves A and X
	status, _ = sh.Solve(false, sys.A.Values(), sys.B)
	chk.Int(tst, "status", status, StatusOK)
	sh.ZeroB()
	sh.Send(ActionReserved, 7, 8)
	sh.Barrier()
	chk.Array(tst, "A", 0, act.Sys.A.Values(), sys.A.Values())
	chk.Array(tst, "B", 0, act.Sys.B, []float64{0, 0, 0})
	chk.Array(tst, "X", 1e-14, act.Sys.X, []float64{1, 1, 1})

	// closing the channel ends the loop
	sh.Context().Close()
	res := <-done
	chk.Int(tst, "status", res.status, StatusOK)
	if res.err != nil {
		tst.Errorf("unexpected error: %v", res.err)
	}
}

func Test_actor02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("actor02. factored solve sends no coefficients")

	for _, layout := range []string{"band", "sparse"} {
		_, sh1, done1 := start("lu")
		_, sh2, done2 := start("sparse")
		sys := master(tst, layout)
		sys.SetSolver(NewRemoteSolver(sh1, sh2))
		if err := sys.Solve(); err != nil {
			tst.Fatalf("%v", err)
		}
		chk.Array(tst, layout, 1e-14, sys.X, []float64{1, 1, 1})
		chk.Int(tst, "low", sh2.Low, 1)
		chk.Int(tst, "high", sh2.High, 3)

		// already factored: header and B only, one round trip for the status
		before := sh1.Context().Stats
		sys.ZeroB()
		sys.AddB([]float64{2, 2}, []int{0, 2}, 1)
		if err := sys.Solve(); err != nil {
			tst.Fatalf("%v", err)
		}
		after := sh1.Context().Stats
		chk.Int(tst, "doubles sent", after.DoublesSent-before.DoublesSent, 3)
		chk.Int(tst, "doubles received", after.DoublesRecv-before.DoublesRecv, 1)
		chk.Int(tst, "messages sent", after.MsgSent-before.MsgSent, 3)
		chk.Array(tst, layout, 1e-14, sys.X, []float64{2, 2, 2})

		// new coefficients are shipped again
		sys.AddA([][]float64{{1}}, []int{1}, 1)
		before = after
		if err := sys.Solve(); err != nil {
			tst.Fatalf("%v", err)
		}
		after = sh1.Context().Stats
		chk.Int(tst, "doubles sent", after.DoublesSent-before.DoublesSent, len(sys.A.Values())+3)

		sh1.Context().Close()
		sh2.Context().Close()
		<-done1
		<-done2
	}
}

func Test_actor03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("actor03. protocol violation and failures")

	_, sh, done := start("lu")
	if err := sh.Barrier(); err != nil {
		tst.Fatalf("%v", err)
	}

	// solve on a singular system reports a failure but keeps the loop alive
	p, _ := soe.NewPatternAdj(2, 1, 1, nil, nil)
	sh.Resize(p, soe.CodeBand, 0, 2)
	status, err := sh.Solve(false, make([]float64, 6), []float64{1, 1})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "status", status, StatusFailed)

	sh.Send(Action(42), 1, 2)
	res := <-done
	chk.Int(tst, "status", res.status, StatusFailed)
	if !errors.Is(res.err, ErrProtocol) {
		tst.Errorf("expected protocol violation. got %v", res.err)
	}
	if Action(42).Valid() || !ActionReserved.Valid() {
		tst.Errorf("Valid is wrong")
	}
	if ActionFetch.String() != "fetch" {
		tst.Errorf("wrong name %q", ActionFetch.String())
	}
}
