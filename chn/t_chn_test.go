// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chn

import (
	"errors"
	"net"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// exchange runs a short conversation between a and b
func exchange(tst *testing.T, a, b Channel) {

	done := make(chan error, 1)
	go func() {
		ints := make([]int, 3)
		if err := b.RecvInts(ints); err != nil {
			done <- err
			return
		}
		vals := make([]float64, 2)
		if err := b.RecvDoubles(vals); err != nil {
			done <- err
			return
		}
		if err := b.SendDoubles([]float64{vals[0] + vals[1], float64(ints[0] + ints[1] + ints[2])}); err != nil {
			done <- err
			return
		}
		done <- b.SendInts([]int{})
	}()

	if err := a.SendInts([]int{1, -2, 3}); err != nil {
		tst.Fatalf("SendInts failed:\n%v", err)
	}
	if err := a.SendDoubles([]float64{0.5, 1.25}); err != nil {
		tst.Fatalf("SendDoubles failed:\n%v", err)
	}
	res := make([]float64, 2)
	if err := a.RecvDoubles(res); err != nil {
		tst.Fatalf("RecvDoubles failed:\n%v", err)
	}
	if err := a.RecvInts([]int{}); err != nil {
		tst.Fatalf("RecvInts (empty) failed:\n%v", err)
	}
	if err := <-done; err != nil {
		tst.Fatalf("peer failed:\n%v", err)
	}
	chk.Array(tst, "res", 1e-15, res, []float64{1.75, 2})
}

func Test_pipe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pipe01. round trip")

	a, b := Pipe()
	defer a.Close()
	defer b.Close()
	exchange(tst, a, b)
}

func Test_pipe02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pipe02. size and kind mismatches")

	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		a.SendInts([]int{1, 2, 3})
		a.SendDoubles([]float64{1})
		a.SendInts([]int{7})
	}()

	err := b.RecvInts(make([]int, 2))
	if !errors.Is(err, ErrSizeMismatch) {
		tst.Errorf("expected size mismatch. got %v", err)
	}
	err = b.RecvInts(make([]int, 1))
	if !errors.Is(err, ErrKindMismatch) {
		tst.Errorf("expected kind mismatch. got %v", err)
	}

	// stream stays aligned after the mismatches
	v := make([]int, 1)
	if err = b.RecvInts(v); err != nil {
		tst.Errorf("RecvInts failed:\n%v", err)
		return
	}
	chk.Int(tst, "v", v[0], 7)
}

func Test_pipe03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pipe03. closed peer")

	a, b := Pipe()
	a.Close()
	err := b.RecvInts(make([]int, 1))
	if !IsClosed(err) {
		tst.Errorf("expected closed link. got %v", err)
	}
	b.Close()
}

func Test_tcp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tcp01. listener and dialer")

	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	defer ln.Close()

	accepted := make(chan Channel, 1)
	go func() {
		ch, err := ln.Accept()
		if err != nil {
			accepted <- nil
			return
		}
		accepted <- ch
	}()

	a, err := Dial(ln.Addr())
	if err != nil {
		tst.Fatalf("%v", err)
	}
	defer a.Close()
	b := <-accepted
	if b == nil {
		tst.Fatalf("accept failed")
	}
	defer b.Close()
	exchange(tst, a, b)
}

func Test_ws01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ws01. websocket listener and dialer")

	ln, err := ListenWebSocket("127.0.0.1:0")
	if err != nil {
		tst.Fatalf("%v", err)
	}
	defer ln.Close()

	a, err := DialWebSocket(ln.URL())
	if err != nil {
		tst.Fatalf("%v", err)
	}
	b, err := ln.Accept()
	if err != nil {
		tst.Fatalf("%v", err)
	}
	exchange(tst, a, b)

	// normal closure is seen as a closed link
	a.Close()
	err = b.RecvInts(make([]int, 1))
	if !IsClosed(err) {
		tst.Errorf("expected closed link. got %v", err)
	}
	b.Close()
}

func Test_mpi01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mpi01. availability")

	if MpiOn() {
		tst.Skip("MPI is running")
	}
	chk.Int(tst, "rank", MpiRank(), 0)
	chk.Int(tst, "size", MpiSize(), 1)
}

func Test_pipe04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pipe04. forged header")

	c1, c2 := net.Pipe()
	b := NewStream(c2)
	defer b.Close()

	// header announcing 2^32-1 doubles followed by a closed link
	go func() {
		hdr := make([]byte, headerLen)
		putHeader(hdr, KindDoubles, 0xFFFFFFFF)
		c1.Write(hdr)
		c1.Close()
	}()

	err := b.RecvDoubles(make([]float64, 1))
	if err == nil {
		tst.Errorf("forged header must fail")
		return
	}
	if !IsClosed(err) {
		tst.Errorf("expected closed link. got %v", err)
	}
}
