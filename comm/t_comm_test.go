// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/xcfem/xc-sub024/chn"
)

func pair() (a, b *Context) {
	ca, cb := chn.Pipe()
	return New(ca, 1), New(cb, 0)
}

func Test_comm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comm01. all kinds")

	a, b := pair()
	defer a.Close()
	defer b.Close()

	go func() {
		a.SendInt(7, -3)
		a.SendDouble(7, 2.5)
		a.SendVector(8, []float64{1, 2, 3})
		a.SendMatrix(9, [][]float64{{1, 2}, {3, 4}, {5, 6}})
		a.SendID(10, []int{4, 5})
	}()

	i, err := b.RecvInt(7)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "i", i, -3)

	x, err := b.RecvDouble(7)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Float64(tst, "x", 1e-15, x, 2.5)

	v := make([]float64, 3)
	if err = b.RecvVector(8, v); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "v", 1e-15, v, []float64{1, 2, 3})

	m := [][]float64{make([]float64, 2), make([]float64, 2), make([]float64, 2)}
	if err = b.RecvMatrix(9, m); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "m[2]", 1e-15, m[2], []float64{5, 6})

	id := make([]int, 2)
	if err = b.RecvID(10, id); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Ints(tst, "id", id, []int{4, 5})

	chk.Int(tst, "msgRecv", b.Stats.MsgRecv, 5)
	chk.Int(tst, "intsRecv", b.Stats.IntsRecv, 3)
	chk.Int(tst, "doublesRecv", b.Stats.DoublesRecv, 1+3+6)
}

func Test_comm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comm02. slot mismatches")

	a, b := pair()
	defer a.Close()
	defer b.Close()

	go func() {
		a.SendID(1, []int{1, 2, 3})
		a.SendVector(2, []float64{1})
		a.SendInt(3, 9)
		a.SendInt(4, 11)
	}()

	// wrong size
	err := b.RecvID(1, make([]int, 2))
	if !errors.Is(err, ErrSlotMismatch) || !errors.Is(err, chn.ErrSizeMismatch) {
		tst.Errorf("expected slot and size mismatch. got %v", err)
	}

	// wrong kind
	err = b.RecvID(2, make([]int, 1))
	if !errors.Is(err, ErrSlotMismatch) {
		tst.Errorf("expected slot mismatch. got %v", err)
	}

	// wrong tag
	_, err = b.RecvInt(4)
	if !errors.Is(err, ErrSlotMismatch) {
		tst.Errorf("expected slot mismatch. got %v", err)
	}

	// still aligned
	val, err := b.RecvInt(4)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Int(tst, "val", val, 11)
}

func Test_comm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comm03. database tags")

	a, _ := pair()
	chk.Int(tst, "tag1", a.NextDbTag(), 1)
	chk.Int(tst, "tag2", a.NextDbTag(), 2)
	if KindMatrix.String() != "matrix" {
		tst.Errorf("wrong kind name %q", KindMatrix.String())
	}
}

func Test_comm04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comm04. forged slots")

	ca, cb := chn.Pipe()
	b := New(cb, 0)
	defer ca.Close()
	defer b.Close()

	go func() {
		ca.SendInts([]int{5, int(KindMatrix), -4, 3})
		ca.SendDoubles([]float64{1, 2})
		ca.SendInts([]int{6, int(KindVector), 1 << 40, 0})
		ca.SendDoubles([]float64{3})
		a := New(ca, 1)
		a.SendVector(7, []float64{8, 9})
	}()

	// negative size
	m := [][]float64{{0, 0}}
	err := b.RecvMatrix(5, m)
	if !errors.Is(err, ErrSlotMismatch) {
		tst.Errorf("expected slot mismatch. got %v", err)
	}

	// huge size
	v := make([]float64, 2)
	err = b.RecvVector(6, v)
	if !errors.Is(err, ErrSlotMismatch) {
		tst.Errorf("expected slot mismatch. got %v", err)
	}

	// still aligned
	if err = b.RecvVector(7, v); err != nil {
		tst.Fatalf("%v", err)
	}
	chk.Array(tst, "v", 1e-15, v, []float64{8, 9})
}
