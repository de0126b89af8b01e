// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comm implements tagged messages over a point-to-point channel
package comm

import (
	"errors"
	"fmt"

	"github.com/xcfem/xc-sub024/chn"
)

// Kind tells what a tagged message carries
type Kind int

// message kinds
const (
	KindInt    Kind = iota + 1 // one integer
	KindDouble                 // one float64
	KindVector                 // n1 float64 values
	KindMatrix                 // n1 × n2 float64 values, row-major
	KindID                     // n1 integers
)

// ErrSlotMismatch is returned when the metadata slot received disagrees with what the
// receiver expects (tag, kind or dimensions)
var ErrSlotMismatch = errors.New("slot mismatch")

// Stats holds traffic counters of one context. Values count payload entries only
type Stats struct {
	MsgSent     int // messages sent
	MsgRecv     int // messages received
	IntsSent    int // integers sent
	IntsRecv    int // integers received
	DoublesSent int // float64 values sent
	DoublesRecv int // float64 values received
}

// Add accumulates the counters of s
func (o *Stats) Add(s Stats) {
	o.MsgSent += s.MsgSent
	o.MsgRecv += s.MsgRecv
	o.IntsSent += s.IntsSent
	o.IntsRecv += s.IntsRecv
	o.DoublesSent += s.DoublesSent
	o.DoublesRecv += s.DoublesRecv
}

// Context is the communicator context between this process and one peer.
//
//	Every message is a metadata slot {tag, kind, n1, n2} followed by the payload.
type Context struct {
	Peer  int   // rank of peer process
	Stats Stats // traffic counters
	ch    chn.Channel
	slot  []int
	dbTag int
}

// New returns a new context talking to peer through ch
func New(ch chn.Channel, peer int) *Context {
	return &Context{Peer: peer, ch: ch, slot: make([]int, 4)}
}

// Channel returns the underlying channel
func (o *Context) Channel() chn.Channel {
	return o.ch
}

// NextDbTag returns the next database tag. Both ends of a link obtain the same
// sequence if they allocate tags in the same order
func (o *Context) NextDbTag() int {
	o.dbTag++
	return o.dbTag
}

// Close closes the underlying channel
func (o *Context) Close() (err error) {
	return o.ch.Close()
}

// SendInt sends one integer
func (o *Context) SendInt(tag, val int) (err error) {
	if err = o.sendSlot(tag, KindInt, 1, 0); err != nil {
		return
	}
	return o.sendInts(tag, []int{val})
}

// RecvInt receives one integer
func (o *Context) RecvInt(tag int) (val int, err error) {
	if err = o.recvSlot(tag, KindInt, 1, 0); err != nil {
		return
	}
	buf := []int{0}
	err = o.recvInts(tag, buf)
	return buf[0], err
}

// SendDouble sends one float64
func (o *Context) SendDouble(tag int, val float64) (err error) {
	if err = o.sendSlot(tag, KindDouble, 1, 0); err != nil {
		return
	}
	return o.sendDoubles(tag, []float64{val})
}

// RecvDouble receives one float64
func (o *Context) RecvDouble(tag int) (val float64, err error) {
	if err = o.recvSlot(tag, KindDouble, 1, 0); err != nil {
		return
	}
	buf := []float64{0}
	err = o.recvDoubles(tag, buf)
	return buf[0], err
}

// SendVector sends a vector
func (o *Context) SendVector(tag int, v []float64) (err error) {
	if err = o.sendSlot(tag, KindVector, len(v), 0); err != nil {
		return
	}
	return o.sendDoubles(tag, v)
}

// RecvVector receives exactly len(v) values into v
func (o *Context) RecvVector(tag int, v []float64) (err error) {
	if err = o.recvSlot(tag, KindVector, len(v), 0); err != nil {
		return
	}
	return o.recvDoubles(tag, v)
}

// SendMatrix sends a rectangular matrix
func (o *Context) SendMatrix(tag int, m [][]float64) (err error) {
	nrow, ncol := dims(m)
	if err = o.sendSlot(tag, KindMatrix, nrow, ncol); err != nil {
		return
	}
	flat := make([]float64, 0, nrow*ncol)
	for _, row := range m {
		flat = append(flat, row...)
	}
	return o.sendDoubles(tag, flat)
}

// RecvMatrix receives a matrix with the dimensions of m into m
func (o *Context) RecvMatrix(tag int, m [][]float64) (err error) {
	nrow, ncol := dims(m)
	if err = o.recvSlot(tag, KindMatrix, nrow, ncol); err != nil {
		return
	}
	flat := make([]float64, nrow*ncol)
	if err = o.recvDoubles(tag, flat); err != nil {
		return
	}
	for i := range m {
		copy(m[i], flat[i*ncol:(i+1)*ncol])
	}
	return
}

// SendID sends an integer array
func (o *Context) SendID(tag int, v []int) (err error) {
	if err = o.sendSlot(tag, KindID, len(v), 0); err != nil {
		return
	}
	return o.sendInts(tag, v)
}

// RecvID receives exactly len(v) integers into v
func (o *Context) RecvID(tag int, v []int) (err error) {
	if err = o.recvSlot(tag, KindID, len(v), 0); err != nil {
		return
	}
	return o.recvInts(tag, v)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////

func (o *Context) sendSlot(tag int, kind Kind, n1, n2 int) (err error) {
	o.slot[0], o.slot[1], o.slot[2], o.slot[3] = tag, int(kind), n1, n2
	if err = o.ch.SendInts(o.slot); err != nil {
		return fmt.Errorf("comm: send %s (tag=%d) to %d: %w", kind, tag, o.Peer, err)
	}
	o.Stats.MsgSent++
	messages.WithLabelValues("sent", kind.String()).Inc()
	return
}

// recvSlot receives the metadata slot. On a mismatch, the payload announced by the
// peer is drained so that the link stays usable
func (o *Context) recvSlot(tag int, kind Kind, n1, n2 int) (err error) {
	if err = o.ch.RecvInts(o.slot); err != nil {
		return fmt.Errorf("comm: receive %s (tag=%d) from %d: %w", kind, tag, o.Peer, err)
	}
	o.Stats.MsgRecv++
	messages.WithLabelValues("received", kind.String()).Inc()
	gtag, gkind, g1, g2 := o.slot[0], Kind(o.slot[1]), o.slot[2], o.slot[3]
	if gtag == tag && gkind == kind && g1 == n1 && g2 == n2 {
		return
	}
	if e := o.drain(gkind); e != nil {
		return fmt.Errorf("comm: cannot drain %s (tag=%d) from %d: %w", gkind, gtag, o.Peer, e)
	}
	if g1 < 0 || g2 < 0 {
		return fmt.Errorf("comm: %s (tag=%d) from %d has invalid size %d×%d: %w",
			gkind, gtag, o.Peer, g1, g2, ErrSlotMismatch)
	}
	if gtag != tag || gkind != kind {
		return fmt.Errorf("comm: expected %s (tag=%d) from %d but got %s (tag=%d): %w",
			kind, tag, o.Peer, gkind, gtag, ErrSlotMismatch)
	}
	return fmt.Errorf("comm: expected %s (tag=%d) of size %d×%d from %d but got %d×%d: %w: %w",
		kind, tag, n1, n2, o.Peer, g1, g2, ErrSlotMismatch, chn.ErrSizeMismatch)
}

// drain consumes a payload nobody asked for. The payload is requested with an
// empty buffer, so the channel discards it as a size mismatch without trusting
// the sizes announced in the slot
func (o *Context) drain(kind Kind) (err error) {
	switch kind {
	case KindInt, KindID:
		err = o.ch.RecvInts(nil)
	case KindDouble, KindVector, KindMatrix:
		err = o.ch.RecvDoubles(nil)
	default:
		return
	}
	if errors.Is(err, chn.ErrSizeMismatch) {
		err = nil
	}
	return
}

func (o *Context) sendInts(tag int, v []int) (err error) {
	if err = o.ch.SendInts(v); err != nil {
		return fmt.Errorf("comm: send payload (tag=%d) to %d: %w", tag, o.Peer, err)
	}
	o.Stats.IntsSent += len(v)
	values.WithLabelValues("sent", "int").Add(float64(len(v)))
	return
}

func (o *Context) recvInts(tag int, v []int) (err error) {
	if err = o.ch.RecvInts(v); err != nil {
		return fmt.Errorf("comm: receive payload (tag=%d) from %d: %w", tag, o.Peer, err)
	}
	o.Stats.IntsRecv += len(v)
	values.WithLabelValues("received", "int").Add(float64(len(v)))
	return
}

func (o *Context) sendDoubles(tag int, v []float64) (err error) {
	if err = o.ch.SendDoubles(v); err != nil {
		return fmt.Errorf("comm: send payload (tag=%d) to %d: %w", tag, o.Peer, err)
	}
	o.Stats.DoublesSent += len(v)
	values.WithLabelValues("sent", "double").Add(float64(len(v)))
	return
}

func (o *Context) recvDoubles(tag int, v []float64) (err error) {
	if err = o.ch.RecvDoubles(v); err != nil {
		return fmt.Errorf("comm: receive payload (tag=%d) from %d: %w", tag, o.Peer, err)
	}
	o.Stats.DoublesRecv += len(v)
	values.WithLabelValues("received", "double").Add(float64(len(v)))
	return
}

// dims returns the dimensions of a rectangular matrix
func dims(m [][]float64) (nrow, ncol int) {
	nrow = len(m)
	if nrow > 0 {
		ncol = len(m[0])
	}
	return
}

// String returns the name of a message kind
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindID:
		return "id"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
