// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chn

import (
	"net"
	"time"

	"github.com/cpmech/gosl/chk"
)

// dialing retries; workers are usually started before the master listens
var (
	DialAttempts = 100
	DialWait     = 100 * time.Millisecond
)

// Dial connects to a listening TCP endpoint, retrying DialAttempts times
func Dial(addr string) (ch *Stream, err error) {
	var conn net.Conn
	for i := 0; i < DialAttempts; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			return NewStream(conn), nil
		}
		time.Sleep(DialWait)
	}
	return nil, chk.Err("tcp: cannot connect to %q after %d attempts:\n%v", addr, DialAttempts, err)
}

// Listener accepts TCP channels
type Listener struct {
	ln net.Listener
}

// Listen starts listening on a TCP address; e.g. ":7701" or "127.0.0.1:0"
func Listen(addr string) (o *Listener, err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, chk.Err("tcp: cannot listen on %q:\n%v", addr, err)
	}
	return &Listener{ln}, nil
}

// Accept waits for the next peer
func (o *Listener) Accept() (ch Channel, err error) {
	conn, err := o.ln.Accept()
	if err != nil {
		return nil, chk.Err("tcp: accept failed:\n%v", err)
	}
	return NewStream(conn), nil
}

// Addr returns the address the listener is bound to
func (o *Listener) Addr() string {
	return o.ln.Addr().String()
}

// Close stops listening; accepted channels are not affected
func (o *Listener) Close() error {
	return o.ln.Close()
}
