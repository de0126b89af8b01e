// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package actor implements a solver process driven by the master through a small
// command protocol
package actor

import (
	"errors"
	"fmt"
)

// Action is a command code of the actor protocol. Each command starts with the
// header {action, arg1, arg2}
type Action int

// actions
const (
	ActionBarrier  Action = iota // echo the header back
	ActionSolve                  // arg1 != 0: A is already factored; receive A (if not), B; reply status
	ActionResize                 // arg1 = size, arg2 = nnz; receive layout data; reply {size, low, high}
	ActionZeroA                  // zero coefficients
	ActionZeroB                  // zero right-hand side
	ActionFetch                  // reply {low, high} then X[low:high]
	ActionReserved               // accepted and ignored
)

// Tag is the message tag of the actor protocol
const Tag = 100

// ErrProtocol is returned when the actor receives an unknown command
var ErrProtocol = errors.New("protocol violation")

// String returns the name of an action
func (a Action) String() string {
	switch a {
	case ActionBarrier:
		return "barrier"
	case ActionSolve:
		return "solve"
	case ActionResize:
		return "resize"
	case ActionZeroA:
		return "zeroA"
	case ActionZeroB:
		return "zeroB"
	case ActionFetch:
		return "fetch"
	case ActionReserved:
		return "reserved"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Valid tells whether a is a known action
func (a Action) Valid() bool {
	return a >= ActionBarrier && a <= ActionReserved
}
