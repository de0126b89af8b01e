// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chn

import (
	"encoding/binary"
	"fmt"
	"math"
)

// frame layout: kind (1 byte) | count (uint32, little endian) | count × 8 bytes payload
const headerLen = 5

// putHeader writes the frame header into b
func putHeader(b []byte, kind byte, count int) {
	b[0] = kind
	binary.LittleEndian.PutUint32(b[1:headerLen], uint32(count))
}

// checkHeader compares a received header with what the receiver expects
func checkHeader(b []byte, kind byte, count int) (err error) {
	if b[0] != kind {
		return fmt.Errorf("expected %s block but got %s: %w", kindName(kind), kindName(b[0]), ErrKindMismatch)
	}
	n := int(binary.LittleEndian.Uint32(b[1:headerLen]))
	if n != count {
		return fmt.Errorf("expected %d %s but peer sent %d: %w", count, kindName(kind), n, ErrSizeMismatch)
	}
	return
}

// encodeInts builds a complete frame with integers
func encodeInts(vals []int) []byte {
	b := make([]byte, headerLen+8*len(vals))
	putHeader(b, KindInts, len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[headerLen+8*i:], uint64(int64(v)))
	}
	return b
}

// encodeDoubles builds a complete frame with float64 values
func encodeDoubles(vals []float64) []byte {
	b := make([]byte, headerLen+8*len(vals))
	putHeader(b, KindDoubles, len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[headerLen+8*i:], math.Float64bits(v))
	}
	return b
}

// decodeInts reads the payload of an integer frame into vals
func decodeInts(payload []byte, vals []int) {
	for i := range vals {
		vals[i] = int(int64(binary.LittleEndian.Uint64(payload[8*i:])))
	}
}

// decodeDoubles reads the payload of a float64 frame into vals
func decodeDoubles(payload []byte, vals []float64) {
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
	}
}
