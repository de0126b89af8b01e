// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// GetPrm returns the value of a parameter named name
func GetPrm(prms dbf.Params, name string) (val float64, err error) {
	for _, p := range prms {
		if p != nil && p.N == name {
			return p.V, nil
		}
	}
	return 0, chk.Err("cannot find parameter named %q", name)
}

// GetPositive returns the value of a parameter that must be positive
func GetPositive(prms dbf.Params, name string) (val float64, err error) {
	if val, err = GetPrm(prms, name); err != nil {
		return
	}
	if val <= 0 {
		err = chk.Err("parameter %q must be positive. %g is invalid", name, val)
	}
	return
}

// Gather collects the values of u at eqs
func Gather(u func(eq int) (float64, error), eqs []int) (vals []float64, err error) {
	vals = make([]float64, len(eqs))
	for i, eq := range eqs {
		if vals[i], err = u(eq); err != nil {
			return
		}
	}
	return
}
