// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// process-wide traffic counters; per-link counters are in Context.Stats
var (
	// messages counts tagged messages. Labels: direction ("sent", "received"), kind
	messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soe_comm_messages_total",
		Help: "Tagged messages exchanged with peer processes",
	}, []string{"direction", "kind"})

	// values counts payload entries. Labels: direction, type ("int", "double")
	values = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soe_comm_values_total",
		Help: "Payload values exchanged with peer processes",
	}, []string{"direction", "type"})
)
