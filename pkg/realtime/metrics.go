// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values.
const (
	resultGranted  = "granted"
	resultDenied   = "denied"
	resultError    = "error"
	resultRestored = "restored"
	resultFailed   = "failed"
	resultRejected = "rejected"

	clampPriority = "priority"
	clampSlice    = "slice"
)

// Metrics counts promotion outcomes.
type Metrics struct {
	promotions *prometheus.CounterVec
	rollbacks  prometheus.Counter
	clamps     *prometheus.CounterVec
	demotions  *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtsched_promotions_total",
			Help: "Real-time promotion attempts by result.",
		}, []string{"result"}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtsched_limit_rollbacks_total",
			Help: "RLIMIT_RTTIME restorations after a failed promotion.",
		}),
		clamps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtsched_clamps_total",
			Help: "Requests lowered to the broker maximum, by kind.",
		}, []string{"kind"}),
		demotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtsched_demotions_total",
			Help: "Demotion attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.promotions, m.rollbacks, m.clamps, m.demotions)
	}
	return m
}
