// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pylonchain/pylon/metrics"
)

var (
	metricLookupCount       = metrics.LazyLoadCounterVec("cert_lookup_count", []string{"result"})
	metricResolutionCount   = metrics.LazyLoadCounterVec("cert_resolution_count", []string{"kind"})
	metricLoopDetectedCount = metrics.LazyLoadCounter("cert_resolution_loop_detected_count")
)
