// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	countVec := CounterVec("countVec1", []string{"kind"})
	gauge1 := Gauge("gauge1")
	hist := Histogram("hist1", Bucket1s)

	count1.Add(1)
	count1.Add(2)
	gauge1.Set(7)
	hist.Observe(3)

	for i := range 4 {
		countVec.AddWithLabel(1, map[string]string{"kind": strconv.Itoa(i % 2)})
	}

	// getting a meter twice returns the registered one
	Counter("count1").Add(1)

	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	metricFamilies, err := gatherers.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				byName[mf.GetName()] += m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				byName[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}

	require.Equal(t, float64(4), byName[namespace+"_count1"])
	require.Equal(t, float64(4), byName[namespace+"_countVec1"])
	require.Equal(t, float64(7), byName[namespace+"_gauge1"])
}

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	// all meters must be usable without a backend
	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateCountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
	m.GetOrCreateGaugeMeter("g").Set(1)
	m.GetOrCreateHistogramMeter("h", nil).Observe(1)
	require.Nil(t, m.GetOrCreateHandler())
}
