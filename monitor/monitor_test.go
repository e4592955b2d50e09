// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package monitor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorStatus(t *testing.T) {
	m := New(10 * time.Second)

	// no tip observed yet
	assert.False(t, m.Status().Healthy)

	m.NewTip(Tip{ID: "0x01", Number: 1})
	assert.False(t, m.Status().Healthy, "not synced yet")

	m.ChainSyncStatus(true)
	status := m.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(1), status.TipIngestion.Tip.Number)
	require.NotNil(t, status.TipIngestion.Timestamp)
	assert.True(t, time.Since(*status.TipIngestion.Timestamp) < time.Second)
}

func TestMonitorStalled(t *testing.T) {
	m := New(time.Millisecond)
	m.ChainSyncStatus(true)
	m.NewTip(Tip{ID: "0x01", Number: 1})

	time.Sleep(5 * time.Millisecond)
	assert.False(t, m.Status().Healthy)

	m.NewTip(Tip{ID: "0x02", Number: 2})
	assert.True(t, m.Status().Healthy)
}

func TestMonitorRegression(t *testing.T) {
	m := New(10 * time.Second)
	m.ChainSyncStatus(true)

	m.NewTip(Tip{ID: "0x05", Number: 5})
	assert.True(t, m.Status().Healthy)

	// the tip moving backwards marks an adversarial view
	m.NewTip(Tip{ID: "0x03", Number: 3})
	status := m.Status()
	assert.True(t, status.Regressed)
	assert.False(t, status.Healthy)

	// recovered once a higher tip is seen
	m.NewTip(Tip{ID: "0x06", Number: 6})
	assert.False(t, m.Status().Regressed)
	assert.True(t, m.Status().Healthy)
}

type fakeSource struct {
	n uint32
}

func (s *fakeSource) BestTip() (Tip, error) {
	return Tip{ID: "0xff", Number: atomic.AddUint32(&s.n, 1)}, nil
}

func TestMonitorWatch(t *testing.T) {
	m := New(time.Second)
	m.ChainSyncStatus(true)

	m.Watch(&fakeSource{}, time.Millisecond)
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return m.Status().Healthy
	}, time.Second, time.Millisecond)
}
