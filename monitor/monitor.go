// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package monitor watches the node's view of the chain tip to detect a
// stalled or adversarial chain.
package monitor

import (
	"sync"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/pylonchain/pylon/co"
	"github.com/pylonchain/pylon/metrics"
)

var logger = log15.New("pkg", "monitor")

// DefaultStaleTipLimit is the default interval without tip progress after
// which the chain view is judged stalled.
const DefaultStaleTipLimit = 2 * time.Minute

var metricStalled = metrics.LazyLoadGauge("monitor_stalled")

// Tip is a snapshot of the chain head as seen by the node.
type Tip struct {
	ID     string `json:"id"` // header id or commitment, hex presented
	Number uint32 `json:"number"`
}

// TipSource provides the current chain tip; polled by Watch.
type TipSource interface {
	BestTip() (Tip, error)
}

// TipIngestion reports the latest ingested tip and when it arrived.
type TipIngestion struct {
	Tip       *Tip       `json:"tip"`
	Timestamp *time.Time `json:"timestamp"`
}

// Status is the monitor's verdict of the chain view.
type Status struct {
	Healthy      bool         `json:"healthy"`
	ChainSynced  bool         `json:"chainSynced"`
	Regressed    bool         `json:"regressed"`
	TipIngestion TipIngestion `json:"tipIngestion"`
}

// Monitor tracks tip ingestion and judges whether the chain view is live.
// The chain is considered stalled when no new tip arrived within the stale
// limit; a tip moving backwards marks the view regressed until a higher tip
// is seen.
type Monitor struct {
	lock        sync.RWMutex
	tip         *Tip
	ingestedAt  time.Time
	chainSynced bool
	regressed   bool
	staleLimit  time.Duration

	goes co.Goes
	done chan struct{}
}

// New creates a monitor judging the tip stalled after staleLimit without progress.
func New(staleLimit time.Duration) *Monitor {
	return &Monitor{
		staleLimit: staleLimit,
		done:       make(chan struct{}),
	}
}

// NewTip records an observed chain tip.
func (m *Monitor) NewTip(tip Tip) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.tip != nil && tip.Number < m.tip.Number {
		logger.Warn("chain tip moved backwards", "from", m.tip.Number, "to", tip.Number)
		m.regressed = true
	} else if m.tip == nil || tip.Number > m.tip.Number {
		m.regressed = false
	}
	m.tip = &tip
	m.ingestedAt = time.Now()
}

// ChainSyncStatus flags whether the node finished syncing.
func (m *Monitor) ChainSyncStatus(synced bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.chainSynced = synced
}

// Status reports the current verdict.
func (m *Monitor) Status() *Status {
	m.lock.RLock()
	defer m.lock.RUnlock()

	stalled := m.tip == nil || time.Since(m.ingestedAt) > m.staleLimit
	healthy := !stalled && !m.regressed && m.chainSynced
	if stalled {
		metricStalled().Set(1)
	} else {
		metricStalled().Set(0)
	}

	var ts *time.Time
	if m.tip != nil {
		t := m.ingestedAt
		ts = &t
	}
	return &Status{
		Healthy:     healthy,
		ChainSynced: m.chainSynced,
		Regressed:   m.regressed,
		TipIngestion: TipIngestion{
			Tip:       m.tip,
			Timestamp: ts,
		},
	}
}

// Watch starts polling the source at the given interval, feeding observed
// tips into the monitor, until Stop is called.
func (m *Monitor) Watch(source TipSource, interval time.Duration) {
	m.goes.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				tip, err := source.BestTip()
				if err != nil {
					logger.Warn("failed to poll chain tip", "err", err)
					continue
				}
				m.NewTip(tip)
			}
		}
	})
}

// Stop stops polling and waits for the watch routine to exit.
func (m *Monitor) Stop() {
	close(m.done)
	m.goes.Wait()
}
