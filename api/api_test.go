// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pylonchain/pylon/api"
	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/lvldb"
	"github.com/pylonchain/pylon/monitor"
)

func TestMetricsEndpointWithoutBackend(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	idx := delegation.New(db, delegation.Options{})
	mon := monitor.New(monitor.DefaultStaleTipLimit)

	// metrics enabled but no backend initialized; the route must not be
	// served by a nil handler
	ts := httptest.NewServer(api.New(idx, mon, api.Options{EnableMetrics: true}))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/metrics")
	assert.Nil(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(ts.URL + "/node/status")
	assert.Nil(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
