// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/pylonchain/pylon/api/delegations"
	"github.com/pylonchain/pylon/api/utils"
	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/metrics"
	"github.com/pylonchain/pylon/monitor"
)

// Options optional parameters of the api.
type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
}

// New return api router
func New(idx *delegation.Index, mon *monitor.Monitor, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	delegations.New(idx).
		Mount(router, "/delegations")

	if mon != nil {
		router.Path("/node/status").Methods("GET").HandlerFunc(
			utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				return utils.WriteJSON(w, mon.Status())
			}))
	}

	if opts.EnableMetrics {
		// nil when the noop backend is active
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").Handler(h)
		}
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
