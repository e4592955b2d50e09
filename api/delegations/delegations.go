// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delegations exposes wallet-facing queries of the certificate index.
package delegations

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/pylonchain/pylon/api/utils"
	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/pylon"
)

// TestpointsEnv when set, enables endpoints meant for test environments only.
const TestpointsEnv = "PYLON_API_TESTPOINTS"

type Delegations struct {
	idx        *delegation.Index
	testpoints bool
}

func New(idx *delegation.Index) *Delegations {
	return &Delegations{
		idx:        idx,
		testpoints: os.Getenv(TestpointsEnv) != "",
	}
}

func (d *Delegations) handleGetCertificate(w http.ResponseWriter, req *http.Request) error {
	issuer, err := pylon.ParseStakeholderID(mux.Vars(req)["issuer"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "issuer"))
	}
	return d.idx.View(func(r *delegation.Reader) error {
		cert, err := r.Get(issuer)
		if err != nil {
			return err
		}
		if cert == nil {
			return utils.NotFound(errors.New("no certificate for issuer"))
		}
		return utils.WriteJSON(w, convertCertificate(cert))
	})
}

func (d *Delegations) handleGetIssuerStatus(w http.ResponseWriter, req *http.Request) error {
	issuer, err := pylon.ParseStakeholderID(mux.Vars(req)["issuer"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "issuer"))
	}
	return d.idx.View(func(r *delegation.Reader) error {
		issuing, err := r.ContainsIssuer(issuer)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &IssuerStatus{Issuing: issuing})
	})
}

func (d *Delegations) handleResolveChain(w http.ResponseWriter, req *http.Request) error {
	issuer, err := pylon.ParseStakeholderID(mux.Vars(req)["issuer"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "issuer"))
	}
	return d.idx.View(func(r *delegation.Reader) error {
		m, err := r.ResolveChain(issuer)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertMapping(m))
	})
}

func (d *Delegations) handleResolveForest(w http.ResponseWriter, req *http.Request) error {
	rootsParam := req.URL.Query().Get("roots")
	if rootsParam == "" {
		return utils.BadRequest(errors.New("roots: missing"))
	}
	var roots []pylon.StakeholderID
	for _, s := range strings.Split(rootsParam, ",") {
		root, err := pylon.ParseStakeholderID(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "roots"))
		}
		roots = append(roots, root)
	}
	return d.idx.View(func(r *delegation.Reader) error {
		m, err := r.ResolveForest(roots)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertMapping(m))
	})
}

// handleDump lists every stored certificate. Test environments only.
func (d *Delegations) handleDump(w http.ResponseWriter, _ *http.Request) error {
	if !d.testpoints {
		return utils.Forbidden(errors.New("test endpoints disabled"))
	}
	return d.idx.View(func(r *delegation.Reader) error {
		iter := r.NewIterator()
		defer iter.Release()

		all := make([]*Delegation, 0)
		for iter.Next() {
			all = append(all, convertCertificate(iter.Certificate()))
		}
		if err := iter.Error(); err != nil {
			return err
		}
		return utils.WriteJSON(w, all)
	})
}

func (d *Delegations) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/forest").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(d.handleResolveForest))
	sub.Path("").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(d.handleDump))
	sub.Path("/{issuer}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(d.handleGetCertificate))
	sub.Path("/{issuer}/issuing").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(d.handleGetIssuerStatus))
	sub.Path("/{issuer}/chain").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(d.handleResolveChain))
}
