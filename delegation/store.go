// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pylonchain/pylon/pylon"
)

// Reader provides read access to the certificate index.
// A Reader is only valid inside the View call that produced it.
type Reader struct {
	idx *Index
}

// Get returns the certificate issued by the given stakeholder, or nil if the
// stakeholder is not currently delegating. A miss is not an error.
func (r *Reader) Get(issuer pylon.StakeholderID) (*Certificate, error) {
	if r.idx.cache == nil {
		cert, err := loadCert(r.idx.store, issuer)
		countLookup(cert, err)
		return cert, err
	}

	value, err := r.idx.cache.GetOrLoad(issuer, func() (interface{}, error) {
		cert, err := loadCert(r.idx.store, issuer)
		countLookup(cert, err)
		return cert, err
	})
	if err != nil {
		return nil, err
	}
	return value.(*Certificate), nil
}

// GetByPublicKey is Get keyed by the issuer's public key.
func (r *Reader) GetByPublicKey(issuer pylon.PublicKey) (*Certificate, error) {
	return r.Get(issuer.StakeholderID())
}

// ContainsIssuer returns whether the stakeholder is currently delegating.
func (r *Reader) ContainsIssuer(issuer pylon.StakeholderID) (bool, error) {
	cert, err := r.Get(issuer)
	if err != nil {
		return false, err
	}
	return cert != nil, nil
}

func countLookup(cert *Certificate, err error) {
	if err != nil {
		return
	}
	result := "miss"
	if cert != nil {
		result = "hit"
	}
	metricLookupCount().AddWithLabel(1, map[string]string{"result": result})
}
