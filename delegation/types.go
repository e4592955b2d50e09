// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"errors"

	"github.com/pylonchain/pylon/pylon"
)

// ErrSelfDelegation returned when a certificate delegates to its own issuer.
// Such a certificate must never reach the store.
var ErrSelfDelegation = errors.New("self delegation")

// Certificate is a heavyweight delegation proxy signing key: a signed statement
// that Issuer delegates block-production rights to Delegate.
// A certificate is immutable once created; re-delegation replaces the whole
// record under the same issuer key.
type Certificate struct {
	Issuer   pylon.PublicKey
	Delegate pylon.PublicKey
	Payload  []byte // signed payload, opaque to the index
}

// NewCertificate creates a certificate, rejecting self delegation.
func NewCertificate(issuer, delegate pylon.PublicKey, payload []byte) (*Certificate, error) {
	if issuer == delegate {
		return nil, ErrSelfDelegation
	}
	return &Certificate{
		Issuer:   issuer,
		Delegate: delegate,
		Payload:  payload,
	}, nil
}

// Mapping is a resolved chain/forest result, keyed by issuer public key.
// It holds every delegation edge discovered while walking from one or more
// roots along delegate pointers.
type Mapping map[pylon.PublicKey]*Certificate

// IssuerIDs returns the set of stakeholder ids appearing as issuers in the mapping.
func (m Mapping) IssuerIDs() map[pylon.StakeholderID]struct{} {
	ids := make(map[pylon.StakeholderID]struct{}, len(m))
	for issuer := range m {
		ids[issuer.StakeholderID()] = struct{}{}
	}
	return ids
}
