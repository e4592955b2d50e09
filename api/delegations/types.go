// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegations

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/pylon"
)

// Delegation presents a stored certificate.
type Delegation struct {
	Issuer   pylon.PublicKey `json:"issuer"`
	Delegate pylon.PublicKey `json:"delegate"`
	Payload  string          `json:"payload"`
}

func convertCertificate(cert *delegation.Certificate) *Delegation {
	return &Delegation{
		Issuer:   cert.Issuer,
		Delegate: cert.Delegate,
		Payload:  hexutil.Encode(cert.Payload),
	}
}

// convertMapping keys the resolved edges by issuer public key hex.
func convertMapping(m delegation.Mapping) map[string]*Delegation {
	out := make(map[string]*Delegation, len(m))
	for issuer, cert := range m {
		out[issuer.String()] = convertCertificate(cert)
	}
	return out
}

// IssuerStatus answers the "is this stakeholder currently delegating" check.
type IssuerStatus struct {
	Issuing bool `json:"issuing"`
}
