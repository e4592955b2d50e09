// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/pylonchain/pylon/kv"
	"github.com/pylonchain/pylon/pylon"
)

// the reserved key space of the certificate index.
// keys are ( bucket | issuer stakeholder id ).
var certBucket = kv.Bucket("hd")

func saveCert(w kv.Putter, id pylon.StakeholderID, cert *Certificate) error {
	data, err := rlp.EncodeToBytes(cert)
	if err != nil {
		return err
	}
	return w.Put(id.Bytes(), data)
}

func loadCert(r kv.Getter, id pylon.StakeholderID) (*Certificate, error) {
	data, err := r.Get(id.Bytes())
	if err != nil {
		if r.IsNotFound(err) {
			// a lookup miss is not an error
			return nil, nil
		}
		return nil, err
	}
	var cert Certificate
	if err := rlp.DecodeBytes(data, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

func deleteCert(w kv.Putter, id pylon.StakeholderID) error {
	return w.Delete(id.Bytes())
}
