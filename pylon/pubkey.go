// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pylon

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// PublicKeyLength length of compressed public key in bytes.
	PublicKeyLength = 33
)

// PublicKey compressed secp256k1 public key of a stakeholder.
type PublicKey [PublicKeyLength]byte

var (
	_ json.Marshaler   = (*PublicKey)(nil)
	_ json.Unmarshaler = (*PublicKey)(nil)
)

// PublicKeyFromECDSA converts an ecdsa public key into PublicKey type.
func PublicKeyFromECDSA(pub *ecdsa.PublicKey) (p PublicKey) {
	copy(p[:], crypto.CompressPubkey(pub))
	return
}

// ECDSA recovers the ecdsa form of the public key.
// An error returned if the key bytes do not decompress to a curve point.
func (p PublicKey) ECDSA() (*ecdsa.PublicKey, error) {
	return crypto.DecompressPubkey(p[:])
}

// StakeholderID derives the stakeholder id of the public key.
// The derivation hashes the compressed key bytes and is one-way.
func (p PublicKey) StakeholderID() StakeholderID {
	return Blake2b(p[:])
}

// String implements stringer
func (p PublicKey) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// Bytes returns byte slice form of PublicKey.
func (p PublicKey) Bytes() []byte {
	return p[:]
}

// IsZero returns if PublicKey has all zero bytes.
func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

// MarshalJSON implements json.Marshaler.
func (p *PublicKey) MarshalJSON() ([]byte, error) {
	if p == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(hex)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePublicKey convert string presented into PublicKey type.
func ParsePublicKey(s string) (PublicKey, error) {
	if len(s) == PublicKeyLength*2 {
	} else if len(s) == PublicKeyLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return PublicKey{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return PublicKey{}, errors.New("invalid length")
	}

	var p PublicKey
	_, err := hex.Decode(p[:], []byte(s))
	if err != nil {
		return PublicKey{}, err
	}
	return p, nil
}
