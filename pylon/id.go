// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pylon

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// StakeholderIDLength length of stakeholder id in bytes.
	StakeholderIDLength = 32
)

// StakeholderID hash-derived identity of a stakeholder.
// It indexes delegation certificates and populates visited/ignored sets during
// resolution. Derivation from a public key is one-way (see PublicKey.StakeholderID).
type StakeholderID [StakeholderIDLength]byte

var (
	_ json.Marshaler   = (*StakeholderID)(nil)
	_ json.Unmarshaler = (*StakeholderID)(nil)
)

// String implements stringer
func (id StakeholderID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// AbbrevString returns abbrev string presentation.
func (id StakeholderID) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", id[:4], id[28:])
}

// Bytes returns byte slice form of StakeholderID.
func (id StakeholderID) Bytes() []byte {
	return id[:]
}

// IsZero returns if StakeholderID has all zero bytes.
func (id StakeholderID) IsZero() bool {
	return id == StakeholderID{}
}

// MarshalJSON implements json.Marshaler.
func (id *StakeholderID) MarshalJSON() ([]byte, error) {
	if id == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *StakeholderID) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	parsed, err := ParseStakeholderID(hex)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseStakeholderID convert string presented into StakeholderID type.
func ParseStakeholderID(s string) (StakeholderID, error) {
	if len(s) == StakeholderIDLength*2 {
	} else if len(s) == StakeholderIDLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return StakeholderID{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return StakeholderID{}, errors.New("invalid length")
	}

	var id StakeholderID
	_, err := hex.Decode(id[:], []byte(s))
	if err != nil {
		return StakeholderID{}, err
	}
	return id, nil
}

// MustParseStakeholderID convert string presented into StakeholderID type, panic on error.
func MustParseStakeholderID(s string) StakeholderID {
	id, err := ParseStakeholderID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// BytesToStakeholderID converts bytes slice into StakeholderID.
// If b is larger than id length, b will be cropped (from the left).
// If b is smaller than id length, b will be extended (from the left).
func BytesToStakeholderID(b []byte) (id StakeholderID) {
	if len(b) > StakeholderIDLength {
		b = b[len(b)-StakeholderIDLength:]
	}
	copy(id[StakeholderIDLength-len(b):], b)
	return
}
