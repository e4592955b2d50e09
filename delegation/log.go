// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pylonchain/pylon/kv"
	"github.com/pylonchain/pylon/pylon"
)

// Log translates logical certificate mutations into key-level ops on a batch.
// The underlying engine applies the batch all-or-nothing; the Log adds no
// atomicity of its own.
//
// Staged mutations are invisible to readers until the batch is written, so a
// concurrent read can load the pre-write certificate into the cache. Commit
// evicts the touched entries; it must run after the batch write (Update does
// this itself, holders of an external batch call it).
type Log struct {
	idx     *Index
	batch   kv.Batch
	touched []pylon.StakeholderID
}

// Insert stages a write of the certificate, keyed by its issuer's stakeholder
// id. An existing certificate of the same issuer is overwritten. Certificates
// delegating to their own issuer are rejected before any key op is staged.
func (l *Log) Insert(cert *Certificate) error {
	if cert.Issuer == cert.Delegate {
		return ErrSelfDelegation
	}
	id := cert.Issuer.StakeholderID()
	l.touch(id)
	return saveCert(l.batch, id, cert)
}

// Remove stages a delete of any certificate stored under the issuer key.
func (l *Log) Remove(issuer pylon.PublicKey) error {
	id := issuer.StakeholderID()
	l.touch(id)
	return deleteCert(l.batch, id)
}

// Len returns count of staged key-level ops.
func (l *Log) Len() int {
	return l.batch.Len()
}

// Commit evicts every certificate touched by this log from the read cache.
// It must be called after the underlying batch has been written; until then
// cached reads of touched issuers may still serve the pre-write state.
func (l *Log) Commit() {
	for _, id := range l.touched {
		l.idx.purgeCache(id)
	}
	l.touched = l.touched[:0]
}

func (l *Log) touch(id pylon.StakeholderID) {
	l.idx.purgeCache(id)
	l.touched = append(l.touched, id)
}
