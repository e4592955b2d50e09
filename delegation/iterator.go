// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/pylonchain/pylon/kv"
	"github.com/pylonchain/pylon/pylon"
)

// iterator is the shared scaffold of the certificate iterators: a lazy
// forward scan over the reserved key space, parameterized by a value codec.
// It is finite and not restartable; rescanning requires a fresh one.
type iterator struct {
	iter   kv.Iterator
	decode func(val []byte) error
	id     pylon.StakeholderID
	err    error
}

func newIterator(store kv.Store, decode func(val []byte) error) iterator {
	return iterator{
		iter:   store.NewIterator(kv.Range{}),
		decode: decode,
	}
}

// Next moves to the next certificate. It returns false when the scan is
// exhausted or broken; check Error after the loop.
func (it *iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.iter.Next() {
		return false
	}
	key := it.iter.Key()
	if len(key) != pylon.StakeholderIDLength {
		it.err = errors.Errorf("unexpected key length %d in certificate space", len(key))
		return false
	}
	it.id = pylon.BytesToStakeholderID(key)
	if err := it.decode(it.iter.Value()); err != nil {
		it.err = err
		return false
	}
	return true
}

// ID returns the issuer stakeholder id of the current certificate.
func (it *iterator) ID() pylon.StakeholderID {
	return it.id
}

func (it *iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

// Release releases the underlying read handle. It must be called on every
// exit path.
func (it *iterator) Release() {
	it.iter.Release()
}

// Iterator iterates all stored certificates in ascending issuer id order.
type Iterator struct {
	iterator
	cert Certificate
}

// NewIterator creates an iterator over all stored certificates.
func (r *Reader) NewIterator() *Iterator {
	it := &Iterator{}
	it.iterator = newIterator(r.idx.store, func(val []byte) error {
		it.cert = Certificate{}
		return rlp.DecodeBytes(val, &it.cert)
	})
	return it
}

// Certificate returns the current certificate.
// The returned value is only valid until the next call to Next.
func (it *Iterator) Certificate() *Certificate {
	return &it.cert
}

// Edge is a single delegation link, projected out of a stored certificate
// without materializing its payload.
type Edge struct {
	Issuer   pylon.StakeholderID
	Delegate pylon.StakeholderID
}

// certEdge decodes just the key fields of a certificate, leaving the payload
// as raw bytes.
type certEdge struct {
	Issuer   pylon.PublicKey
	Delegate pylon.PublicKey
	Rest     []rlp.RawValue `rlp:"tail"`
}

// EdgeIterator iterates delegation edges in ascending issuer id order.
type EdgeIterator struct {
	iterator
	edge Edge
}

// NewEdgeIterator creates an iterator yielding issuer/delegate edges only,
// for scans that do not need full certificates.
func (r *Reader) NewEdgeIterator() *EdgeIterator {
	it := &EdgeIterator{}
	it.iterator = newIterator(r.idx.store, func(val []byte) error {
		var ce certEdge
		if err := rlp.DecodeBytes(val, &ce); err != nil {
			return err
		}
		it.edge = Edge{
			Issuer:   ce.Issuer.StakeholderID(),
			Delegate: ce.Delegate.StakeholderID(),
		}
		return nil
	})
	return it
}

// Edge returns the current delegation edge.
func (it *EdgeIterator) Edge() Edge {
	return it.edge
}
