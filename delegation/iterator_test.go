// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation_test

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/lvldb"
	"github.com/pylonchain/pylon/pylon"
)

func TestIterator(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	certs := make(map[pylon.StakeholderID]*delegation.Certificate)
	for range 5 {
		cert := newCert(t, newKey(t), newKey(t))
		insert(t, idx, cert)
		certs[cert.Issuer.StakeholderID()] = cert
	}

	// unrelated data in the same engine must not surface
	assert.Nil(t, db.Put([]byte("unrelated"), []byte("state")))

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		iter := r.NewIterator()
		defer iter.Release()

		var ids []pylon.StakeholderID
		for iter.Next() {
			ids = append(ids, iter.ID())
			assert.Equal(t, certs[iter.ID()], iter.Certificate())
		}
		assert.Nil(t, iter.Error())
		assert.Equal(t, len(certs), len(ids))

		// forward ordered by issuer id
		assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool {
			return bytes.Compare(ids[i].Bytes(), ids[j].Bytes()) < 0
		}))
		return nil
	}))
}

func TestEdgeIterator(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	want := make(map[delegation.Edge]struct{})
	for range 3 {
		cert := newCert(t, newKey(t), newKey(t))
		insert(t, idx, cert)
		want[delegation.Edge{
			Issuer:   cert.Issuer.StakeholderID(),
			Delegate: cert.Delegate.StakeholderID(),
		}] = struct{}{}
	}

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		iter := r.NewEdgeIterator()
		defer iter.Release()

		got := make(map[delegation.Edge]struct{})
		for iter.Next() {
			assert.Equal(t, iter.Edge().Issuer, iter.ID())
			got[iter.Edge()] = struct{}{}
		}
		assert.Nil(t, iter.Error())
		assert.Equal(t, want, got)
		return nil
	}))
}

func TestIteratorEmpty(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		iter := r.NewIterator()
		defer iter.Release()

		assert.False(t, iter.Next())
		assert.Nil(t, iter.Error())
		return nil
	}))
}
