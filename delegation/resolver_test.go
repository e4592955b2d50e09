// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pylonchain/pylon/delegation"
	"github.com/pylonchain/pylon/lvldb"
	"github.com/pylonchain/pylon/pylon"
)

func TestResolveChain(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	a, b, c := newKey(t), newKey(t), newKey(t)
	certAB := newCert(t, a, b)
	certBC := newCert(t, b, c)
	insert(t, idx, certAB, certBC)

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		// full walk from the root down to the first non-issuer
		m, err := r.ResolveChain(a.StakeholderID())
		assert.Nil(t, err)
		assert.Equal(t, delegation.Mapping{a: certAB, b: certBC}, m)

		// starting mid-chain yields the suffix only
		m, err = r.ResolveChain(b.StakeholderID())
		assert.Nil(t, err)
		assert.Equal(t, delegation.Mapping{b: certBC}, m)

		// a root with no certificate resolves to the empty mapping
		m, err = r.ResolveChain(c.StakeholderID())
		assert.Nil(t, err)
		assert.Equal(t, delegation.Mapping{}, m)
		return nil
	}))
}

func TestResolveChainLoop(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	a, b, c := newKey(t), newKey(t), newKey(t)
	insert(t, idx, newCert(t, a, b), newCert(t, b, c))

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		m, err := r.ResolveChain(a.StakeholderID())
		assert.Nil(t, err)
		assert.Len(t, m, 2)
		return nil
	}))

	// closing the cycle corrupts the graph
	insert(t, idx, newCert(t, c, a))

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		m, err := r.ResolveChain(a.StakeholderID())
		assert.Nil(t, m)
		assert.True(t, delegation.IsLoopDetected(err))

		var loopErr *delegation.LoopDetectedError
		assert.ErrorAs(t, err, &loopErr)
		assert.Equal(t, a.StakeholderID(), loopErr.Stakeholder)
		return nil
	}))
}

func TestResolveChainLoopBoundedLookups(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	counting := &countingStore{Store: db}
	idx := delegation.New(counting, delegation.Options{})

	a, b := newKey(t), newKey(t)
	insert(t, idx, newCert(t, a, b), newCert(t, b, a))

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		_, err := r.ResolveChain(a.StakeholderID())
		assert.True(t, delegation.IsLoopDetected(err))
		return nil
	}))
	// a, b, then the revisit of a stops the walk before another read
	assert.Equal(t, 2, counting.gets)
}

func TestResolveForestConvergence(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	a, b, c, d := newKey(t), newKey(t), newKey(t), newKey(t)
	certAB := newCert(t, a, b)
	certBC := newCert(t, b, c)
	certDB := newCert(t, d, b)
	insert(t, idx, certAB, certBC, certDB)

	want := delegation.Mapping{a: certAB, b: certBC, d: certDB}

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		// convergence on the shared suffix b->c is not a loop
		m, err := r.ResolveForest([]pylon.StakeholderID{a.StakeholderID(), d.StakeholderID()})
		assert.Nil(t, err)
		assert.Equal(t, want, m)

		// merge is independent of root ordering
		m, err = r.ResolveForest([]pylon.StakeholderID{d.StakeholderID(), a.StakeholderID()})
		assert.Nil(t, err)
		assert.Equal(t, want, m)
		return nil
	}))
}

func TestResolveForestEqualsChainUnion(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	a, b, c, d, e := newKey(t), newKey(t), newKey(t), newKey(t), newKey(t)
	insert(t, idx, newCert(t, a, b), newCert(t, b, c), newCert(t, d, e))

	roots := []pylon.StakeholderID{a.StakeholderID(), d.StakeholderID(), e.StakeholderID()}

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		union := make(delegation.Mapping)
		for _, root := range roots {
			m, err := r.ResolveChain(root)
			assert.Nil(t, err)
			for issuer, cert := range m {
				union[issuer] = cert
			}
		}

		forest, err := r.ResolveForest(roots)
		assert.Nil(t, err)
		assert.Equal(t, union, forest)
		return nil
	}))
}

func TestResolveForestRedundantRoots(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	counting := &countingStore{Store: db}
	idx := delegation.New(counting, delegation.Options{})

	a, b, c := newKey(t), newKey(t), newKey(t)
	insert(t, idx, newCert(t, a, b), newCert(t, b, c))

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		// roots after the first are fully covered by the first chain
		roots := []pylon.StakeholderID{a.StakeholderID(), b.StakeholderID(), a.StakeholderID()}
		_, err := r.ResolveForest(roots)
		assert.Nil(t, err)
		return nil
	}))
	// a, b and the terminal miss of c; the redundant roots cost nothing
	assert.Equal(t, 3, counting.gets)
}

func TestResolveEmptyStore(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()
	idx := delegation.New(db, delegation.Options{})

	a := newKey(t)

	assert.Nil(t, idx.View(func(r *delegation.Reader) error {
		m, err := r.ResolveChain(a.StakeholderID())
		assert.Nil(t, err)
		assert.Equal(t, delegation.Mapping{}, m)

		m, err = r.ResolveForest(nil)
		assert.Nil(t, err)
		assert.Equal(t, delegation.Mapping{}, m)
		return nil
	}))
}
