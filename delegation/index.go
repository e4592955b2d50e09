// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delegation implements the heavyweight-delegation certificate index:
// a persistent store of "issuer delegates block-production rights to delegate"
// certificates over an ordered kv store, with chain/forest resolution on top.
//
// The store keeps at most one certificate per issuer, so the persisted data
// forms a directed graph with out-degree <= 1 per node. Resolution walks that
// graph; a revisit during a single walk therefore signals corrupt data and is
// reported as a loop, never retried.
package delegation

import (
	"sync"

	"github.com/pylonchain/pylon/kv"
	"github.com/pylonchain/pylon/pylon"
)

// Options optional parameters for the index.
type Options struct {
	// CertCacheSize is the capacity of the certificate read cache.
	// Zero disables caching.
	CertCacheSize int
}

// Index is the heavyweight-delegation certificate index.
//
// Reads and resolution are only reachable through a Reader handed out by View,
// which holds the shared lock for the duration of the call. This makes the
// "resolution must not interleave with writers" contract a property of the
// types rather than a doc note.
type Index struct {
	store kv.Store
	cache *cache
	lock  sync.RWMutex
}

// New creates the index upon the given storage engine.
// All keys written by the index live under a reserved bucket, so the engine
// can be shared with unrelated subsystems.
func New(engine kv.Store, options Options) *Index {
	var c *cache
	if options.CertCacheSize > 0 {
		c = newCache(options.CertCacheSize)
	}
	return &Index{
		store: certBucket.NewStore(engine),
		cache: c,
	}
}

// View runs fn with a Reader, holding the shared read lock until fn returns.
// The Reader must not escape fn.
func (i *Index) View(fn func(*Reader) error) error {
	i.lock.RLock()
	defer i.lock.RUnlock()
	return fn(&Reader{i})
}

// Update runs fn with a Log staging mutations onto a fresh batch, then writes
// the batch atomically. The exclusive lock is held for the whole call.
// Nothing is written if fn returns an error.
func (i *Index) Update(fn func(*Log) error) error {
	i.lock.Lock()
	defer i.lock.Unlock()

	batch := i.store.NewBatch()
	log := i.newLog(batch)
	if err := fn(log); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	log.Commit()
	return nil
}

// NewLog creates a Log staging certificate mutations onto the given
// engine-level batch, for inclusion in the node's larger state-transition
// batch. The caller writes the batch and then calls Commit on the log, so
// that certificates cached by reads interleaved with the staging are evicted
// (see Update for the self-contained variant).
func (i *Index) NewLog(batch kv.Batch) *Log {
	return i.newLog(certBucket.NewBatch(batch))
}

func (i *Index) newLog(batch kv.Batch) *Log {
	return &Log{idx: i, batch: batch}
}

func (i *Index) purgeCache(id pylon.StakeholderID) {
	if i.cache != nil {
		i.cache.Remove(id)
	}
}
