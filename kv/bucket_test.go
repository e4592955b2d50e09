// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pylonchain/pylon/kv"
	"github.com/pylonchain/pylon/lvldb"
)

func TestBucket(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	b1 := kv.Bucket("b1-").NewStore(db)
	b2 := kv.Bucket("b2-").NewStore(db)

	assert.Nil(t, b1.Put([]byte("key"), []byte("val1")))
	assert.Nil(t, b2.Put([]byte("key"), []byte("val2")))

	v1, err := b1.Get([]byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("val1"), v1)

	v2, err := b2.Get([]byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("val2"), v2)

	// raw keys carry the bucket prefix
	raw, err := db.Get([]byte("b1-key"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("val1"), raw)

	assert.Nil(t, b1.Delete([]byte("key")))
	has, err := b1.Has([]byte("key"))
	assert.Nil(t, err)
	assert.False(t, has)

	// deleting through b1 must not touch b2
	has, err = b2.Has([]byte("key"))
	assert.Nil(t, err)
	assert.True(t, has)
}

func TestBucketIterator(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	bucket := kv.Bucket("b-")
	store := bucket.NewStore(db)

	assert.Nil(t, store.Put([]byte("k1"), []byte("v1")))
	assert.Nil(t, store.Put([]byte("k2"), []byte("v2")))
	assert.Nil(t, db.Put([]byte("other"), []byte("x")))

	iter := store.NewIterator(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Nil(t, iter.Error())
	// prefix stripped, foreign keys excluded, ascending order
	assert.Equal(t, []string{"k1", "k2"}, keys)
}

func TestBucketBatch(t *testing.T) {
	db, _ := lvldb.NewMem()
	defer db.Close()

	store := kv.Bucket("b-").NewStore(db)

	batch := store.NewBatch()
	assert.Nil(t, batch.Put([]byte("k1"), []byte("v1")))
	assert.Nil(t, batch.Put([]byte("k2"), []byte("v2")))
	assert.Nil(t, batch.Delete([]byte("k1")))
	assert.Equal(t, 3, batch.Len())

	// nothing visible before write
	has, _ := store.Has([]byte("k2"))
	assert.False(t, has)

	assert.Nil(t, batch.Write())

	has, _ = store.Has([]byte("k1"))
	assert.False(t, has)
	has, _ = store.Has([]byte("k2"))
	assert.True(t, has)
}
