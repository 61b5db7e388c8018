package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreSetGetDelete(t *testing.T) {
	db := MemStore()

	require.NoError(t, db.Set([]byte("hello"), []byte("world")))
	val, err := db.Get([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), val)
	has, err := db.Has([]byte("hello"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("hello")))
	val, err = db.Get([]byte("hello"))
	require.NoError(t, err)
	assert.Nil(t, val)
	has, err = db.Has([]byte("hello"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	wrap := db.CacheWrap()
	require.NoError(t, wrap.Set([]byte("b"), []byte("2")))
	require.NoError(t, wrap.Delete([]byte("a")))

	// The wrap observes its own changes, the parent does not yet.
	val, err := wrap.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
	val, err = wrap.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	val, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, wrap.Write())
	val, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCacheWrapDiscardDropsChanges(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	wrap := db.CacheWrap()
	require.NoError(t, wrap.Set([]byte("b"), []byte("2")))
	require.NoError(t, wrap.Delete([]byte("a")))
	wrap.Discard()

	val, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	val, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestIteratorCombinesCacheAndBackingStore(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("k1"), []byte("1")))
	require.NoError(t, db.Set([]byte("k3"), []byte("3")))
	require.NoError(t, db.Set([]byte("k5"), []byte("5")))

	wrap := db.CacheWrap()
	require.NoError(t, wrap.Set([]byte("k2"), []byte("2")))
	require.NoError(t, wrap.Delete([]byte("k3")))
	require.NoError(t, wrap.Set([]byte("k5"), []byte("five")))

	it, err := wrap.Iterator([]byte("k1"), []byte("k6"))
	require.NoError(t, err)
	defer it.Close()

	var keys, values []string
	for it.Valid() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
		require.NoError(t, it.Next())
	}
	assert.Equal(t, []string{"k1", "k2", "k5"}, keys)
	assert.Equal(t, []string{"1", "2", "five"}, values)
}
