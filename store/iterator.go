package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

// treeIter walks a range of the btree in ascending order. The btree API
// only offers callback traversal, so a goroutine feeds the items through a
// channel to consume them step by step.
type treeIter struct {
	data    btree.Item
	hasMore bool
	read    <-chan btree.Item
	stop    chan<- struct{}
	once    sync.Once
}

func ascendTree(bt *btree.BTree, start, end []byte) *treeIter {
	read := make(chan btree.Item)
	// Buffered, so close never blocks.
	stop := make(chan struct{}, 1)
	iter := &treeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			close(read)
			return false
		}
	}

	go func() {
		switch {
		case start == nil && end == nil:
			bt.Ascend(insert)
		case start == nil:
			bt.AscendLessThan(treeKey{end}, insert)
		case end == nil:
			bt.AscendGreaterOrEqual(treeKey{start}, insert)
		default:
			bt.AscendRange(treeKey{start}, treeKey{end}, insert)
		}
		close(read)
	}()

	iter.next()
	return iter
}

func (t *treeIter) next() {
	t.data, t.hasMore = <-t.read
}

func (t *treeIter) close() {
	t.once.Do(func() {
		t.stop <- struct{}{}
	})
}

// get requires this is valid, gets what we are pointing at
func (t *treeIter) get() keyed {
	return t.data.(keyed)
}

func (t *treeIter) valid() bool {
	return t.hasMore
}

// source marks which iterator holds the current smallest key.
type source int32

const (
	cache source = iota
	backing
	both
	none
)

// mergeIter combines the cache layer iterator with the backing store
// iterator, yielding keys in ascending order and skipping keys the cache
// deleted.
type mergeIter struct {
	cache *treeIter
	back  Iterator
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(cache *treeIter, back Iterator) *mergeIter {
	iter := &mergeIter{
		cache: cache,
		back:  back,
	}
	_ = iter.skipAllDeleted()
	return iter
}

// Valid implements Iterator and returns true iff it can be read.
func (m *mergeIter) Valid() bool {
	return m.cache.valid() || m.backValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (m *mergeIter) Next() error {
	// advance either side, or both on a shared key
	switch m.firstKey() {
	case cache:
		m.cache.next()
	case both:
		m.cache.next()
		fallthrough
	case backing:
		if err := m.back.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}

	return m.skipAllDeleted()
}

// Key returns the key of the cursor.
func (m *mergeIter) Key() (key []byte) {
	switch m.firstKey() {
	case cache, both:
		return m.cache.get().Key()
	case backing:
		return m.back.Key()
	default: // none
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (m *mergeIter) Value() (value []byte) {
	switch m.firstKey() {
	case cache, both:
		return m.cache.get().(writeItem).value
	case backing:
		return m.back.Value()
	default: // none
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (m *mergeIter) Close() {
	if m.back != nil {
		m.back.Close()
	}
	m.cache.close()
}

// skipAllDeleted loops and skips any number of deleted items
func (m *mergeIter) skipAllDeleted() error {
	for {
		more, err := m.skipDeleted()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// skipDeleted advances over a single tombstone in the cache, together with
// the shadowed backing key if present. Returns true if it skipped, so the
// caller can try again.
func (m *mergeIter) skipDeleted() (bool, error) {
	src := m.firstKey()
	if src != cache && src != both {
		return false, nil
	}
	if _, ok := m.cache.get().(tombstone); !ok {
		return false, nil
	}
	m.cache.next()
	if src == both {
		if err := m.back.Next(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// firstKey selects the iterator with the lowest key if any
func (m *mergeIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !m.backValid() {
		if !m.cache.valid() {
			return none
		}
		return cache
	}
	if !m.cache.valid() {
		return backing
	}

	switch bytes.Compare(m.back.Key(), m.cache.get().Key()) {
	case -1:
		return backing
	case 1:
		return cache
	default:
		return both
	}
}

// makes sure the backing iterator is non-nil before checking validity
func (m *mergeIter) backValid() bool {
	return (m.back != nil) && m.back.Valid()
}
