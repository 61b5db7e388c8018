package modulepay

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

const (
	// authorizedKey stores the id of the single module granted privileged
	// call rights. A missing value means the default id 0.
	authorizedKey = "modulepay:authorized"

	// cursorKey stores the resume index of the payout cycle in progress.
	// A missing value means no cycle is active.
	cursorKey = "modulepay:cursor"

	// weightPrefix is the key space of the usage weight table, one entry
	// per module id. Entries are stored under the big endian encoded id,
	// so iteration order is ascending id order.
	weightPrefix = "modulepay:usage:"
)

// PoolAccount returns the address of the account holding fee revenue that
// awaits distribution. The address is fixed for the lifetime of the chain.
func PoolAccount() modpay.Address {
	return modpay.NewCondition("modpay", "pool", []byte("fees")).Address()
}

func loadAuthorizedModule(db modpay.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get([]byte(authorizedKey))
	if err != nil {
		return 0, errors.Wrap(err, "cannot load authorized module")
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "malformed authorized module: %x", raw)
	}
	return binary.BigEndian.Uint64(raw), nil
}

func setAuthorizedModule(db modpay.KVStore, id uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, id)
	return errors.Wrap(db.Set([]byte(authorizedKey), raw), "cannot store authorized module")
}

// loadCursor returns the resume index of the active payout cycle. The
// second return value is false if no cycle is active.
func loadCursor(db modpay.ReadOnlyKVStore) (uint64, bool, error) {
	raw, err := db.Get([]byte(cursorKey))
	if err != nil {
		return 0, false, errors.Wrap(err, "cannot load cursor")
	}
	if raw == nil {
		return 0, false, nil
	}
	if len(raw) != 8 {
		return 0, false, errors.Wrapf(errors.ErrState, "malformed cursor: %x", raw)
	}
	return binary.BigEndian.Uint64(raw), true, nil
}

func saveCursor(db modpay.KVStore, index uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, index)
	return errors.Wrap(db.Set([]byte(cursorKey), raw), "cannot store cursor")
}

func clearCursor(db modpay.KVStore) error {
	return errors.Wrap(db.Delete([]byte(cursorKey)), "cannot clear cursor")
}

func weightKey(id uint64) []byte {
	key := make([]byte, len(weightPrefix)+8)
	copy(key, weightPrefix)
	binary.BigEndian.PutUint64(key[len(weightPrefix):], id)
	return key
}

// loadWeightTable returns all recorded usage weights, in ascending module
// id order.
func loadWeightTable(db modpay.ReadOnlyKVStore) ([]uint64, []uint16, error) {
	start, end := prefixRange([]byte(weightPrefix))
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot iterate weights")
	}
	defer it.Close()

	var (
		ids     []uint64
		weights []uint16
	)
	for it.Valid() {
		key := it.Key()
		if len(key) != len(weightPrefix)+8 {
			return nil, nil, errors.Wrapf(errors.ErrState, "malformed weight key: %x", key)
		}
		val := it.Value()
		if len(val) != 2 {
			return nil, nil, errors.Wrapf(errors.ErrState, "malformed weight value: %x", val)
		}
		ids = append(ids, binary.BigEndian.Uint64(key[len(weightPrefix):]))
		weights = append(weights, binary.BigEndian.Uint16(val))
		if err := it.Next(); err != nil {
			return nil, nil, errors.Wrap(err, "cannot iterate weights")
		}
	}
	return ids, weights, nil
}

// replaceWeightTable overwrites the whole usage weight table with the given
// entries. Previously stored ids not present in this call are removed.
func replaceWeightTable(db modpay.KVStore, ids []uint64, weights []uint16) error {
	old, _, err := loadWeightTable(db)
	if err != nil {
		return err
	}
	for _, id := range old {
		if err := db.Delete(weightKey(id)); err != nil {
			return errors.Wrap(err, "cannot clear weight table")
		}
	}
	for i, id := range ids {
		raw := make([]byte, 2)
		binary.BigEndian.PutUint16(raw, weights[i])
		if err := db.Set(weightKey(id), raw); err != nil {
			return errors.Wrap(err, "cannot store weight")
		}
	}
	return nil
}

// prefixRange turns a prefix into (start, end) to use with an iterator.
func prefixRange(prefix []byte) ([]byte, []byte) {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
