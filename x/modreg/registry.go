package modreg

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// Registry provides access to the module records without exposing the
// storage layout to other extensions.
type Registry struct{}

// NewRegistry returns a module registry.
func NewRegistry() Registry {
	return Registry{}
}

// Exists returns true if a record is registered under the given id.
func (Registry) Exists(db modpay.ReadOnlyKVStore, id uint64) (bool, error) {
	ok, err := db.Has(moduleKey(id))
	return ok, errors.Wrap(err, "cannot check module")
}

// Get returns the record registered under the given id, or
// ErrModuleNotFound.
func (Registry) Get(db modpay.ReadOnlyKVStore, id uint64) (*Module, error) {
	raw, err := db.Get(moduleKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load module")
	}
	if raw == nil {
		return nil, errors.Wrapf(ErrModuleNotFound, "module %d", id)
	}
	var m Module
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "module %d", id)
	}
	return &m, nil
}

// Owner returns the owner address of the module registered under the given
// id, or ErrModuleNotFound.
func (r Registry) Owner(db modpay.ReadOnlyKVStore, id uint64) (modpay.Address, error) {
	m, err := r.Get(db, id)
	if err != nil {
		return nil, err
	}
	return m.Owner, nil
}

// ListIDs returns the ids of all registered modules, in ascending order.
func (Registry) ListIDs(db modpay.ReadOnlyKVStore) ([]uint64, error) {
	start, end := prefixRange([]byte(modulePrefix))
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate modules")
	}
	defer it.Close()

	var ids []uint64
	for it.Valid() {
		key := it.Key()
		if len(key) != len(modulePrefix)+8 {
			return nil, errors.Wrapf(errors.ErrState, "malformed module key: %x", key)
		}
		ids = append(ids, binary.BigEndian.Uint64(key[len(modulePrefix):]))
		if err := it.Next(); err != nil {
			return nil, errors.Wrap(err, "cannot iterate modules")
		}
	}
	return ids, nil
}

// Save persists the given record, overwriting any previous record with the
// same id. This is used by the genesis initialization and by tests.
func (Registry) Save(db modpay.KVStore, m *Module) error {
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "module %d", m.ID)
	}
	return errors.Wrap(db.Set(moduleKey(m.ID), raw), "cannot store module")
}

// Delete removes the record registered under the given id. Deleting a
// missing record is a noop. This is used by tests to model modules removed
// mid cycle.
func (Registry) Delete(db modpay.KVStore, id uint64) error {
	return errors.Wrap(db.Delete(moduleKey(id)), "cannot delete module")
}
