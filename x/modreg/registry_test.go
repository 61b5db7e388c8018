package modreg

import (
	"reflect"
	"testing"

	"github.com/modnet/modpay/modpaytest"
	"github.com/modnet/modpay/store"
)

func TestRegistryRoundTrip(t *testing.T) {
	db := store.MemStore()
	registry := NewRegistry()
	owner := modpaytest.NewCondition().Address()

	module := Module{ID: 5, Owner: owner, Name: "alpha"}
	if err := registry.Save(db, &module); err != nil {
		t.Fatalf("cannot save: %s", err)
	}

	if ok, _ := registry.Exists(db, 5); !ok {
		t.Fatal("module must exist")
	}
	got, err := registry.Get(db, 5)
	if err != nil {
		t.Fatalf("cannot get: %+v", err)
	}
	if !reflect.DeepEqual(*got, module) {
		t.Fatalf("unexpected module: %+v", got)
	}
	addr, err := registry.Owner(db, 5)
	if err != nil {
		t.Fatalf("cannot get owner: %+v", err)
	}
	if !addr.Equals(owner) {
		t.Fatalf("unexpected owner: %s", addr)
	}
}

func TestRegistryMissingModule(t *testing.T) {
	db := store.MemStore()
	registry := NewRegistry()

	if ok, _ := registry.Exists(db, 5); ok {
		t.Fatal("module must not exist")
	}
	if _, err := registry.Get(db, 5); !ErrModuleNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if _, err := registry.Owner(db, 5); !ErrModuleNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	// Deleting a missing module is a noop.
	if err := registry.Delete(db, 5); err != nil {
		t.Fatalf("cannot delete: %s", err)
	}
}

func TestRegistryListIDsAscending(t *testing.T) {
	db := store.MemStore()
	registry := NewRegistry()

	for _, id := range []uint64{9, 1, 300, 5} {
		module := Module{ID: id, Owner: modpaytest.NewCondition().Address()}
		if err := registry.Save(db, &module); err != nil {
			t.Fatalf("cannot save: %s", err)
		}
	}
	ids, err := registry.ListIDs(db)
	if err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{1, 5, 9, 300}) {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if err := registry.Delete(db, 5); err != nil {
		t.Fatalf("cannot delete: %s", err)
	}
	ids, err = registry.ListIDs(db)
	if err != nil {
		t.Fatalf("cannot list: %+v", err)
	}
	if !reflect.DeepEqual(ids, []uint64{1, 9, 300}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestModuleValidate(t *testing.T) {
	owner := modpaytest.NewCondition().Address()

	m := Module{ID: 1, Owner: owner, Name: "alpha"}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	m.Owner = owner[:4]
	if err := m.Validate(); err == nil {
		t.Fatal("short owner address must be rejected")
	}
	m.Owner = owner
	m.Name = string(make([]byte, maxNameLength+1))
	if err := m.Validate(); err == nil {
		t.Fatal("too long name must be rejected")
	}
}
