package gconf

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/store"
)

type testConf struct {
	Value uint64 `json:"value"`
	Valid bool   `json:"valid"`
}

func (c *testConf) Validate() error {
	if !c.Valid {
		return errors.ErrState.New("declared invalid")
	}
	return nil
}

func (c *testConf) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.Value)
	return raw, nil
}

func (c *testConf) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.ErrInput.New("malformed")
	}
	c.Value = binary.BigEndian.Uint64(raw)
	c.Valid = true
	return nil
}

func TestSaveAndLoad(t *testing.T) {
	db := store.MemStore()
	if err := Save(db, "mypkg", &testConf{Value: 42, Valid: true}); err != nil {
		t.Fatalf("cannot save: %+v", err)
	}
	var loaded testConf
	if err := Load(db, "mypkg", &loaded); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if loaded.Value != 42 {
		t.Fatalf("unexpected value: %d", loaded.Value)
	}
}

func TestSaveValidates(t *testing.T) {
	db := store.MemStore()
	if err := Save(db, "mypkg", &testConf{Value: 42}); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestLoadMissingConfiguration(t *testing.T) {
	db := store.MemStore()
	var conf testConf
	if err := Load(db, "mypkg", &conf); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := modpay.Options{
		"conf": json.RawMessage(`{"mypkg": {"value": 7, "valid": true}}`),
	}
	var conf testConf
	if err := InitConfig(db, opts, "mypkg", &conf); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}
	var loaded testConf
	if err := Load(db, "mypkg", &loaded); err != nil {
		t.Fatalf("cannot load: %+v", err)
	}
	if loaded.Value != 7 {
		t.Fatalf("unexpected value: %d", loaded.Value)
	}
}

func TestInitConfigRequiresGenesisEntry(t *testing.T) {
	db := store.MemStore()
	var conf testConf
	err := InitConfig(db, modpay.Options{}, "mypkg", &conf)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
