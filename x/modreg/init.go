package modreg

import (
	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

const optKey = "modreg"

// GenesisModule is used to parse the json from the genesis file.
type GenesisModule struct {
	ID    uint64         `json:"id"`
	Owner modpay.Address `json:"owner"`
	Name  string         `json:"name"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ modpay.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial module records from genesis and save them
// to the database.
func (*Initializer) FromGenesis(opts modpay.Options, kv modpay.KVStore) error {
	var modules []GenesisModule
	if err := opts.ReadOptions(optKey, &modules); err != nil {
		return errors.Wrap(err, "cannot load modules")
	}
	registry := NewRegistry()
	for i, gm := range modules {
		m := Module{
			ID:    gm.ID,
			Owner: gm.Owner,
			Name:  gm.Name,
		}
		if err := registry.Save(kv, &m); err != nil {
			return errors.Wrapf(err, "module #%d", i)
		}
	}
	return nil
}
