package modulepay

import (
	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
)

const optKey = "modulepay"

// GenesisWeight is used to parse the json from the genesis file.
type GenesisWeight struct {
	ModuleID uint64 `json:"module_id"`
	Weight   uint16 `json:"weight"`
}

type genesisOptions struct {
	AuthorizedModule uint64          `json:"authorized_module"`
	Weights          []GenesisWeight `json:"weights"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ modpay.Initializer = (*Initializer)(nil)

// FromGenesis will parse the configuration, the authorized module and the
// initial usage weights from genesis and save them to the database.
func (*Initializer) FromGenesis(opts modpay.Options, kv modpay.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, optKey, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	var genesis genesisOptions
	if err := opts.ReadOptions(optKey, &genesis); err != nil {
		return errors.Wrap(err, "cannot load genesis options")
	}
	if genesis.AuthorizedModule != 0 {
		if err := setAuthorizedModule(kv, genesis.AuthorizedModule); err != nil {
			return err
		}
	}
	if len(genesis.Weights) != 0 {
		ids := make([]uint64, len(genesis.Weights))
		weights := make([]uint16, len(genesis.Weights))
		for i, w := range genesis.Weights {
			ids[i] = w.ModuleID
			weights[i] = w.Weight
		}
		// The table holds normalized values, same as a weight update.
		if err := replaceWeightTable(kv, ids, normalizeWeights(weights)); err != nil {
			return err
		}
	}
	return nil
}
