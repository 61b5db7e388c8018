package funds

import (
	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
)

const optKey = "funds"

// GenesisAccount is used to parse the json from the genesis file.
type GenesisAccount struct {
	Address modpay.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ modpay.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (*Initializer) FromGenesis(opts modpay.Options, kv modpay.KVStore) error {
	if err := gconf.InitConfig(kv, opts, "funds", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return errors.Wrap(err, "cannot load accounts")
	}
	ctrl := NewController()
	for i, acct := range accounts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		if err := ctrl.Deposit(kv, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "account #%d deposit", i)
		}
	}
	return nil
}
