package app

import (
	"encoding/json"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...modpay.Initializer) modpay.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []modpay.Initializer
}

// FromGenesis will pass the options to every initializer in the chain.
func (c chainInitializer) FromGenesis(opts modpay.Options, kv modpay.KVStore) error {
	for _, init := range c.inits {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// ParseOptions parses the raw genesis app state document into the Options
// the initializers consume.
func ParseOptions(raw []byte) (modpay.Options, error) {
	var opts modpay.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrap(err, "cannot parse genesis options")
	}
	return opts, nil
}
