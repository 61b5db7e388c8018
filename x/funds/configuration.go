package funds

import (
	"encoding/binary"

	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
)

// Configuration is the funds extension configuration singleton.
type Configuration struct {
	// ExistentialDeposit is the minimum balance an account must retain.
	// A keep alive transfer that would leave the sender below this value
	// fails.
	ExistentialDeposit uint64 `json:"existential_deposit"`
}

func (c *Configuration) Validate() error {
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, c.ExistentialDeposit)
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrapf(errors.ErrInput, "malformed configuration: %x", raw)
	}
	c.ExistentialDeposit = binary.BigEndian.Uint64(raw)
	return nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "funds", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
