package modulepay

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/gconf"
)

// Configuration is the modulepay extension configuration singleton.
type Configuration struct {
	// Admin is the only account allowed to select the authorized module
	// and to update this configuration.
	Admin modpay.Address `json:"admin"`

	// PaymentFee is the rate of each reported payment that is collected
	// into the payment pool. Must not exceed one.
	PaymentFee modpay.Fraction `json:"payment_fee"`

	// DistributionPeriod is the number of blocks between the starts of
	// two payout cycles.
	DistributionPeriod int64 `json:"distribution_period"`

	// MaxPayoutsPerBlock bounds the number of modules visited during a
	// single block. At least one module is always visited per block of an
	// active cycle.
	MaxPayoutsPerBlock uint32 `json:"max_payouts_per_block"`
}

func (c *Configuration) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin address")
	}
	if err := c.PaymentFee.Validate(); err != nil {
		return errors.Wrap(err, "payment fee")
	}
	if c.PaymentFee.Numerator > c.PaymentFee.Denominator {
		return errors.Wrap(errors.ErrState, "payment fee rate greater than one")
	}
	if c.DistributionPeriod <= 0 {
		return errors.Wrap(errors.ErrState, "distribution period must be positive")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 0, 1+len(c.Admin)+4+4+8+4)
	raw = append(raw, byte(len(c.Admin)))
	raw = append(raw, c.Admin...)
	var b4 [4]byte
	binary.BigEndian.PutUint32(b4[:], c.PaymentFee.Numerator)
	raw = append(raw, b4[:]...)
	binary.BigEndian.PutUint32(b4[:], c.PaymentFee.Denominator)
	raw = append(raw, b4[:]...)
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], uint64(c.DistributionPeriod))
	raw = append(raw, b8[:]...)
	binary.BigEndian.PutUint32(b4[:], c.MaxPayoutsPerBlock)
	raw = append(raw, b4[:]...)
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) < 1 {
		return errors.Wrap(errors.ErrInput, "malformed configuration")
	}
	adminLen := int(raw[0])
	raw = raw[1:]
	if len(raw) != adminLen+4+4+8+4 {
		return errors.Wrap(errors.ErrInput, "malformed configuration")
	}
	c.Admin = modpay.Address(raw[:adminLen]).Clone()
	raw = raw[adminLen:]
	c.PaymentFee.Numerator = binary.BigEndian.Uint32(raw[:4])
	c.PaymentFee.Denominator = binary.BigEndian.Uint32(raw[4:8])
	c.DistributionPeriod = int64(binary.BigEndian.Uint64(raw[8:16]))
	c.MaxPayoutsPerBlock = binary.BigEndian.Uint32(raw[16:20])
	return nil
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "modulepay", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
