package funds

import (
	"encoding/binary"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// accountPrefix is the key space of all account balances.
const accountPrefix = "funds:acc:"

func accountKey(addr modpay.Address) []byte {
	return append([]byte(accountPrefix), addr...)
}

// loadBalance returns the balance stored for the given address. A missing
// account is a zero balance.
func loadBalance(db modpay.ReadOnlyKVStore, addr modpay.Address) (uint64, error) {
	raw, err := db.Get(accountKey(addr))
	if err != nil {
		return 0, errors.Wrap(err, "cannot load account")
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "malformed account value: %x", raw)
	}
	return binary.BigEndian.Uint64(raw), nil
}

func storeBalance(db modpay.KVStore, addr modpay.Address, balance uint64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, balance)
	return errors.Wrap(db.Set(accountKey(addr), raw), "cannot store account")
}
