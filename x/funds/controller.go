package funds

import (
	"math"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// Controller manages the account balances without exposing the storage
// layout to other extensions.
type Controller struct{}

// NewController returns a funds controller.
func NewController() Controller {
	return Controller{}
}

// Balance returns the free balance of the given account. A missing account
// has a zero balance.
func (Controller) Balance(db modpay.ReadOnlyKVStore, addr modpay.Address) (uint64, error) {
	return loadBalance(db, addr)
}

// Distributable returns the part of the account balance that can be paid
// out without breaching the existential deposit. Saturates at zero.
func (Controller) Distributable(db modpay.ReadOnlyKVStore, addr modpay.Address) (uint64, error) {
	balance, err := loadBalance(db, addr)
	if err != nil {
		return 0, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	if balance <= conf.ExistentialDeposit {
		return 0, nil
	}
	return balance - conf.ExistentialDeposit, nil
}

// Deposit creates the given amount of funds on the destination account.
// This is used by the genesis initialization and by tests. It fails if the
// destination balance would overflow.
func (Controller) Deposit(db modpay.KVStore, dest modpay.Address, amount uint64) error {
	balance, err := loadBalance(db, dest)
	if err != nil {
		return err
	}
	if balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	return storeBalance(db, dest, balance+amount)
}

// MoveKeepAlive moves the given amount from the source to the destination
// account. The transfer fails with ErrInsufficientFunds if the source does
// not hold enough funds or if it would be left below the existential
// deposit.
//
// All validation happens before any write, so a failed transfer leaves no
// partial state behind.
func (Controller) MoveKeepAlive(db modpay.KVStore, src, dest modpay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}

	sender, err := loadBalance(db, src)
	if err != nil {
		return err
	}
	if sender < amount {
		return errors.Wrap(ErrInsufficientFunds, "source balance")
	}

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if sender-amount < conf.ExistentialDeposit {
		return errors.Wrap(ErrInsufficientFunds, "keep alive")
	}

	recipient, err := loadBalance(db, dest)
	if err != nil {
		return err
	}
	if recipient > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	if err := storeBalance(db, src, sender-amount); err != nil {
		return err
	}
	return storeBalance(db, dest, recipient+amount)
}
