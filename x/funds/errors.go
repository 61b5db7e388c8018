package funds

import "github.com/modnet/modpay/errors"

var (
	// ErrInsufficientFunds is returned when an account does not hold
	// enough funds to pay for a transfer, including the case when the
	// transfer would drain the account below the existential deposit.
	ErrInsufficientFunds = errors.Register(1000, "insufficient funds")
)
