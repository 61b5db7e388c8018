package modulepay

import "github.com/modnet/modpay/errors"

var (
	// ErrNotAuthorizedModule is returned when a privileged message is not
	// signed by the owner of the currently authorized module.
	ErrNotAuthorizedModule = errors.Register(1020, "not authorized module")

	// ErrLengthMismatch is returned when the module id and weight lists of
	// a weight update have different lengths.
	ErrLengthMismatch = errors.Register(1021, "length mismatch")

	// ErrEmptyPayment is returned when a payment of zero amount is
	// reported.
	ErrEmptyPayment = errors.Register(1022, "empty payment")
)
