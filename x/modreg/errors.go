package modreg

import "github.com/modnet/modpay/errors"

var (
	// ErrModuleNotFound is returned when referencing a module id that
	// has no registry record.
	ErrModuleNotFound = errors.Register(1010, "module not found")
)
