/*
Package errors implements custom error interfaces for the module payments
engine.

Each returned error is categorized by the root error it wraps. Root errors
are registered with a unique code and extensions may register their own.
Testing an error category is done with the root error Is method:

	if errors.ErrNotFound.Is(err) {
		...
	}

Use Wrap to attach context to an error as it travels up the stack. The first
Wrap call attaches a stack trace as well.
*/
package errors
