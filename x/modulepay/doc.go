/*
Package modulepay distributes pooled fee revenue to registered modules and
mediates payments reported by the authorized module.

Fee revenue accumulates on a derived pool account. Every distribution period
a payout cycle starts: the distributable pool balance is split between the
modules proportionally to their recorded usage weights and paid out in
bounded batches, one batch per block, resuming from a persisted cursor until
every module was visited.

Privileged messages (weight updates, payment reports) may only be signed by
the owner of the single currently authorized module. The authorized module
itself is selected by the configuration admin.
*/
package modulepay
