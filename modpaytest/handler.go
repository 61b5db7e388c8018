package modpaytest

import "github.com/modnet/modpay"

// Handler implements modpay.Handler interface, always returning the
// declared results and counting the calls.
type Handler struct {
	CheckCallCount   int
	CheckResult      modpay.CheckResult
	CheckErr         error
	DeliverCallCount int
	DeliverResult    modpay.DeliverResult
	DeliverErr       error
}

var _ modpay.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	h.CheckCallCount++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx modpay.Context, db modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	h.DeliverCallCount++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CallCount returns the total number of times this handler was used.
func (h *Handler) CallCount() int {
	return h.CheckCallCount + h.DeliverCallCount
}
