package app

import (
	"regexp"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
)

// isPath is the format every message path must have.
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`)

// Router is the closed dispatcher of the application: it maps every known
// message path to exactly one handler. It implements both the Registry
// interface for the setup and the Handler interface for the execution.
type Router struct {
	routes map[string]modpay.Handler
}

var (
	_ modpay.Registry = (*Router)(nil)
	_ modpay.Handler  = (*Router)(nil)
)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]modpay.Handler),
	}
}

// Handle assigns the given handler to the path of the given message kind.
// Panics on a malformed path or a duplicate registration, as both are
// programmer errors during the application setup.
func (r *Router) Handle(m modpay.Msg, h modpay.Handler) {
	path := m.Path()
	if !isPath.MatchString(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the handler registered for the given path, or a handler
// that fails every call with ErrNotFound.
func (r *Router) handler(path string) modpay.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches the transaction to the handler registered for its
// message path.
func (r *Router) Check(ctx modpay.Context, store modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	return r.handler(modpay.GetPath(tx)).Check(ctx, store, tx)
}

// Deliver dispatches the transaction to the handler registered for its
// message path.
func (r *Router) Deliver(ctx modpay.Context, store modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	return r.handler(modpay.GetPath(tx)).Deliver(ctx, store, tx)
}

type notFoundHandler string

var _ modpay.Handler = notFoundHandler("")

func (p notFoundHandler) Check(ctx modpay.Context, store modpay.KVStore, tx modpay.Tx) (*modpay.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(p))
}

func (p notFoundHandler) Deliver(ctx modpay.Context, store modpay.KVStore, tx modpay.Tx) (*modpay.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(p))
}
