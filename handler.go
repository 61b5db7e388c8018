package modpay

import (
	"encoding/json"

	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is the result of a Check call. It reports how much gas the
// transaction is allowed to consume when delivered.
type CheckResult struct {
	// Data is a machine-parseable return value, like an id of a created
	// entity.
	Data []byte

	// Log is a human readable success message.
	Log string

	// GasAllocated is the maximum units of work we allow this tx to
	// perform.
	GasAllocated int64
}

// DeliverResult is the result of a successful Deliver call.
type DeliverResult struct {
	// Data is a machine-parseable return value, like an id of a created
	// entity.
	Data []byte

	// Log is a human readable success message.
	Log string

	// Tags is a list of indexable key/value pairs produced while
	// processing the transaction. They are included in the block this
	// result was produced in.
	Tags []common.KVPair
}

// TickResult is the result of a single Tick run.
type TickResult struct {
	// Tags is a list of indexable key/value pairs produced during a
	// single tick execution. Empty tag list is a valid result.
	Tags []common.KVPair
}

// Handler is a core engine that can process a few specific messages.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Ticker is an interface used to call background tasks scheduled for
// execution at the beginning of each block.
//
// The beginning of the block does not allow for a transaction level error
// response, so it is the implementation's responsibility to absorb all
// business level failures. An error returned by Tick means the instance
// state itself is broken (ie database issues) and processing cannot
// continue.
type Ticker interface {
	Tick(ctx Context, store CacheableKVStore) (*TickResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	// Handle assigns the given handler to handle processing of every
	// message of the provided type.
	Handle(Msg, Handler)
}

// Options are the app options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and
// no error if the key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize extensions from the
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
