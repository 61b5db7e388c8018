package modulepay

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/x/modreg"
)

// DistributionTicker drives the periodic payout cycles. It must be called
// once at the beginning of every block.
//
// A cycle starts on every block height aligned to the distribution period
// and pays the distributable pool balance out to the registered modules,
// proportionally to their usage weights, in ascending module id order. Only
// a bounded number of modules is visited per block; the position within the
// cycle is persisted, so a cycle spanning many blocks survives restarts and
// continues on every following block until exhausted, regardless of period
// alignment.
type DistributionTicker struct {
	ctrl CashController
	reg  ModuleRegistry
}

var _ modpay.Ticker = (*DistributionTicker)(nil)

// NewDistributionTicker returns a ticker paying out of the pool account
// through the given ledger.
func NewDistributionTicker(ctrl CashController, reg ModuleRegistry) *DistributionTicker {
	return &DistributionTicker{ctrl: ctrl, reg: reg}
}

// Tick performs a single distribution step. Individual transfer failures
// are absorbed, so a single bad payout can never block the chain. An error
// is returned only if the store itself is broken.
func (t *DistributionTicker) Tick(ctx modpay.Context, store modpay.CacheableKVStore) (*modpay.TickResult, error) {
	height, ok := modpay.GetHeight(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrState, "block height not set")
	}
	conf, err := loadConf(store)
	if err != nil {
		return nil, err
	}
	cursor, active, err := loadCursor(store)
	if err != nil {
		return nil, err
	}
	// The period gates only the start of a new cycle. An active cycle
	// continues on every block.
	if !active && (conf.DistributionPeriod <= 0 || height%conf.DistributionPeriod != 0) {
		return &modpay.TickResult{}, nil
	}
	var start uint64
	if active {
		start = cursor
	}

	// The id list is queried fresh on every step, not frozen at cycle
	// start. Membership changes mid cycle change what gets paid.
	ids, err := t.reg.ListIDs(store)
	if err != nil {
		return nil, err
	}
	if start >= uint64(len(ids)) {
		// Nothing to visit: the registry is empty, or the list shrank
		// below the resume point. Close the cycle.
		if err := clearCursor(store); err != nil {
			return nil, err
		}
		return &modpay.TickResult{}, nil
	}

	// The payout base is snapshot once per block, so every module paid
	// within one block shares the same base. Modules paid in a later
	// block of the cycle see the already reduced pool.
	pool, err := t.ctrl.Distributable(store, PoolAccount())
	if err != nil {
		return nil, err
	}
	shares, err := loadShareTable(store)
	if err != nil {
		return nil, err
	}

	limit := uint64(conf.MaxPayoutsPerBlock)
	if limit < 1 {
		limit = 1
	}

	logger := modpay.GetLogger(ctx).With("module", "modulepay")
	var tags []common.KVPair
	var processed uint64
	for i := start; i < uint64(len(ids)) && processed < limit; i++ {
		id := ids[i]
		processed++
		owner, err := t.reg.Owner(store, id)
		if err != nil {
			if modreg.ErrModuleNotFound.Is(err) {
				// Removed mid cycle.
				continue
			}
			return nil, err
		}
		share, ok := shares[id]
		if !ok {
			// No usage recorded, nothing to pay this cycle.
			continue
		}
		amount := share.MulFloor(pool)
		if amount == 0 {
			continue
		}
		if err := t.ctrl.MoveKeepAlive(store, PoolAccount(), owner, amount); err != nil {
			logger.Error("payout failed", "id", id, "cause", err)
			continue
		}
		tags = append(tags, payoutTags(id, amount)...)
	}

	if next := start + processed; next < uint64(len(ids)) {
		if err := saveCursor(store, next); err != nil {
			return nil, err
		}
	} else if err := clearCursor(store); err != nil {
		return nil, err
	}
	return &modpay.TickResult{Tags: tags}, nil
}
