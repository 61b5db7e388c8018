package app

import (
	"github.com/tendermint/tendermint/libs/common"

	"github.com/modnet/modpay"
)

// TickerChain runs many tickers in sequence, merging their tags. The first
// failing ticker aborts the chain, as a ticker error means the state is
// broken and processing cannot continue.
type TickerChain []modpay.Ticker

var _ modpay.Ticker = (TickerChain)(nil)

// ChainTickers combines the given tickers into a single one.
func ChainTickers(tickers ...modpay.Ticker) TickerChain {
	return TickerChain(tickers)
}

func (t TickerChain) Tick(ctx modpay.Context, store modpay.CacheableKVStore) (*modpay.TickResult, error) {
	var tags []common.KVPair
	for _, ticker := range t {
		res, err := ticker.Tick(ctx, store)
		if err != nil {
			return nil, err
		}
		tags = append(tags, res.Tags...)
	}
	return &modpay.TickResult{Tags: tags}, nil
}
