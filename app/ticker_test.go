package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"

	"github.com/modnet/modpay"
	"github.com/modnet/modpay/errors"
	"github.com/modnet/modpay/store"
)

type tickerMock struct {
	tags []common.KVPair
	err  error
}

func (t *tickerMock) Tick(modpay.Context, modpay.CacheableKVStore) (*modpay.TickResult, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &modpay.TickResult{Tags: t.tags}, nil
}

func TestTickerChainMergesTags(t *testing.T) {
	first := common.KVPair{Key: []byte("a"), Value: []byte("1")}
	second := common.KVPair{Key: []byte("b"), Value: []byte("2")}
	chain := ChainTickers(
		&tickerMock{tags: []common.KVPair{first}},
		&tickerMock{},
		&tickerMock{tags: []common.KVPair{second}},
	)
	res, err := chain.Tick(context.Background(), store.MemStore())
	require.NoError(t, err)
	assert.Equal(t, []common.KVPair{first, second}, res.Tags)
}

func TestTickerChainStopsOnError(t *testing.T) {
	broken := errors.ErrDatabase.New("boom")
	chain := ChainTickers(
		&tickerMock{err: broken},
		&tickerMock{tags: []common.KVPair{{Key: []byte("a")}}},
	)
	_, err := chain.Tick(context.Background(), store.MemStore())
	assert.True(t, errors.ErrDatabase.Is(err))
}
