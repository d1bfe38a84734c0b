package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	walletA = "0x1111111111111111111111111111111111111111"
	walletB = "0x2222222222222222222222222222222222222222"
)

var (
	mainChain = entity.Chain{ID: 1, Name: "Mainnet", NativeSymbol: "ETH", NativeDecimals: 18}
	testChain = entity.Chain{ID: 11155111, Name: "Testnet", NativeSymbol: "ETH", NativeDecimals: 18, Testnet: true}
)

type fakeRegistry struct{ chains []entity.Chain }

func (f *fakeRegistry) ListChains() []entity.Chain { return f.chains }

func (f *fakeRegistry) ChainByID(id uint64) (entity.Chain, bool) {
	for _, c := range f.chains {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Chain{}, false
}

type fakeNative struct {
	balances map[uint64]*big.Int
	err      error
}

func (f *fakeNative) NativeBalance(_ context.Context, chain entity.Chain, _ string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.balances[chain.ID], nil
}

type fakeSource struct {
	name     string
	supports bool
	records  map[uint64][]entity.RawTokenRecord
	err      error
	calls    atomic.Int64
}

func (f *fakeSource) Name() string                      { return f.name }
func (f *fakeSource) Supports(_ entity.Chain) bool      { return f.supports }
func (f *fakeSource) FetchTokens(_ context.Context, chain entity.Chain, _ string) ([]entity.RawTokenRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records[chain.ID], nil
}

type fakePrices struct {
	ids    map[string]string
	quotes map[string]float64
}

func (f *fakePrices) ResolvePriceID(symbolOrAddress string) (string, bool) {
	if id, ok := f.ids[strings.ToUpper(symbolOrAddress)]; ok {
		return id, true
	}
	id, ok := f.ids[strings.ToLower(symbolOrAddress)]
	return id, ok
}

func (f *fakePrices) FetchPrices(_ context.Context, ids []string) entity.PriceQuote {
	quote := make(entity.PriceQuote)
	for _, id := range ids {
		if price, ok := f.quotes[id]; ok {
			quote[id] = price
		}
	}
	return quote
}

func newTestService(
	registry port.ChainRegistry,
	native port.NativeBalanceFetcher,
	indexer, explorer, direct port.BalanceSource,
	prices port.PriceService,
) port.PortfolioService {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return NewPortfolioService(registry, native, indexer, explorer, direct, prices, cfg, zap.NewNop())
}

func emptySource(name string) *fakeSource {
	return &fakeSource{name: name, supports: true}
}

func ethPrices() *fakePrices {
	return &fakePrices{
		ids:    map[string]string{"ETH": "ethereum", "USDC": "usd-coin"},
		quotes: map[string]float64{"ethereum": 2000, "usd-coin": 1},
	}
}

func TestAggregateValuesNativeBalance(t *testing.T) {
	native := &fakeNative{balances: map[uint64]*big.Int{
		1: big.NewInt(1500000000000000000), // 1.5 ETH
	}}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		native,
		emptySource("alchemy"), emptySource("blockscout"), emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	require.Len(t, portfolio.Positions, 1)
	p := portfolio.Positions[0]
	assert.True(t, p.IsNative)
	assert.Equal(t, "ETH", p.Symbol)
	assert.Equal(t, "1.5", p.Formatted)
	assert.Equal(t, float64(2000), p.PriceUSD)
	assert.InDelta(t, 3000, p.ValueUSD, 1e-9)
	assert.InDelta(t, 3000, portfolio.TotalValueUSD, 1e-9)
}

func TestAggregateSkipsInvalidAddresses(t *testing.T) {
	native := &fakeNative{balances: map[uint64]*big.Int{1: big.NewInt(1)}}
	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		native,
		emptySource("alchemy"), emptySource("blockscout"), emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{"not-an-address", "0x123"})

	assert.Empty(t, portfolio.Positions)
	assert.Zero(t, portfolio.TotalValueUSD)
}

func TestAggregateDropsZeroAndDustKeepsPriceless(t *testing.T) {
	indexer := &fakeSource{name: "alchemy", supports: true, records: map[uint64][]entity.RawTokenRecord{
		1: {
			// Priced dust: 0.001 USDC is below the threshold.
			{ChainID: 1, ContractAddress: "0xaaa0000000000000000000000000000000000001", Symbol: "USDC", Name: "USD Coin", Decimals: 6, RawBalance: "1000", Formatted: "0.001", Source: "alchemy"},
			// Zero display balance is dropped whatever the raw value.
			{ChainID: 1, ContractAddress: "0xaaa0000000000000000000000000000000000002", Symbol: "BROKEN", Name: "Broken", RawBalance: "12345", Formatted: "0", Source: "alchemy"},
			// No known price: kept with zero value.
			{ChainID: 1, ContractAddress: "0xaaa0000000000000000000000000000000000003", Symbol: "OBSCURE", Name: "Obscure", Decimals: 18, RawBalance: "5000000000000000000", Formatted: "5", Source: "alchemy"},
		},
	}}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		&fakeNative{},
		indexer, emptySource("blockscout"), emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	require.Len(t, portfolio.Positions, 1)
	p := portfolio.Positions[0]
	assert.Equal(t, "OBSCURE", p.Symbol)
	assert.Zero(t, p.PriceUSD)
	assert.Zero(t, p.ValueUSD)
	assert.Zero(t, portfolio.TotalValueUSD)
}

func TestAggregateFallsBackWhenIndexerFails(t *testing.T) {
	indexer := &fakeSource{name: "alchemy", supports: true, err: errors.New("upstream down")}
	explorer := &fakeSource{name: "blockscout", supports: true, records: map[uint64][]entity.RawTokenRecord{
		1: {
			{ChainID: 1, ContractAddress: "0xbbb0000000000000000000000000000000000001", Symbol: "USDC", Name: "USD Coin", Decimals: 6, RawBalance: "5000000", Formatted: "5", Source: "blockscout"},
		},
	}}
	direct := emptySource("contract")

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		&fakeNative{},
		indexer, explorer, direct,
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	require.Len(t, portfolio.Positions, 1)
	assert.Equal(t, "USDC", portfolio.Positions[0].Symbol)
	assert.InDelta(t, 5, portfolio.Positions[0].ValueUSD, 1e-9)

	// The explorer answered, so the direct-contract source is never reached.
	assert.Equal(t, int64(0), direct.calls.Load())
}

func TestAggregateEmptyIndexerFallsThrough(t *testing.T) {
	indexer := emptySource("alchemy")
	explorer := &fakeSource{name: "blockscout", supports: true, records: map[uint64][]entity.RawTokenRecord{
		1: {
			{ChainID: 1, ContractAddress: "0xeee0000000000000000000000000000000000001", Symbol: "USDC", Name: "USD Coin", Decimals: 6, RawBalance: "5000000", Formatted: "5", Source: "blockscout"},
		},
	}}
	direct := emptySource("contract")

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		&fakeNative{},
		indexer, explorer, direct,
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	// The indexer's empty answer is not trusted; the explorer's record
	// must surface.
	require.Len(t, portfolio.Positions, 1)
	assert.Equal(t, "USDC", portfolio.Positions[0].Symbol)
	assert.InDelta(t, 5, portfolio.Positions[0].ValueUSD, 1e-9)

	assert.Equal(t, int64(1), indexer.calls.Load())
	assert.Equal(t, int64(1), explorer.calls.Load())
	// The explorer yielded tokens, so the walk stops there.
	assert.Equal(t, int64(0), direct.calls.Load())
}

func TestAggregateAllSourcesEmpty(t *testing.T) {
	indexer := emptySource("alchemy")
	explorer := emptySource("blockscout")
	direct := emptySource("contract")

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		&fakeNative{},
		indexer, explorer, direct,
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	assert.Empty(t, portfolio.Positions)
	// Every source in the chain gets its turn before the wallet counts
	// as empty.
	assert.Equal(t, int64(1), indexer.calls.Load())
	assert.Equal(t, int64(1), explorer.calls.Load())
	assert.Equal(t, int64(1), direct.calls.Load())
}

func TestAggregateFirstWriteWinsOnDuplicates(t *testing.T) {
	explorer := &fakeSource{name: "blockscout", supports: true, records: map[uint64][]entity.RawTokenRecord{
		1: {
			{ChainID: 1, ContractAddress: "0xCCC0000000000000000000000000000000000001", Symbol: "USDC", Name: "USD Coin", Decimals: 6, RawBalance: "5000000", Formatted: "5", Source: "blockscout"},
			// Same contract in different casing: the first record wins.
			{ChainID: 1, ContractAddress: "0xccc0000000000000000000000000000000000001", Symbol: "FAKE", Name: "Impostor", Decimals: 6, RawBalance: "9000000", Formatted: "9", Source: "blockscout"},
		},
	}}
	indexer := &fakeSource{name: "alchemy", supports: false}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		&fakeNative{},
		indexer, explorer, emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	require.Len(t, portfolio.Positions, 1)
	p := portfolio.Positions[0]
	assert.Equal(t, "USDC", p.Symbol)
	assert.Equal(t, "5", p.Formatted)
	assert.Equal(t, "0xccc0000000000000000000000000000000000001", p.ContractAddress)
}

func TestAggregateTestnetStaysUnpriced(t *testing.T) {
	native := &fakeNative{balances: map[uint64]*big.Int{
		testChain.ID: big.NewInt(1000000000000000000), // 1 ETH
	}}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{testChain}},
		native,
		emptySource("alchemy"), emptySource("blockscout"), emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	require.Len(t, portfolio.Positions, 1)
	p := portfolio.Positions[0]
	assert.Equal(t, "1", p.Formatted)
	assert.Zero(t, p.PriceUSD)
	assert.Zero(t, p.ValueUSD)
	assert.Zero(t, portfolio.TotalValueUSD)
}

func TestAggregateNativeFailureDegradesToZero(t *testing.T) {
	native := &fakeNative{err: errors.New("rpc unreachable")}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		native,
		emptySource("alchemy"), emptySource("blockscout"), emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletA})

	assert.Empty(t, portfolio.Positions)
	assert.Zero(t, portfolio.TotalValueUSD)
}

func TestAggregateSortsByValueDescending(t *testing.T) {
	native := &fakeNative{balances: map[uint64]*big.Int{
		1: big.NewInt(1000000000000000000), // 1 ETH = 2000 USD
	}}
	explorer := &fakeSource{name: "blockscout", supports: true, records: map[uint64][]entity.RawTokenRecord{
		1: {
			{ChainID: 1, ContractAddress: "0xddd0000000000000000000000000000000000001", Symbol: "USDC", Name: "USD Coin", Decimals: 6, RawBalance: "50000000", Formatted: "50", Source: "blockscout"},
		},
	}}

	svc := newTestService(
		&fakeRegistry{chains: []entity.Chain{mainChain}},
		native,
		&fakeSource{name: "alchemy", supports: false}, explorer, emptySource("contract"),
		ethPrices(),
	)

	portfolio := svc.Aggregate(context.Background(), []string{walletB})

	require.Len(t, portfolio.Positions, 2)
	assert.Equal(t, "ETH", portfolio.Positions[0].Symbol)
	assert.Equal(t, "USDC", portfolio.Positions[1].Symbol)
	assert.InDelta(t, 2050, portfolio.TotalValueUSD, 1e-9)
}
