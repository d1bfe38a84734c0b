package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/metrics"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// portfolioServiceImpl implements port.PortfolioService: the aggregation
// pipeline that turns wallet addresses into a priced, filtered position list.
type portfolioServiceImpl struct {
	registry port.ChainRegistry
	native   port.NativeBalanceFetcher
	// sources are tried in order per chain; the first one that yields
	// tokens wins.
	sources        []port.BalanceSource
	prices         port.PriceService
	indexerTimeout time.Duration
	maxConcurrent  int
	dustThreshold  decimal.Decimal
	logger         *zap.Logger
}

// NewPortfolioService creates the aggregation service. indexer, explorer and
// direct are the balance sources in fallback order.
func NewPortfolioService(
	registry port.ChainRegistry,
	native port.NativeBalanceFetcher,
	indexer port.BalanceSource,
	explorer port.BalanceSource,
	direct port.BalanceSource,
	prices port.PriceService,
	cfg *config.Config,
	logger *zap.Logger,
) port.PortfolioService {
	dust, err := decimal.NewFromString(cfg.Pipeline.DustThresholdUSD)
	if err != nil {
		logger.Warn("Invalid dust threshold, using 0.01", zap.String("value", cfg.Pipeline.DustThresholdUSD), zap.Error(err))
		dust = decimal.NewFromFloat(0.01)
	}
	return &portfolioServiceImpl{
		registry:       registry,
		native:         native,
		sources:        []port.BalanceSource{indexer, explorer, direct},
		prices:         prices,
		indexerTimeout: time.Duration(cfg.Alchemy.RequestTimeoutMillis) * time.Millisecond,
		maxConcurrent:  cfg.Pipeline.MaxConcurrentWallets,
		dustThreshold:  dust,
		logger:         logger.Named("PortfolioService"),
	}
}

// Aggregate fetches, merges, prices and filters balances for the address set.
// It never fails for upstream reasons: every chain, source or wallet failure
// degrades to a missing contribution.
func (s *portfolioServiceImpl) Aggregate(ctx context.Context, addresses []string) *entity.Portfolio {
	started := time.Now()
	defer func() {
		metrics.AggregationDuration.Observe(time.Since(started).Seconds())
	}()

	valid := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !utils.IsValidAddress(addr) {
			s.logger.Warn("Skipping invalid wallet address", zap.String("address", addr))
			continue
		}
		valid = append(valid, addr)
	}

	s.logger.Info("Aggregating portfolio",
		zap.Int("requested", len(addresses)),
		zap.Int("valid", len(valid)))

	var mu sync.Mutex
	var positions []entity.TokenPosition

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrent)
	for _, addr := range valid {
		eg.Go(func() error {
			walletPositions := s.collectWallet(egCtx, addr)
			mu.Lock()
			positions = append(positions, walletPositions...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		s.logger.Error("Wallet fan-out interrupted", zap.Error(err))
	}

	positions = s.price(ctx, positions)
	positions = s.filter(positions)

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].ValueUSD > positions[j].ValueUSD
	})

	var total float64
	for _, p := range positions {
		total += p.ValueUSD
	}

	s.logger.Info("Aggregation complete",
		zap.Int("positions", len(positions)),
		zap.Float64("totalValueUsd", total),
		zap.Duration("took", time.Since(started)))

	return &entity.Portfolio{Positions: positions, TotalValueUSD: total}
}

// collectWallet gathers unpriced positions for one wallet across every
// registered chain. Chain failures are logged and skipped.
func (s *portfolioServiceImpl) collectWallet(ctx context.Context, walletAddress string) []entity.TokenPosition {
	var mu sync.Mutex
	var positions []entity.TokenPosition
	// First write wins on (chain, contract); later sources never overwrite
	// a record an earlier source already produced.
	seen := make(map[string]struct{})

	eg, egCtx := errgroup.WithContext(ctx)
	for _, chain := range s.registry.ListChains() {
		eg.Go(func() error {
			native := s.nativePosition(egCtx, chain, walletAddress)
			records := s.fetchChainTokens(egCtx, chain, walletAddress)

			mu.Lock()
			defer mu.Unlock()
			if native != nil {
				positions = append(positions, *native)
			}
			for _, r := range records {
				key := fmt.Sprintf("%d-%s", r.ChainID, strings.ToLower(r.ContractAddress))
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				positions = append(positions, entity.TokenPosition{
					WalletAddress:   walletAddress,
					ChainID:         r.ChainID,
					ContractAddress: strings.ToLower(r.ContractAddress),
					RawBalance:      r.RawBalance,
					Formatted:       r.Formatted,
					Symbol:          r.Symbol,
					Name:            r.Name,
					Decimals:        r.Decimals,
					LogoURL:         r.LogoURL,
				})
			}
			return nil
		})
	}
	_ = eg.Wait()

	return positions
}

// nativePosition fetches the chain's base-currency holding. Any failure or a
// zero balance yields nil.
func (s *portfolioServiceImpl) nativePosition(ctx context.Context, chain entity.Chain, walletAddress string) *entity.TokenPosition {
	balance, err := s.native.NativeBalance(ctx, chain, walletAddress)
	if err != nil {
		s.logger.Warn("Native balance fetch failed, treating as zero",
			zap.String("chain", chain.Name),
			zap.String("address", walletAddress),
			zap.Error(err))
		return nil
	}
	if balance == nil || balance.Sign() == 0 {
		return nil
	}

	return &entity.TokenPosition{
		WalletAddress: walletAddress,
		ChainID:       chain.ID,
		RawBalance:    balance.String(),
		Formatted:     utils.FormatUnits(balance, chain.NativeDecimals),
		Symbol:        chain.NativeSymbol,
		Name:          chain.NativeSymbol,
		Decimals:      chain.NativeDecimals,
		IsNative:      true,
	}
}

// fetchChainTokens walks the source fallback chain for one (chain, wallet)
// pair: the indexing API under a short timeout, then the block explorer, then
// direct contract reads. A source that fails or yields nothing hands over to
// the next one; the indexer's bulk endpoint is known to miss tokens, so an
// empty answer is not trusted until the last source confirms it.
func (s *portfolioServiceImpl) fetchChainTokens(ctx context.Context, chain entity.Chain, walletAddress string) []entity.RawTokenRecord {
	for i, source := range s.sources {
		if !source.Supports(chain) {
			continue
		}

		fetchCtx := ctx
		var cancel context.CancelFunc
		if i == 0 {
			// Bound the indexing-API attempt so a slow upstream falls
			// through to the explorer instead of stalling the run.
			fetchCtx, cancel = context.WithTimeout(ctx, s.indexerTimeout)
		}
		records, err := source.FetchTokens(fetchCtx, chain, walletAddress)
		if cancel != nil {
			cancel()
		}

		if err != nil {
			metrics.SourceRequests.WithLabelValues(source.Name(), "error").Inc()
			s.logger.Warn("Balance source failed, falling back",
				zap.String("source", source.Name()),
				zap.String("chain", chain.Name),
				zap.Error(err))
			continue
		}
		if len(records) == 0 {
			metrics.SourceRequests.WithLabelValues(source.Name(), "empty").Inc()
			s.logger.Debug("Balance source yielded no tokens, trying next",
				zap.String("source", source.Name()),
				zap.String("chain", chain.Name))
			continue
		}

		metrics.SourceRequests.WithLabelValues(source.Name(), "ok").Inc()
		return records
	}

	s.logger.Debug("No tokens found for wallet on chain",
		zap.String("chain", chain.Name),
		zap.String("address", walletAddress))
	return nil
}

// price resolves identifiers for the whole batch, issues one quote request,
// and stamps unit price and fiat value onto each position. Testnet positions
// and unresolved tokens keep a zero price.
func (s *portfolioServiceImpl) price(ctx context.Context, positions []entity.TokenPosition) []entity.TokenPosition {
	ids := make([]string, 0, len(positions))
	for _, p := range positions {
		if s.isTestnet(p.ChainID) {
			continue
		}
		if id, ok := s.resolveID(p); ok {
			ids = append(ids, id)
		}
	}

	started := time.Now()
	quote := s.prices.FetchPrices(ctx, ids)
	metrics.PriceFetchDuration.Observe(time.Since(started).Seconds())

	for i := range positions {
		p := &positions[i]
		if s.isTestnet(p.ChainID) {
			continue
		}
		id, ok := s.resolveID(*p)
		if !ok {
			continue
		}
		price, ok := quote[id]
		if !ok || price <= 0 {
			continue
		}

		amount, err := decimal.NewFromString(p.Formatted)
		if err != nil {
			s.logger.Warn("Unparseable formatted balance, leaving position unpriced",
				zap.String("symbol", p.Symbol),
				zap.String("formatted", p.Formatted))
			continue
		}
		p.PriceUSD = price
		p.ValueUSD = amount.Mul(decimal.NewFromFloat(price)).InexactFloat64()
	}
	return positions
}

// resolveID maps a position to a price identifier, trying the symbol first
// and the contract address second.
func (s *portfolioServiceImpl) resolveID(p entity.TokenPosition) (string, bool) {
	if id, ok := s.prices.ResolvePriceID(p.Symbol); ok {
		return id, true
	}
	if p.ContractAddress != "" {
		return s.prices.ResolvePriceID(p.ContractAddress)
	}
	return "", false
}

func (s *portfolioServiceImpl) isTestnet(chainID uint64) bool {
	chain, ok := s.registry.ChainByID(chainID)
	return ok && chain.Testnet
}

// filter drops zero-balance positions and priced dust. Positions without a
// known price are kept whatever their size; dropping them would hide real
// holdings just because the quote feed does not know them.
func (s *portfolioServiceImpl) filter(positions []entity.TokenPosition) []entity.TokenPosition {
	kept := positions[:0]
	for _, p := range positions {
		amount, err := decimal.NewFromString(p.Formatted)
		if err != nil || amount.IsZero() {
			continue
		}
		if p.PriceUSD > 0 && decimal.NewFromFloat(p.ValueUSD).LessThan(s.dustThreshold) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
