package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// zeroBalanceSentinel is the 32-byte zero word the indexer reports for
// contracts with no balance.
const zeroBalanceSentinel = "0x0000000000000000000000000000000000000000000000000000000000000000"

// AlchemySource discovers token balances through Alchemy's bulk indexing API
// and resolves metadata per contract with bounded concurrency and pacing.
type AlchemySource struct {
	client      *client.AlchemyClient
	metaCache   *cache.Cache
	limiter     *rate.Limiter
	concurrency int
	topN        int
	logger      *zap.Logger
}

// NewAlchemySource creates the indexing-API balance source.
func NewAlchemySource(alchemyClient *client.AlchemyClient, cfg config.AlchemyConfig, logger *zap.Logger) port.BalanceSource {
	return &AlchemySource{
		client: alchemyClient,
		// Metadata is immutable per (network, contract), so entries live for
		// the process lifetime.
		metaCache:   cache.New(cache.NoExpiration, 0),
		limiter:     rate.NewLimiter(rate.Limit(cfg.MetadataRatePerSec), cfg.MetadataRatePerSec),
		concurrency: cfg.MetadataConcurrency,
		topN:        cfg.TopTokenLimit,
		logger:      logger.Named("AlchemySource"),
	}
}

// Name identifies the source in logs and metrics.
func (s *AlchemySource) Name() string { return "alchemy" }

// Supports reports whether the chain is served by the indexing API.
func (s *AlchemySource) Supports(chain entity.Chain) bool {
	return s.client.Supports(chain)
}

// FetchTokens runs the bulk non-zero balance lookup, force-includes the
// chain's priority contracts, and resolves metadata for every hit.
func (s *AlchemySource) FetchTokens(ctx context.Context, chain entity.Chain, walletAddress string) ([]entity.RawTokenRecord, error) {
	if !s.Supports(chain) {
		return nil, nil
	}

	result, err := s.client.TokenBalances(ctx, chain, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("bulk token balance lookup failed: %w", err)
	}

	nonZero := make([]client.AlchemyTokenBalance, 0, len(result.TokenBalances))
	for _, tb := range result.TokenBalances {
		if tb.TokenBalance == "" || tb.TokenBalance == zeroBalanceSentinel || tb.Error != "" {
			continue
		}
		nonZero = append(nonZero, tb)
	}

	// Cap the metadata-lookup fan-out.
	if len(nonZero) > s.topN {
		s.logger.Debug("Truncating token set to top-N",
			zap.String("chain", chain.Name),
			zap.Int("found", len(nonZero)),
			zap.Int("limit", s.topN))
		nonZero = nonZero[:s.topN]
	}

	nonZero = s.appendPriorityTokens(ctx, chain, walletAddress, nonZero)

	records := make([]entity.RawTokenRecord, 0, len(nonZero))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for _, tb := range nonZero {
		eg.Go(func() error {
			record, ok := s.buildRecord(egCtx, chain, tb)
			if !ok {
				return nil
			}
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// Goroutines never return errors; Wait only fails on context cancellation.
		return records, fmt.Errorf("metadata resolution interrupted on %s: %w", chain.Name, err)
	}

	return records, nil
}

// appendPriorityTokens force-checks the chain's priority contract list with a
// second explicit balances call, appending hits the bulk endpoint missed.
func (s *AlchemySource) appendPriorityTokens(ctx context.Context, chain entity.Chain, walletAddress string, tokens []client.AlchemyTokenBalance) []client.AlchemyTokenBalance {
	priority := priorityContracts[chain.ID]
	if len(priority) == 0 {
		return tokens
	}

	result, err := s.client.TokenBalancesFor(ctx, chain, walletAddress, priority)
	if err != nil {
		s.logger.Warn("Failed to fetch priority tokens",
			zap.String("chain", chain.Name),
			zap.Error(err))
		return tokens
	}

	known := make(map[string]struct{}, len(tokens))
	for _, tb := range tokens {
		known[strings.ToLower(tb.ContractAddress)] = struct{}{}
	}

	for _, tb := range result.TokenBalances {
		if tb.TokenBalance == "" || tb.TokenBalance == zeroBalanceSentinel || tb.Error != "" {
			continue
		}
		if _, exists := known[strings.ToLower(tb.ContractAddress)]; exists {
			continue
		}
		tokens = append(tokens, tb)
	}
	return tokens
}

// buildRecord resolves metadata for one balance entry and normalizes it.
// Returns false when the balance turns out to be zero or unparseable.
func (s *AlchemySource) buildRecord(ctx context.Context, chain entity.Chain, tb client.AlchemyTokenBalance) (entity.RawTokenRecord, bool) {
	balance, ok := utils.ParseBig(tb.TokenBalance)
	if !ok || balance.Sign() == 0 {
		return entity.RawTokenRecord{}, false
	}

	lowerContract := strings.ToLower(tb.ContractAddress)
	meta := s.metadata(ctx, chain, tb.ContractAddress)
	meta = applyMetadataPatch(lowerContract, meta)

	if meta.Symbol == "" {
		meta.Symbol = "???"
	}
	if meta.Name == "" {
		meta.Name = "Unknown"
	}

	record := entity.RawTokenRecord{
		ChainID:         chain.ID,
		ContractAddress: lowerContract,
		Symbol:          meta.Symbol,
		Name:            meta.Name,
		RawBalance:      balance.String(),
		LogoURL:         meta.LogoURL,
		Source:          s.Name(),
	}

	if meta.Decimals == nil {
		// No usable decimal count even after patching. The display balance
		// stays zero and the pipeline's zero filter drops the record.
		record.Formatted = "0"
		return record, true
	}

	record.Decimals = *meta.Decimals
	record.Formatted = utils.FormatUnits(balance, *meta.Decimals)
	return record, true
}

// metadata fetches token metadata through the process-lifetime cache,
// pacing upstream lookups to stay under the provider's rate limits.
func (s *AlchemySource) metadata(ctx context.Context, chain entity.Chain, contractAddress string) tokenMetadata {
	cacheKey := fmt.Sprintf("%d_%s", chain.ID, strings.ToLower(contractAddress))
	if cached, found := s.metaCache.Get(cacheKey); found {
		if meta, ok := cached.(tokenMetadata); ok {
			return meta
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return tokenMetadata{}
	}

	upstream, err := s.client.TokenMetadata(ctx, chain, contractAddress)
	if err != nil {
		s.logger.Warn("Failed to fetch token metadata",
			zap.String("chain", chain.Name),
			zap.String("contract", contractAddress),
			zap.Error(err))
		return tokenMetadata{}
	}

	meta := tokenMetadata{
		Symbol:  upstream.Symbol,
		Name:    upstream.Name,
		LogoURL: upstream.Logo,
	}
	if upstream.Decimals != nil && *upstream.Decimals >= 0 && *upstream.Decimals <= 255 {
		d := uint8(*upstream.Decimals)
		meta.Decimals = &d
	}

	s.metaCache.Set(cacheKey, meta, cache.NoExpiration)
	return meta
}
