package adapter

import (
	"context"
	"fmt"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/rpcclient"
	"portfolio_tracker/internal/pkg/utils"

	"go.uber.org/zap"
)

// ContractSource is the last-resort balance source. It reads balanceOf
// directly over JSON-RPC for a known token set: the hand-maintained safety
// net merged with the public community token list.
type ContractSource struct {
	provider  *rpcclient.Provider
	tokenList port.TokenListProvider
	logger    *zap.Logger
}

// NewContractSource creates the direct-contract balance source.
func NewContractSource(provider *rpcclient.Provider, tokenList port.TokenListProvider, logger *zap.Logger) port.BalanceSource {
	return &ContractSource{
		provider:  provider,
		tokenList: tokenList,
		logger:    logger.Named("ContractSource"),
	}
}

// Name identifies the source in logs and metrics.
func (s *ContractSource) Name() string { return "contract" }

// Supports is unconditional; any chain with an RPC endpoint can be read.
func (s *ContractSource) Supports(chain entity.Chain) bool { return true }

// FetchTokens reads balanceOf for the chain's candidate token set in batched
// RPC calls and keeps the non-zero results.
func (s *ContractSource) FetchTokens(ctx context.Context, chain entity.Chain, walletAddress string) ([]entity.RawTokenRecord, error) {
	candidates := s.candidateTokens(ctx, chain)
	if len(candidates) == 0 {
		return nil, nil
	}

	client, err := s.provider.Client(chain)
	if err != nil {
		return nil, fmt.Errorf("no RPC client for %s: %w", chain.Name, err)
	}

	contracts := make([]string, len(candidates))
	for i, t := range candidates {
		contracts[i] = t.Address
	}

	balances, err := client.TokenBalances(ctx, walletAddress, contracts)
	if err != nil {
		return nil, fmt.Errorf("direct balance reads failed on %s: %w", chain.Name, err)
	}

	records := make([]entity.RawTokenRecord, 0, len(candidates))
	for i, balance := range balances {
		if balance == nil || balance.Sign() == 0 {
			continue
		}
		t := candidates[i]
		records = append(records, entity.RawTokenRecord{
			ChainID:         chain.ID,
			ContractAddress: strings.ToLower(t.Address),
			Symbol:          t.Symbol,
			Name:            t.Name,
			Decimals:        t.Decimals,
			RawBalance:      balance.String(),
			Formatted:       utils.FormatUnits(balance, t.Decimals),
			LogoURL:         t.LogoURL,
			Source:          s.Name(),
		})
	}

	s.logger.Debug("Direct contract scan finished",
		zap.String("chain", chain.Name),
		zap.Int("checked", len(candidates)),
		zap.Int("nonZero", len(records)))
	return records, nil
}

// candidateTokens merges the hand-maintained safety net with the public token
// list for a chain. The safety net wins on duplicate contracts since its
// metadata is curated.
func (s *ContractSource) candidateTokens(ctx context.Context, chain entity.Chain) []entity.TokenInfo {
	candidates := make([]entity.TokenInfo, 0, len(safetyNetTokens[chain.ID]))
	seen := make(map[string]struct{})

	for _, t := range safetyNetTokens[chain.ID] {
		candidates = append(candidates, t)
		seen[strings.ToLower(t.Address)] = struct{}{}
	}

	for _, t := range s.tokenList.TokensForChain(ctx, chain.ID) {
		lower := strings.ToLower(t.Address)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		candidates = append(candidates, entity.TokenInfo{
			ChainID:  t.ChainID,
			Address:  t.Address,
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
			LogoURL:  t.LogoURI,
		})
	}

	return candidates
}
