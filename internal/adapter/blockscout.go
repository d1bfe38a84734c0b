package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	"go.uber.org/zap"
)

// BlockscoutSource discovers token balances through per-chain Blockscout
// explorer APIs. It serves the chains the indexing API does not cover and
// acts as the fallback when the indexer is down.
type BlockscoutSource struct {
	client *client.BlockscoutClient
	logger *zap.Logger
}

// NewBlockscoutSource creates the block-explorer balance source.
func NewBlockscoutSource(blockscoutClient *client.BlockscoutClient, logger *zap.Logger) port.BalanceSource {
	return &BlockscoutSource{
		client: blockscoutClient,
		logger: logger.Named("BlockscoutSource"),
	}
}

// Name identifies the source in logs and metrics.
func (s *BlockscoutSource) Name() string { return "blockscout" }

// Supports reports whether the chain has a configured explorer API.
func (s *BlockscoutSource) Supports(chain entity.Chain) bool {
	return chain.ExplorerAPIURL != ""
}

// FetchTokens pulls the explorer's token list for the wallet and keeps the
// fungible entries that carry enough metadata to be usable.
func (s *BlockscoutSource) FetchTokens(ctx context.Context, chain entity.Chain, walletAddress string) ([]entity.RawTokenRecord, error) {
	if !s.Supports(chain) {
		return nil, nil
	}

	resp, err := s.client.TokenList(ctx, chain.ExplorerAPIURL, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("explorer token list lookup failed: %w", err)
	}

	// Status "0" with "No tokens found" is a legitimate empty wallet, not
	// an error.
	tokens := resp.Tokens()

	records := make([]entity.RawTokenRecord, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != "ERC-20" || t.ContractAddress == "" || t.Symbol == "" {
			continue
		}
		// Some explorers list the native coin as a pseudo-token under the
		// zero address; the native phase already covers it.
		if strings.EqualFold(t.ContractAddress, entity.ZeroAddress) {
			continue
		}

		balance, ok := utils.ParseBig(t.Balance)
		if !ok || balance.Sign() == 0 {
			continue
		}

		decimals := parseDecimals(t.Decimals)
		records = append(records, entity.RawTokenRecord{
			ChainID:         chain.ID,
			ContractAddress: strings.ToLower(t.ContractAddress),
			Symbol:          t.Symbol,
			Name:            t.Name,
			Decimals:        decimals,
			RawBalance:      balance.String(),
			Formatted:       utils.FormatUnits(balance, decimals),
			Source:          s.Name(),
		})
	}

	s.logger.Debug("Explorer token list fetched",
		zap.String("chain", chain.Name),
		zap.Int("entries", len(tokens)),
		zap.Int("kept", len(records)))
	return records, nil
}

// parseDecimals reads the explorer's string decimal count, defaulting to 18
// when it is missing or malformed.
func parseDecimals(raw string) uint8 {
	d, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 18
	}
	return uint8(d)
}
