package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/rpcclient"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// AlchemyTokenBalance is one entry of an alchemy_getTokenBalances result.
// TokenBalance is a 0x-prefixed 32-byte hex integer.
type AlchemyTokenBalance struct {
	ContractAddress string `json:"contractAddress"`
	TokenBalance    string `json:"tokenBalance"`
	Error           string `json:"error,omitempty"`
}

// AlchemyTokenBalancesResult is the alchemy_getTokenBalances response payload.
type AlchemyTokenBalancesResult struct {
	Address       string                `json:"address"`
	TokenBalances []AlchemyTokenBalance `json:"tokenBalances"`
}

// AlchemyTokenMetadata is the alchemy_getTokenMetadata response payload.
// Decimals is a pointer because the upstream reports null for broken tokens.
type AlchemyTokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
	Logo     string `json:"logo"`
}

// AlchemyClient talks to Alchemy's token API over JSON-RPC, one connection
// per chain.
type AlchemyClient struct {
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	conns map[uint64]*rpc.Client
}

// NewAlchemyClient creates a new AlchemyClient.
func NewAlchemyClient(apiKey string, timeout time.Duration, logger *zap.Logger) *AlchemyClient {
	return &AlchemyClient{
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("AlchemyClient"),
		conns:   make(map[uint64]*rpc.Client),
	}
}

// Supports reports whether the chain is served by Alchemy's token API.
func (c *AlchemyClient) Supports(chain entity.Chain) bool {
	return c.apiKey != "" && chain.AlchemyNetwork != ""
}

func (c *AlchemyClient) conn(chain entity.Chain) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[chain.ID]; ok {
		return conn, nil
	}

	rpcURL := rpcclient.AlchemyRPCURL(chain, c.apiKey)
	if rpcURL == "" {
		return nil, fmt.Errorf("chain %s is not served by Alchemy", chain.Name)
	}
	conn, err := rpc.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial Alchemy for %s: %w", chain.Name, err)
	}
	c.conns[chain.ID] = conn
	return conn, nil
}

// TokenBalances fetches all non-zero ERC-20 balances the indexer knows for
// the wallet.
func (c *AlchemyClient) TokenBalances(ctx context.Context, chain entity.Chain, walletAddress string) (*AlchemyTokenBalancesResult, error) {
	return c.tokenBalances(ctx, chain, walletAddress, "erc20")
}

// TokenBalancesFor fetches balances for an explicit contract list.
func (c *AlchemyClient) TokenBalancesFor(ctx context.Context, chain entity.Chain, walletAddress string, contracts []string) (*AlchemyTokenBalancesResult, error) {
	return c.tokenBalances(ctx, chain, walletAddress, contracts)
}

func (c *AlchemyClient) tokenBalances(ctx context.Context, chain entity.Chain, walletAddress string, spec interface{}) (*AlchemyTokenBalancesResult, error) {
	conn, err := c.conn(chain)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result AlchemyTokenBalancesResult
	if err := conn.CallContext(callCtx, &result, "alchemy_getTokenBalances", walletAddress, spec); err != nil {
		return nil, fmt.Errorf("alchemy_getTokenBalances failed on %s: %w", chain.Name, err)
	}
	return &result, nil
}

// TokenMetadata fetches symbol/name/decimals/logo for one contract.
func (c *AlchemyClient) TokenMetadata(ctx context.Context, chain entity.Chain, contractAddress string) (*AlchemyTokenMetadata, error) {
	conn, err := c.conn(chain)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var meta AlchemyTokenMetadata
	if err := conn.CallContext(callCtx, &meta, "alchemy_getTokenMetadata", contractAddress); err != nil {
		return nil, fmt.Errorf("alchemy_getTokenMetadata failed for %s on %s: %w", contractAddress, chain.Name, err)
	}
	return &meta, nil
}
