package rpcclient

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"portfolio_tracker/internal/config"
	"portfolio_tracker/internal/domain/entity"

	"go.uber.org/zap"
)

// Provider hands out EVM clients per chain, caching connections so repeated
// aggregation runs do not redial. It implements port.NativeBalanceFetcher.
type Provider struct {
	mu             sync.Mutex
	clients        map[uint64]*EVMClient
	apiKey         string
	connectTimeout time.Duration
	callTimeout    time.Duration
	batchSize      int
	logger         *zap.Logger
}

// NewProvider creates a client provider from the RPC configuration.
func NewProvider(cfg *config.Config, logger *zap.Logger) *Provider {
	return &Provider{
		clients:        make(map[uint64]*EVMClient),
		apiKey:         cfg.Alchemy.APIKey,
		connectTimeout: time.Duration(cfg.Rpc.ConnectTimeoutMillis) * time.Millisecond,
		callTimeout:    time.Duration(cfg.Rpc.CallTimeoutMillis) * time.Millisecond,
		batchSize:      cfg.Rpc.MaxCallsPerBatch,
		logger:         logger.Named("RPCClientProvider"),
	}
}

// Client returns a cached client for the chain, dialing on first use.
func (p *Provider) Client(chain entity.Chain) (*EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[chain.ID]; exists {
		return client, nil
	}

	p.logger.Debug("Creating new EVM client", zap.String("chain", chain.Name), zap.String("rpcPrimary", chain.PrimaryRPCURL))
	client, err := NewEVMClient(chain, p.apiKey, p.connectTimeout, p.callTimeout, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to create EVM client", zap.String("chain", chain.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", chain.Name, err)
	}

	p.clients[chain.ID] = client
	return client, nil
}

// NativeBalance fetches a wallet's native-coin balance on the given chain.
func (p *Provider) NativeBalance(ctx context.Context, chain entity.Chain, walletAddress string) (*big.Int, error) {
	client, err := p.Client(chain)
	if err != nil {
		return nil, err
	}
	return client.NativeBalance(ctx, walletAddress)
}
