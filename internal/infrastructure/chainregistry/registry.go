package chainregistry

import (
	"sort"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"go.uber.org/zap"
)

// Predefined chain definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.Chain{
		ID:              1,
		Name:            "Ethereum",
		NativeSymbol:    "ETH",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs: []string{"https://rpc.ankr.com/eth", "https://eth.llamarpc.com"},
		AlchemyNetwork:  "eth-mainnet",
		ExplorerAPIURL:  "https://eth.blockscout.com/api",
	}
	Optimism = entity.Chain{
		ID:              10,
		Name:            "OP Mainnet",
		NativeSymbol:    "ETH",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://mainnet.optimism.io",
		FallbackRPCURLs: []string{"https://optimism.publicnode.com"},
		AlchemyNetwork:  "opt-mainnet",
		ExplorerAPIURL:  "https://optimism.blockscout.com/api",
	}
	Base = entity.Chain{
		ID:              8453,
		Name:            "Base",
		NativeSymbol:    "ETH",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://mainnet.base.org",
		FallbackRPCURLs: []string{"https://base.publicnode.com"},
		AlchemyNetwork:  "base-mainnet",
		ExplorerAPIURL:  "https://base.blockscout.com/api",
	}
	Arbitrum = entity.Chain{
		ID:              42161,
		Name:            "Arbitrum One",
		NativeSymbol:    "ETH",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs: []string{"https://arbitrum.publicnode.com"},
		AlchemyNetwork:  "arb-mainnet",
		ExplorerAPIURL:  "https://arbitrum.blockscout.com/api",
	}
	Polygon = entity.Chain{
		ID:              137,
		Name:            "Polygon",
		NativeSymbol:    "POL",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://polygon-rpc.com",
		FallbackRPCURLs: []string{"https://polygon.publicnode.com"},
		AlchemyNetwork:  "polygon-mainnet",
		ExplorerAPIURL:  "https://polygon.blockscout.com/api",
	}
	Soneium = entity.Chain{
		ID:             1868,
		Name:           "Soneium",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		PrimaryRPCURL:  "https://rpc.soneium.org",
		ExplorerAPIURL: "https://soneium.blockscout.com/api",
	}
	Celo = entity.Chain{
		ID:              42220,
		Name:            "Celo",
		NativeSymbol:    "CELO",
		NativeDecimals:  18,
		PrimaryRPCURL:   "https://forno.celo.org",
		FallbackRPCURLs: []string{"https://rpc.ankr.com/celo"},
		ExplorerAPIURL:  "https://celo.blockscout.com/api",
	}
	Sepolia = entity.Chain{
		ID:             11155111,
		Name:           "Sepolia",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		Testnet:        true,
		PrimaryRPCURL:  "https://ethereum-sepolia-rpc.publicnode.com",
		AlchemyNetwork: "eth-sepolia",
		ExplorerAPIURL: "https://eth-sepolia.blockscout.com/api",
	}
)

// defaultChains is the ordered table the registry serves.
var defaultChains = []entity.Chain{ //nolint:gochecknoglobals
	Ethereum,
	Base,
	Optimism,
	Arbitrum,
	Polygon,
	Soneium,
	Celo,
	Sepolia,
}

// Registry implements port.ChainRegistry over the static chain table.
// It is pure and does no I/O; the only failure mode is "unknown id".
type Registry struct {
	chains []entity.Chain
	byID   map[uint64]entity.Chain
}

// NewRegistry creates a registry over the built-in chain table.
func NewRegistry(logger *zap.Logger) port.ChainRegistry {
	return NewRegistryWithChains(logger, defaultChains)
}

// NewRegistryWithChains creates a registry over an explicit chain table.
func NewRegistryWithChains(logger *zap.Logger, chains []entity.Chain) port.ChainRegistry {
	byID := make(map[uint64]entity.Chain, len(chains))
	for _, c := range chains {
		if _, dup := byID[c.ID]; dup {
			logger.Warn("Duplicate chain id in registry table, keeping the first definition", zap.Uint64("chainId", c.ID))
			continue
		}
		byID[c.ID] = c
	}

	ordered := make([]entity.Chain, 0, len(byID))
	listed := make(map[uint64]struct{}, len(byID))
	for _, c := range chains {
		if _, dup := listed[c.ID]; dup {
			continue
		}
		listed[c.ID] = struct{}{}
		ordered = append(ordered, byID[c.ID])
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	logger.Info("Chain registry initialized", zap.Int("chainCount", len(ordered)))
	return &Registry{chains: ordered, byID: byID}
}

// ListChains returns all registered chains ordered by chain id.
func (r *Registry) ListChains() []entity.Chain {
	out := make([]entity.Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// ChainByID returns the chain with the given id, or false when unknown.
func (r *Registry) ChainByID(id uint64) (entity.Chain, bool) {
	c, ok := r.byID[id]
	return c, ok
}
