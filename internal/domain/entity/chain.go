package entity

// Chain holds the static definition of a supported EVM network.
// Instances are created at process start from the registry table and never mutated.
type Chain struct {
	ID              uint64   `json:"chainId" yaml:"chainId"`
	Name            string   `json:"name" yaml:"name"`
	NativeSymbol    string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeDecimals  uint8    `json:"nativeDecimals" yaml:"nativeDecimals"`
	Testnet         bool     `json:"testnet" yaml:"testnet"`
	PrimaryRPCURL   string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs []string `json:"fallbackRpcUrls,omitempty" yaml:"fallbackRpcUrls,omitempty"`
	// AlchemyNetwork is the Alchemy network slug (e.g. "eth-mainnet").
	// Empty when the chain is not served by Alchemy.
	AlchemyNetwork string `json:"alchemyNetwork,omitempty" yaml:"alchemyNetwork,omitempty"`
	// ExplorerAPIURL is the Blockscout REST API base. Empty when no explorer is known.
	ExplorerAPIURL string `json:"explorerApiUrl,omitempty" yaml:"explorerApiUrl,omitempty"`
}
