package entity

import "math/big"

// TokenPosition is a resolved holding for one (wallet, chain, contract) triple.
// An empty ContractAddress means the chain's native coin. Positions are built
// fresh on every aggregation run and never persisted.
type TokenPosition struct {
	WalletAddress   string  `json:"walletAddress"`
	ChainID         uint64  `json:"chainId"`
	ContractAddress string  `json:"contractAddress,omitempty"`
	RawBalance      string  `json:"rawBalance"`
	Formatted       string  `json:"formattedBalance"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Decimals        uint8   `json:"decimals"`
	LogoURL         string  `json:"logoUrl,omitempty"`
	PriceUSD        float64 `json:"priceUsd"`
	ValueUSD        float64 `json:"valueUsd"`
	IsNative        bool    `json:"isNative"`
}

// Portfolio is the aggregation pipeline's output: a flat position list and
// the sum of all retained fiat values.
type Portfolio struct {
	Positions     []TokenPosition `json:"positions"`
	TotalValueUSD float64         `json:"totalValue"`
}

// NativeBalance is the raw result of one native-coin fetch on one chain.
type NativeBalance struct {
	ChainID   uint64
	Symbol    string
	Decimals  uint8
	Amount    *big.Int
	Formatted string
}
