package adapter

import "portfolio_tracker/internal/domain/entity"

// priorityContracts lists per-chain token contracts known to be missed by the
// indexing API's bulk endpoint. They are force-checked with an explicit
// balances call on every run.
var priorityContracts = map[uint64][]string{ //nolint:gochecknoglobals
	10: {
		"0x46777c76dbbe40fabb2aab99e33ce20058e76c59", // L3
	},
	8453: {
		"0x940181a94a35a4569e4529a3cdfb74e38fd98631", // AERO
		"0x50f88fe97f72cd3e75b9eb4f747f59bceba80d59", // JESSE
		"0x9a33406165f562e16c3abd82fd1185482e01b49a", // TALENT
		"0xcbb7c0000ab88b473b1f5afd9ef808440eed33bf", // cbBTC
		"0x944824290cc12f31ae18ef51216a223ba4063092", // MASA
		"0x4ed4e862860bed51a9570b96d89af5e1b0efefed", // DEGEN
		"0x532f27101965dd16442e59d40670faf5ebb142e4", // BRETT
	},
}

// safetyNetTokens is the hand-maintained per-chain token list the
// direct-contract source checks when both upstream providers come back empty.
var safetyNetTokens = map[uint64][]entity.TokenInfo{ //nolint:gochecknoglobals
	10: {
		{ChainID: 10, Address: "0x46777c76dbbe40fabb2aab99e33ce20058e76c59", Symbol: "L3", Name: "Layer3", Decimals: 18},
		{ChainID: 10, Address: "0x4200000000000000000000000000000000000042", Symbol: "OP", Name: "Optimism", Decimals: 18},
		{ChainID: 10, Address: "0x0b2c639c43a23f2514f79435a28821c062ce01d8", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	},
	8453: {
		{ChainID: 8453, Address: "0x940181a94a35a4569e4529a3cdfb74e38fd98631", Symbol: "AERO", Name: "Aerodrome", Decimals: 18},
		{ChainID: 8453, Address: "0x50f88fe97f72cd3e75b9eb4f747f59bceba80d59", Symbol: "JESSE", Name: "Jesse", Decimals: 18},
		{ChainID: 8453, Address: "0x9a33406165f562e16c3abd82fd1185482e01b49a", Symbol: "TALENT", Name: "Talent Protocol", Decimals: 18},
		{ChainID: 8453, Address: "0xcbb7c0000ab88b473b1f5afd9ef808440eed33bf", Symbol: "cbBTC", Name: "Coinbase Wrapped BTC", Decimals: 8},
		{ChainID: 8453, Address: "0x944824290cc12f31ae18ef51216a223ba4063092", Symbol: "MASA", Name: "Masa", Decimals: 18},
		{ChainID: 8453, Address: "0x4ed4e862860bed51a9570b96d89af5e1b0efefed", Symbol: "DEGEN", Name: "Degen", Decimals: 18},
		{ChainID: 8453, Address: "0x532f27101965dd16442e59d40670faf5ebb142e4", Symbol: "BRETT", Name: "Brett", Decimals: 18},
		{ChainID: 8453, Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	},
	1: {
		{ChainID: 1, Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
		{ChainID: 1, Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Symbol: "USDT", Name: "Tether USD", Decimals: 6},
		{ChainID: 1, Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},
	},
}
