package adapter

import "portfolio_tracker/internal/domain/entity"

func uint8Ptr(v uint8) *uint8 { return &v }

// metadataPatches overrides upstream token metadata for contracts known to
// report broken values. Keys are lowercase contract addresses; only fields
// the upstream left empty are filled in.
var metadataPatches = map[string]entity.MetadataPatch{ //nolint:gochecknoglobals
	// L3 on Optimism
	"0x46777c76dbbe40fabb2aab99e33ce20058e76c59": {
		Symbol:   "L3",
		Name:     "Layer3",
		Decimals: uint8Ptr(18),
	},
	// AERO on Base
	"0x940181a94a35a4569e4529a3cdfb74e38fd98631": {
		Symbol:   "AERO",
		Name:     "Aerodrome",
		Decimals: uint8Ptr(18),
		LogoURL:  "https://assets.coingecko.com/coins/images/31518/large/AERO.png",
	},
	// JESSE on Base
	"0x50f88fe97f72cd3e75b9eb4f747f59bceba80d59": {
		Symbol: "JESSE",
		Name:   "Jesse",
	},
	// TALENT on Base
	"0x9a33406165f562e16c3abd82fd1185482e01b49a": {
		Symbol: "TALENT",
		Name:   "Talent Protocol",
	},
	// cbBTC on Base
	"0xcbb7c0000ab88b473b1f5afd9ef808440eed33bf": {
		Symbol: "cbBTC",
		Name:   "Coinbase Wrapped BTC",
	},
	// MASA on Base
	"0x944824290cc12f31ae18ef51216a223ba4063092": {
		Symbol: "MASA",
		Name:   "Masa",
	},
}

// tokenMetadata is the adapter-internal normalized metadata shape.
type tokenMetadata struct {
	Symbol   string
	Name     string
	Decimals *uint8
	LogoURL  string
}

// applyMetadataPatch merges the patch table entry for a contract onto
// upstream metadata, filling only fields the upstream left empty.
func applyMetadataPatch(lowerContract string, meta tokenMetadata) tokenMetadata {
	patch, ok := metadataPatches[lowerContract]
	if !ok {
		return meta
	}
	if meta.Symbol == "" && patch.Symbol != "" {
		meta.Symbol = patch.Symbol
	}
	if meta.Name == "" && patch.Name != "" {
		meta.Name = patch.Name
	}
	if meta.Decimals == nil && patch.Decimals != nil {
		meta.Decimals = patch.Decimals
	}
	if meta.LogoURL == "" && patch.LogoURL != "" {
		meta.LogoURL = patch.LogoURL
	}
	return meta
}
