package entity

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// RawTokenRecord is the normalized output every balance source must produce.
// RawBalance is a base-10 big-integer string; Formatted is the balance divided
// by 10^Decimals using exact integer arithmetic.
type RawTokenRecord struct {
	ChainID         uint64
	ContractAddress string
	Symbol          string
	Name            string
	Decimals        uint8
	RawBalance      string
	Formatted       string
	LogoURL         string
	// Source names the adapter that produced the record ("alchemy",
	// "blockscout", "contract").
	Source string
}

// TokenInfo holds the hand-maintained definition of a token on one chain,
// used by the direct-contract source and the metadata patch tables.
type TokenInfo struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LogoURL  string `json:"logoUrl,omitempty"`
}

// TokenListToken is one validated entry of the public community token list.
type TokenListToken struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// MetadataPatch is a partial override applied on top of upstream token
// metadata for contracts known to report broken values. Zero-value fields
// leave the upstream value untouched.
type MetadataPatch struct {
	Symbol   string
	Name     string
	Decimals *uint8
	LogoURL  string
}
