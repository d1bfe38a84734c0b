package utils

import "github.com/ethereum/go-ethereum/common"

// IsValidAddress reports whether s is a syntactically valid EVM address
// (0x followed by 40 hex characters, case-insensitive).
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}
