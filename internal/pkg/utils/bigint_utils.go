package utils

import (
	"math/big"
	"strings"
)

var ten = big.NewInt(10)

// FormatUnits converts a raw integer token amount to a human-readable decimal
// string by dividing by 10^decimals with exact integer arithmetic.
// Example: amount=1234500000000000000, decimals=18 => "1.2345".
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}

	abs := new(big.Int).Abs(amount)
	if decimals == 0 {
		return amount.String()
	}

	divisor := new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	out := quo.String()
	if rem.Sign() != 0 {
		frac := rem.String()
		if pad := int(decimals) - len(frac); pad > 0 {
			frac = strings.Repeat("0", pad) + frac
		}
		frac = strings.TrimRight(frac, "0")
		out = out + "." + frac
	}
	if amount.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// ParseBig parses a big integer from either a base-10 string or a 0x-prefixed
// hex string. Returns false when the input is not a valid integer.
func ParseBig(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}
