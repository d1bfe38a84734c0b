package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePriceID_SymbolCaseInsensitive(t *testing.T) {
	r := NewResolver(nil)

	for _, symbol := range []string{"USDC", "usdc", "UsDc"} {
		id, ok := r.ResolvePriceID(symbol)
		assert.True(t, ok, "symbol %q should resolve", symbol)
		assert.Equal(t, "usd-coin", id)
	}
}

func TestResolvePriceID_AddressFallback(t *testing.T) {
	r := NewResolver(nil)

	id, ok := r.ResolvePriceID("0x940181a94A35A4569E4529A3CDfB74e38FD98631")
	assert.True(t, ok)
	assert.Equal(t, "aerodrome-finance", id)
}

func TestResolvePriceID_BlockedSymbols(t *testing.T) {
	r := NewResolver(nil)

	for _, symbol := range []string{"ABTC", "rekt", "Thor"} {
		_, ok := r.ResolvePriceID(symbol)
		assert.False(t, ok, "blocked symbol %q must not resolve", symbol)
	}
}

func TestResolvePriceID_ExtraBlockedOverridesSymbolTable(t *testing.T) {
	r := NewResolver([]string{"aero"})

	_, ok := r.ResolvePriceID("AERO")
	assert.False(t, ok, "block-list must win over the symbol table")

	// The address route is unaffected by the symbol block-list.
	id, ok := r.ResolvePriceID("0x940181a94a35a4569e4529a3cdfb74e38fd98631")
	assert.True(t, ok)
	assert.Equal(t, "aerodrome-finance", id)
}

func TestResolvePriceID_Miss(t *testing.T) {
	r := NewResolver(nil)

	_, ok := r.ResolvePriceID("NOT-A-TOKEN")
	assert.False(t, ok)

	_, ok = r.ResolvePriceID("")
	assert.False(t, ok)
}
