package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// PriceService resolves tokens to canonical price-feed identifiers and
// fetches USD unit prices for a batch of identifiers.
type PriceService interface {
	// ResolvePriceID maps a token symbol or contract address to a price-feed
	// identifier. Lookup is case-insensitive; block-listed symbols never
	// resolve. The second return is false when no identifier is known.
	ResolvePriceID(symbolOrAddress string) (string, bool)

	// FetchPrices issues one batched quote request for the identifier set.
	// It never fails: on any upstream or parse error it returns an empty
	// snapshot and callers treat missing entries as price-unknown.
	FetchPrices(ctx context.Context, ids []string) entity.PriceQuote
}

// TokenListProvider exposes the public community-maintained token list.
type TokenListProvider interface {
	// TokensForChain returns the validated list entries for one chain.
	// An empty slice means the list has no entries for the chain or the
	// upstream fetch failed.
	TokensForChain(ctx context.Context, chainID uint64) []entity.TokenListToken
}
