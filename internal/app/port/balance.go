package port

import (
	"context"
	"math/big"

	"portfolio_tracker/internal/domain/entity"
)

// BalanceSource is the common capability all three token-balance providers
// implement. FetchTokens returns the normalized records it could resolve for
// one (chain, wallet) pair; an error means the source failed entirely and the
// caller should treat the result as empty, not abort.
type BalanceSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Supports reports whether the source can serve the given chain at all.
	Supports(chain entity.Chain) bool

	FetchTokens(ctx context.Context, chain entity.Chain, walletAddress string) ([]entity.RawTokenRecord, error)
}

// NativeBalanceFetcher fetches a chain's base-currency holding for a wallet.
type NativeBalanceFetcher interface {
	NativeBalance(ctx context.Context, chain entity.Chain, walletAddress string) (*big.Int, error)
}
