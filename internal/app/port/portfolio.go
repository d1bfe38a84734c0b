package port

import (
	"context"

	"portfolio_tracker/internal/domain/entity"
)

// ChainRegistry provides the static table of supported chains.
type ChainRegistry interface {
	ListChains() []entity.Chain
	ChainByID(id uint64) (entity.Chain, bool)
}

// PortfolioService aggregates balances for a set of wallet addresses across
// all registered chains. Aggregate never fails for upstream reasons: any
// chain, adapter, or wallet failure degrades to an empty or zero
// contribution, and the worst outcome is an undercounted portfolio.
type PortfolioService interface {
	Aggregate(ctx context.Context, addresses []string) *entity.Portfolio
}
