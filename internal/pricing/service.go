package pricing

import (
	"context"
	"sort"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Service implements port.PriceService: identifier resolution plus batched
// quote fetching with a short-TTL snapshot cache.
type Service struct {
	resolver   *Resolver
	quotes     *client.CoinGeckoClient
	priceCache *cache.Cache
	logger     *zap.Logger
}

// NewService creates a price service. cacheTTL bounds how long a fetched unit
// price is reused across aggregation runs.
func NewService(resolver *Resolver, quotes *client.CoinGeckoClient, cacheTTL time.Duration, logger *zap.Logger) port.PriceService {
	return &Service{
		resolver:   resolver,
		quotes:     quotes,
		priceCache: cache.New(cacheTTL, 10*time.Minute),
		logger:     logger.Named("PriceService"),
	}
}

// ResolvePriceID maps a symbol or contract address to a price identifier.
func (s *Service) ResolvePriceID(symbolOrAddress string) (string, bool) {
	return s.resolver.ResolvePriceID(symbolOrAddress)
}

// FetchPrices returns a USD price snapshot for the identifier set. Cached
// identifiers are served from memory; the rest go out in one batched request.
// Any upstream failure degrades to missing entries, never an error.
func (s *Service) FetchPrices(ctx context.Context, ids []string) entity.PriceQuote {
	quote := make(entity.PriceQuote, len(ids))
	if len(ids) == 0 {
		return quote
	}

	seen := make(map[string]struct{}, len(ids))
	var missing []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if cached, found := s.priceCache.Get(id); found {
			if price, ok := cached.(float64); ok {
				quote[id] = price
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return quote
	}
	sort.Strings(missing)

	prices, err := s.quotes.SimplePrices(ctx, missing)
	if err != nil {
		s.logger.Warn("Price fetch failed, continuing with cached prices only",
			zap.Int("missingCount", len(missing)),
			zap.Error(err))
		return quote
	}

	for id, price := range prices {
		quote[id] = price.USD
		s.priceCache.Set(id, price.USD, cache.DefaultExpiration)
	}
	s.logger.Debug("Fetched price batch",
		zap.Int("requested", len(missing)),
		zap.Int("returned", len(prices)))
	return quote
}
