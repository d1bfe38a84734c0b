package restapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const jsonContentType = "application/json"

// PriceQuoteProxy is the raw-body surface of the quote client.
type PriceQuoteProxy interface {
	SimplePricesRaw(ctx context.Context, ids []string) ([]byte, error)
}

// ExplorerProxy is the raw-body surface of the block-explorer client.
type ExplorerProxy interface {
	TokenListRaw(ctx context.Context, apiBaseURL, address string) ([]byte, error)
}

// TokenListFetcher is the raw-body surface of the token list provider.
type TokenListFetcher interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

// ProxyHandler serves the pass-through endpoints that front rate-limited
// upstreams with a shared server-side cache.
type ProxyHandler struct {
	quotes    PriceQuoteProxy
	explorer  ExplorerProxy
	tokenList TokenListFetcher
	registry  port.ChainRegistry

	priceCache     *cache.Cache
	explorerCache  *cache.Cache
	tokenListCache *cache.Cache
	logger         *zap.Logger
}

// NewProxyHandler creates a proxy handler with per-endpoint cache TTLs.
func NewProxyHandler(
	quotes PriceQuoteProxy,
	explorer ExplorerProxy,
	tokenList TokenListFetcher,
	registry port.ChainRegistry,
	priceTTL, explorerTTL, tokenListTTL time.Duration,
	logger *zap.Logger,
) *ProxyHandler {
	return &ProxyHandler{
		quotes:         quotes,
		explorer:       explorer,
		tokenList:      tokenList,
		registry:       registry,
		priceCache:     cache.New(priceTTL, 10*time.Minute),
		explorerCache:  cache.New(explorerTTL, 10*time.Minute),
		tokenListCache: cache.New(tokenListTTL, 10*time.Minute),
		logger:         logger.Named("ProxyHandler"),
	}
}

// GetPricesHandler handles GET /api/prices?ids=a,b. The upstream body is
// passed through unmodified; failures answer 500 with an empty object so
// clients can always decode the response as a price map.
func (h *ProxyHandler) GetPricesHandler(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is required"})
		return
	}

	// Key on the sorted set so permutations of the same ids share an entry.
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	cacheKey := strings.Join(sorted, ",")

	if cached, found := h.priceCache.Get(cacheKey); found {
		if body, ok := cached.([]byte); ok {
			c.Data(http.StatusOK, jsonContentType, body)
			return
		}
	}

	body, err := h.quotes.SimplePricesRaw(c.Request.Context(), ids)
	if err != nil {
		h.logger.Warn("Price proxy upstream failed", zap.Error(err))
		c.Data(http.StatusInternalServerError, jsonContentType, []byte("{}"))
		return
	}

	h.priceCache.Set(cacheKey, body, cache.DefaultExpiration)
	c.Data(http.StatusOK, jsonContentType, body)
}

// GetBlockscoutHandler handles GET /api/blockscout?chainId=N&address=0x..
// Failures answer 500 with an empty explorer envelope so clients can decode
// the body the same way in every case.
func (h *ProxyHandler) GetBlockscoutHandler(c *gin.Context) {
	rawChainID := c.Query("chainId")
	address := c.Query("address")
	if rawChainID == "" || address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId and address query parameters are required"})
		return
	}

	chainID, err := strconv.ParseUint(rawChainID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId must be a decimal chain id"})
		return
	}

	chain, ok := h.registry.ChainByID(chainID)
	if !ok || chain.ExplorerAPIURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("no explorer configured for chain %d", chainID)})
		return
	}

	cacheKey := fmt.Sprintf("%d_%s", chainID, strings.ToLower(address))
	if cached, found := h.explorerCache.Get(cacheKey); found {
		if body, ok := cached.([]byte); ok {
			c.Data(http.StatusOK, jsonContentType, body)
			return
		}
	}

	body, err := h.explorer.TokenListRaw(c.Request.Context(), chain.ExplorerAPIURL, address)
	if err != nil {
		h.logger.Warn("Explorer proxy upstream failed",
			zap.Uint64("chainId", chainID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "0",
			"message": "upstream explorer request failed",
			"result":  []any{},
		})
		return
	}

	h.explorerCache.Set(cacheKey, body, cache.DefaultExpiration)
	c.Data(http.StatusOK, jsonContentType, body)
}

// GetTokenListHandler handles GET /api/token-list.
func (h *ProxyHandler) GetTokenListHandler(c *gin.Context) {
	const cacheKey = "token-list"
	if cached, found := h.tokenListCache.Get(cacheKey); found {
		if body, ok := cached.([]byte); ok {
			c.Data(http.StatusOK, jsonContentType, body)
			return
		}
	}

	body, err := h.tokenList.FetchRaw(c.Request.Context())
	if err != nil {
		h.logger.Warn("Token list proxy upstream failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream token list request failed"})
		return
	}

	h.tokenListCache.Set(cacheKey, body, cache.DefaultExpiration)
	c.Data(http.StatusOK, jsonContentType, body)
}
