package tokenlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const tokensCacheKey = "tokens"

// rawToken is an unvalidated token-list entry. Numeric fields are decoded
// into wide types so a malformed entry fails validation instead of decoding.
type rawToken struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int64  `json:"decimals"`
	LogoURI  string `json:"logoURI"`
}

type rawList struct {
	Name   string     `json:"name"`
	Tokens []rawToken `json:"tokens"`
}

// Provider fetches the public community token list once per process,
// validates it entry by entry, and serves per-chain lookups from memory.
// A failed fetch is remembered only for failureTTL, then retried on demand.
type Provider struct {
	client     *fasthttp.Client
	url        string
	timeout    time.Duration
	failureTTL time.Duration
	store      *cache.Cache
	logger     *zap.Logger
}

// NewProvider creates a token list provider.
func NewProvider(url string, timeout, failureTTL time.Duration, logger *zap.Logger) port.TokenListProvider {
	return &Provider{
		client:     &fasthttp.Client{},
		url:        url,
		timeout:    timeout,
		failureTTL: failureTTL,
		store:      cache.New(cache.NoExpiration, 10*time.Minute),
		logger:     logger.Named("TokenListProvider"),
	}
}

// TokensForChain returns the validated list entries for one chain. The first
// call fetches the list; later calls are served from memory.
func (p *Provider) TokensForChain(ctx context.Context, chainID uint64) []entity.TokenListToken {
	tokens := p.load(ctx)

	var out []entity.TokenListToken
	for _, t := range tokens {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

func (p *Provider) load(ctx context.Context) []entity.TokenListToken {
	if cached, found := p.store.Get(tokensCacheKey); found {
		if tokens, ok := cached.([]entity.TokenListToken); ok {
			return tokens
		}
	}

	body, err := p.FetchRaw(ctx)
	if err != nil {
		p.logger.Warn("Token list fetch failed, serving empty list until retry window elapses", zap.Error(err))
		p.store.Set(tokensCacheKey, []entity.TokenListToken{}, p.failureTTL)
		return nil
	}

	var list rawList
	if err := json.Unmarshal(body, &list); err != nil {
		p.logger.Warn("Token list unmarshal failed, serving empty list until retry window elapses", zap.Error(err))
		p.store.Set(tokensCacheKey, []entity.TokenListToken{}, p.failureTTL)
		return nil
	}

	tokens := ValidateTokens(list.Tokens)
	p.logger.Info("Token list loaded",
		zap.String("listName", list.Name),
		zap.Int("total", len(list.Tokens)),
		zap.Int("valid", len(tokens)))

	p.store.Set(tokensCacheKey, tokens, cache.NoExpiration)
	return tokens
}

// FetchRaw fetches the upstream token list JSON without validation.
func (p *Provider) FetchRaw(ctx context.Context) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = p.client.DoDeadline(req, resp, deadline)
	} else {
		err = p.client.DoTimeout(req, resp, p.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token list from %s: %w", p.url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("token list fetch from %s failed with status %d", p.url, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// ValidateTokens drops entries that fail basic sanitation: positive chain id,
// syntactically valid EVM address, decimals within [0,255], and an http(s)
// logo URL when one is present.
func ValidateTokens(raw []rawToken) []entity.TokenListToken {
	tokens := make([]entity.TokenListToken, 0, len(raw))
	for _, t := range raw {
		if t.ChainID <= 0 {
			continue
		}
		if !utils.IsValidAddress(t.Address) {
			continue
		}
		if t.Decimals < 0 || t.Decimals > 255 {
			continue
		}
		if t.LogoURI != "" &&
			!strings.HasPrefix(t.LogoURI, "http://") &&
			!strings.HasPrefix(t.LogoURI, "https://") {
			continue
		}
		tokens = append(tokens, entity.TokenListToken{
			ChainID:  uint64(t.ChainID),
			Address:  t.Address,
			Name:     t.Name,
			Symbol:   t.Symbol,
			Decimals: uint8(t.Decimals),
			LogoURI:  t.LogoURI,
		})
	}
	return tokens
}
