package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio_tracker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CoinGeckoClient fetches USD unit prices for batches of price identifiers.
type CoinGeckoClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a new CoinGeckoClient.
func NewCoinGeckoClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// SimplePricesRaw issues one batched /simple/price request for the identifier
// set and returns the upstream JSON body unmodified.
func (c *CoinGeckoClient) SimplePricesRaw(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("ids cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	c.logger.Debug("Requesting prices from CoinGecko", zap.Int("idCount", len(ids)))

	body, statusCode, err := doGet(ctx, c.client, requestURL, c.timeout)
	if err != nil {
		c.logger.Error("Failed to execute request to CoinGecko", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	if statusCode != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", statusCode),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("CoinGecko API request failed with status %d", statusCode)
	}
	return body, nil
}

// SimplePrices fetches and decodes USD unit prices for the identifier set.
func (c *CoinGeckoClient) SimplePrices(ctx context.Context, ids []string) (map[string]entity.USDPrice, error) {
	body, err := c.SimplePricesRaw(ctx, ids)
	if err != nil {
		return nil, err
	}

	var prices map[string]entity.USDPrice
	if err := json.Unmarshal(body, &prices); err != nil {
		c.logger.Error("Failed to unmarshal CoinGecko response", zap.ByteString("responseBody", body), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}
	return prices, nil
}

// doGet performs a GET honoring the context deadline when one is set,
// falling back to the client's default timeout otherwise.
func doGet(ctx context.Context, client *fasthttp.Client, requestURL string, timeout time.Duration) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return nil, 0, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, resp.StatusCode(), nil
}
