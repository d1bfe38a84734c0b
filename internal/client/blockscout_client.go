package client

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ExplorerToken is one entry of a Blockscout "tokenlist" response.
type ExplorerToken struct {
	Balance         string `json:"balance"`
	ContractAddress string `json:"contractAddress"`
	Decimals        string `json:"decimals"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Type            string `json:"type"`
}

// ExplorerTokenListResponse mirrors the explorer's native JSON envelope.
// Result stays raw because the explorer puts a string there on errors.
type ExplorerTokenListResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Result  stdjson.RawMessage `json:"result"`
}

// Tokens decodes the result array; it is empty unless Status is "1".
func (r *ExplorerTokenListResponse) Tokens() []ExplorerToken {
	if r.Status != "1" || len(r.Result) == 0 {
		return nil
	}
	var tokens []ExplorerToken
	if err := json.Unmarshal(r.Result, &tokens); err != nil {
		return nil
	}
	return tokens
}

// BlockscoutClient calls per-chain Blockscout REST APIs.
type BlockscoutClient struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewBlockscoutClient creates a new BlockscoutClient.
func NewBlockscoutClient(timeout time.Duration, logger *zap.Logger) *BlockscoutClient {
	return &BlockscoutClient{
		client:  &fasthttp.Client{},
		timeout: timeout,
		logger:  logger.Named("BlockscoutClient"),
	}
}

// TokenListRaw fetches the explorer's token list for an address and returns
// the upstream JSON body unmodified.
func (c *BlockscoutClient) TokenListRaw(ctx context.Context, apiBaseURL, address string) ([]byte, error) {
	requestURL := fmt.Sprintf("%s?module=account&action=tokenlist&address=%s",
		apiBaseURL, url.QueryEscape(address))
	c.logger.Debug("Requesting token list from explorer", zap.String("url", requestURL))

	body, statusCode, err := doGet(ctx, c.client, requestURL, c.timeout)
	if err != nil {
		c.logger.Error("Failed to execute request to explorer", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	if statusCode != fasthttp.StatusOK {
		c.logger.Error("Explorer API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", statusCode),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("explorer API request to %s failed with status %d", requestURL, statusCode)
	}
	return body, nil
}

// TokenList fetches and decodes the explorer's token list envelope.
func (c *BlockscoutClient) TokenList(ctx context.Context, apiBaseURL, address string) (*ExplorerTokenListResponse, error) {
	body, err := c.TokenListRaw(ctx, apiBaseURL, address)
	if err != nil {
		return nil, err
	}

	var resp ExplorerTokenListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal explorer response", zap.ByteString("responseBody", body), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal explorer response: %w", err)
	}
	return &resp, nil
}
