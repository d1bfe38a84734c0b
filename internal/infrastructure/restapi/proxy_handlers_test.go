package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"portfolio_tracker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeQuotes struct {
	body  []byte
	err   error
	calls atomic.Int64
}

func (f *fakeQuotes) SimplePricesRaw(_ context.Context, _ []string) ([]byte, error) {
	f.calls.Add(1)
	return f.body, f.err
}

type fakeExplorer struct {
	body []byte
	err  error
}

func (f *fakeExplorer) TokenListRaw(_ context.Context, _, _ string) ([]byte, error) {
	return f.body, f.err
}

type fakeTokenList struct {
	body []byte
	err  error
}

func (f *fakeTokenList) FetchRaw(_ context.Context) ([]byte, error) {
	return f.body, f.err
}

type fakeRegistry struct{ chains []entity.Chain }

func (f *fakeRegistry) ListChains() []entity.Chain { return f.chains }

func (f *fakeRegistry) ChainByID(id uint64) (entity.Chain, bool) {
	for _, c := range f.chains {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Chain{}, false
}

func newProxyRouter(quotes *fakeQuotes, explorer *fakeExplorer, tokenList *fakeTokenList) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := &fakeRegistry{chains: []entity.Chain{
		{ID: 10, Name: "OP Mainnet", ExplorerAPIURL: "https://optimism.blockscout.com/api"},
		{ID: 11155111, Name: "Sepolia"},
	}}
	h := NewProxyHandler(quotes, explorer, tokenList, registry, time.Minute, time.Minute, time.Hour, zap.NewNop())

	router := gin.New()
	router.GET("/api/prices", h.GetPricesHandler)
	router.GET("/api/blockscout", h.GetBlockscoutHandler)
	router.GET("/api/token-list", h.GetTokenListHandler)
	return router
}

func doRequest(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetPricesHandler(t *testing.T) {
	quotes := &fakeQuotes{body: []byte(`{"ethereum":{"usd":2000}}`)}
	router := newProxyRouter(quotes, &fakeExplorer{}, &fakeTokenList{})

	w := doRequest(router, "/api/prices?ids=ethereum")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ethereum":{"usd":2000}}`, w.Body.String())

	// Identifier-order permutations share one cache entry.
	quotes.body = []byte(`{"ethereum":{"usd":2000},"usd-coin":{"usd":1}}`)
	doRequest(router, "/api/prices?ids=ethereum,usd-coin")
	doRequest(router, "/api/prices?ids=usd-coin,ethereum")
	assert.Equal(t, int64(2), quotes.calls.Load())
}

func TestGetPricesHandlerMissingIDs(t *testing.T) {
	router := newProxyRouter(&fakeQuotes{}, &fakeExplorer{}, &fakeTokenList{})

	w := doRequest(router, "/api/prices")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "/api/prices?ids=,,")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPricesHandlerUpstreamFailure(t *testing.T) {
	router := newProxyRouter(&fakeQuotes{err: errors.New("rate limited")}, &fakeExplorer{}, &fakeTokenList{})

	w := doRequest(router, "/api/prices?ids=ethereum")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestGetBlockscoutHandler(t *testing.T) {
	explorer := &fakeExplorer{body: []byte(`{"status":"1","message":"OK","result":[]}`)}
	router := newProxyRouter(&fakeQuotes{}, explorer, &fakeTokenList{})

	w := doRequest(router, "/api/blockscout?chainId=10&address=0x1111111111111111111111111111111111111111")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"1","message":"OK","result":[]}`, w.Body.String())
}

func TestGetBlockscoutHandlerBadRequests(t *testing.T) {
	router := newProxyRouter(&fakeQuotes{}, &fakeExplorer{}, &fakeTokenList{})

	w := doRequest(router, "/api/blockscout?address=0x1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "/api/blockscout?chainId=abc&address=0x1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Registered chain without an explorer.
	w = doRequest(router, "/api/blockscout?chainId=11155111&address=0x1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown chain.
	w = doRequest(router, "/api/blockscout?chainId=42&address=0x1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBlockscoutHandlerUpstreamFailure(t *testing.T) {
	router := newProxyRouter(&fakeQuotes{}, &fakeExplorer{err: errors.New("timeout")}, &fakeTokenList{})

	w := doRequest(router, "/api/blockscout?chainId=10&address=0x1111111111111111111111111111111111111111")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"0"`)
	assert.Contains(t, w.Body.String(), `"result":[]`)
}

func TestGetTokenListHandler(t *testing.T) {
	tokenList := &fakeTokenList{body: []byte(`{"name":"List","tokens":[]}`)}
	router := newProxyRouter(&fakeQuotes{}, &fakeExplorer{}, tokenList)

	w := doRequest(router, "/api/token-list")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"List","tokens":[]}`, w.Body.String())
}

func TestGetTokenListHandlerUpstreamFailure(t *testing.T) {
	router := newProxyRouter(&fakeQuotes{}, &fakeExplorer{}, &fakeTokenList{err: errors.New("unreachable")})

	w := doRequest(router, "/api/token-list")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
