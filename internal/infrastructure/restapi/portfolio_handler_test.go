package restapi

import (
	"context"
	"net/http"
	"testing"

	"portfolio_tracker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePortfolioService struct {
	lastAddresses []string
	portfolio     *entity.Portfolio
}

func (f *fakePortfolioService) Aggregate(_ context.Context, addresses []string) *entity.Portfolio {
	f.lastAddresses = addresses
	return f.portfolio
}

func newPortfolioRouter(svc *fakePortfolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/portfolio", NewPortfolioHandler(svc).GetPortfolioHandler)
	return router
}

func TestGetPortfolioHandler(t *testing.T) {
	svc := &fakePortfolioService{portfolio: &entity.Portfolio{
		Positions: []entity.TokenPosition{
			{WalletAddress: "0x1111111111111111111111111111111111111111", ChainID: 1, Symbol: "ETH", Formatted: "1.5", PriceUSD: 2000, ValueUSD: 3000, IsNative: true},
		},
		TotalValueUSD: 3000,
	}}
	router := newPortfolioRouter(svc)

	w := doRequest(router, "/api/v1/portfolio?addresses=0x1111111111111111111111111111111111111111,%200x2222222222222222222222222222222222222222")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalValue":3000`)
	assert.Equal(t, []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}, svc.lastAddresses)
}

func TestGetPortfolioHandlerMissingAddresses(t *testing.T) {
	router := newPortfolioRouter(&fakePortfolioService{portfolio: &entity.Portfolio{}})

	w := doRequest(router, "/api/v1/portfolio")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "/api/v1/portfolio?addresses=,,")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
