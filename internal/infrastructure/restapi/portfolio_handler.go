package restapi

import (
	"net/http"
	"strings"

	"portfolio_tracker/internal/app/port"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the aggregated portfolio endpoint.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ps port.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: ps}
}

// GetPortfolioHandler handles GET /api/v1/portfolio?addresses=0x..,0x..
// Aggregation never fails for upstream reasons, so any request with at least
// one address answers 200 with whatever could be resolved.
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	raw := c.Query("addresses")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addresses query parameter is required"})
		return
	}

	var addresses []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addresses query parameter is required"})
		return
	}

	portfolio := h.portfolioService.Aggregate(c.Request.Context(), addresses)
	c.JSON(http.StatusOK, portfolio)
}
