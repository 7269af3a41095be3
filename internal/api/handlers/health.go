package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// MarketplaceLister reports which marketplaces have a client configured.
type MarketplaceLister interface {
	Marketplaces() []domain.Marketplace
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	markets MarketplaceLister
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(m MarketplaceLister) *HealthHandler {
	return &HealthHandler{markets: m}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 when at least one marketplace client is configured,
// 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.markets == nil || len(h.markets.Marketplaces()) == 0 {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
