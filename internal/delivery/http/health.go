package http

import (
	"market-analysis/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHealth(base *echo.Group) {
	base.GET("/health", h.Health)
}

// Health reports this client and, when reachable, the analysis service behind it.
func (h *HttpAPIHandler) Health(c echo.Context) error {
	health := dto.ClientHealth{
		Status:         "ok",
		ActiveSessions: h.service.SessionService.Count(),
	}

	upstream, err := h.service.MarketService.CheckHealth(c.Request().Context())
	if err != nil {
		health.Status = "degraded"
		health.UpstreamError = err.Error()
		response := dto.NewServiceUnavailableResponse("Analysis service unavailable", health)
		return c.JSON(response.Code, response)
	}

	health.Upstream = upstream
	response := dto.NewSuccessResponse("Service healthy", health)
	return c.JSON(response.Code, response)
}
