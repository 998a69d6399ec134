package http

import (
	"market-analysis/config"
	"market-analysis/internal/service"
	"market-analysis/pkg/middleware"

	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg     *config.Config
	echo    *echo.Echo
	service *service.Service
}

func NewHttpAPIHandler(cfg *config.Config, echo *echo.Echo, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:     cfg,
		echo:    echo,
		service: service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api", middleware.NewRateLimiterMiddleware(
		h.cfg.API.RateLimitPerSecond,
		h.cfg.API.RateLimitBurst,
		h.cfg.API.RateLimitExpiresIn,
	))
	h.SetupHealth(base)
}
