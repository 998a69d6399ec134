package service

import (
	"market-analysis/config"
	"market-analysis/internal/repository"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	SessionService   SessionService
	MarketService    MarketService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	sessionCache cache.Cache,
	validator *goValidator.Validate,
) *Service {
	sessionService := NewSessionService(cfg, log, sessionCache)
	marketService := NewMarketService(cfg, log, validator, repo.MarketAnalysisRepo)
	schedulerService := NewSchedulerService(cfg, log, sessionService, marketService)
	return &Service{
		SessionService:   sessionService,
		MarketService:    marketService,
		SchedulerService: schedulerService,
	}
}
