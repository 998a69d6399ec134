package repository

import (
	"market-analysis/config"
	"market-analysis/pkg/logger"
)

type Repository struct {
	MarketAnalysisRepo MarketAnalysisRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) *Repository {
	return &Repository{
		MarketAnalysisRepo: NewMarketAnalysisRepository(cfg, log),
	}
}
