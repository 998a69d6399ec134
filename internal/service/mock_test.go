package service

import (
	"context"
	"time"

	"market-analysis/config"
	"market-analysis/internal/dto"
	"market-analysis/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockMarketRepo struct {
	mock.Mock
}

func (m *mockMarketRepo) Analyze(ctx context.Context, credential model.Credential, req dto.AnalyzeRequest) (model.Result, error) {
	args := m.Called(ctx, credential, req)
	res, _ := args.Get(0).(model.Result)
	return res, args.Error(1)
}

func (m *mockMarketRepo) MarketSummary(ctx context.Context, credential model.Credential, req dto.MarketSummaryRequest) (model.Result, error) {
	args := m.Called(ctx, credential, req)
	res, _ := args.Get(0).(model.Result)
	return res, args.Error(1)
}

func (m *mockMarketRepo) Screen(ctx context.Context, credential model.Credential, req dto.ScreenRequest) (model.Result, error) {
	args := m.Called(ctx, credential, req)
	res, _ := args.Get(0).(model.Result)
	return res, args.Error(1)
}

func (m *mockMarketRepo) Health(ctx context.Context) (*dto.HealthResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.HealthResponse)
	return res, args.Error(1)
}

func newTestConfig() *config.Config {
	return &config.Config{
		AnalysisService: config.AnalysisService{Timeout: 5 * time.Second},
		Session:         config.Session{DefaultExpiration: time.Minute, CleanupInterval: time.Minute},
		Scheduler:       config.Scheduler{TimeoutDuration: 5 * time.Second},
	}
}
