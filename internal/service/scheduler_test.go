package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-analysis/internal/model"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	states []model.State
	err    error
}

func (p *recordingPublisher) PublishDigest(_ context.Context, state model.State) error {
	p.states = append(p.states, state)
	return p.err
}

func newTestScheduler(t *testing.T, repo *mockMarketRepo, cron string) SchedulerService {
	t.Helper()
	cfg := newTestConfig()
	cfg.AnalysisService.Credential = "sk-digest"
	cfg.Scheduler.MarketSummaryCron = cron

	log := logger.NewNop()
	sessions := NewSessionService(cfg, log, cache.NewCache(time.Minute, time.Minute))
	market := NewMarketService(cfg, log, goValidator.New(), repo)
	return NewSchedulerService(cfg, log, sessions, market)
}

func TestSchedulerService_RunDigest(t *testing.T) {
	repo := new(mockMarketRepo)
	scheduler := newTestScheduler(t, repo, "")
	publisher := &recordingPublisher{}

	repo.On("MarketSummary", mock.Anything, model.Credential("sk-digest"), mock.Anything).
		Return(model.SummaryResult{Summary: "green day"}, nil).Once()

	require.NoError(t, scheduler.RunDigest(context.Background(), publisher))

	require.Len(t, publisher.states, 1)
	result, ok := publisher.states[0].Op.Result()
	require.True(t, ok)
	assert.Equal(t, "green day", result.(model.SummaryResult).Summary)
}

func TestSchedulerService_RunDigestPublishesFailures(t *testing.T) {
	repo := new(mockMarketRepo)
	scheduler := newTestScheduler(t, repo, "")
	publisher := &recordingPublisher{err: errors.New("chat not found")}

	repo.On("MarketSummary", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: refused")).Once()

	err := scheduler.RunDigest(context.Background(), publisher)
	require.Error(t, err)

	require.Len(t, publisher.states, 1)
	msg, kind, failed := publisher.states[0].Op.Error()
	require.True(t, failed)
	assert.Equal(t, model.ErrorTransport, kind)
	assert.Equal(t, model.MsgConnectionFailed, msg)
}

func TestSchedulerService_Start(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		scheduler := newTestScheduler(t, new(mockMarketRepo), "")
		assert.NoError(t, scheduler.Start(context.Background(), &recordingPublisher{}))
	})

	t.Run("invalid cron", func(t *testing.T) {
		scheduler := newTestScheduler(t, new(mockMarketRepo), "every morning")
		assert.Error(t, scheduler.Start(context.Background(), &recordingPublisher{}))
	})

	t.Run("stops with context", func(t *testing.T) {
		scheduler := newTestScheduler(t, new(mockMarketRepo), "@daily")
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- scheduler.Start(ctx, &recordingPublisher{}) }()

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	})
}
