package service

import (
	"context"
	"errors"
	"testing"

	"market-analysis/internal/dto"
	"market-analysis/internal/model"
	"market-analysis/internal/repository"
	"market-analysis/pkg/httpclient"
	"market-analysis/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMarketService(repo *mockMarketRepo) MarketService {
	return NewMarketService(newTestConfig(), logger.NewNop(), goValidator.New(), repo)
}

func newReadySession() *Session {
	sess := NewSession("test", "sk-test")
	sess.SetScreeningCriteria("dividend payers")
	return sess
}

func requireFailed(t *testing.T, state model.State, op model.Operation, kind model.ErrorKind, message string) {
	t.Helper()
	msg, gotKind, ok := state.Op.Error()
	require.True(t, ok, "expected failed state, got %s", state.Op.Status())
	assert.Equal(t, op, state.Op.Operation())
	assert.Equal(t, kind, gotKind)
	assert.Equal(t, message, msg)
}

func TestMarketService_MissingCredential(t *testing.T) {
	tests := []struct {
		name string
		run  func(svc MarketService, sess *Session) DispatchResult
		op   model.Operation
	}{
		{name: "analysis", op: model.OperationAnalysis, run: func(svc MarketService, sess *Session) DispatchResult {
			return svc.RunAnalysis(context.Background(), sess)
		}},
		{name: "summary", op: model.OperationMarketSummary, run: func(svc MarketService, sess *Session) DispatchResult {
			return svc.RunMarketSummary(context.Background(), sess)
		}},
		{name: "screening", op: model.OperationScreening, run: func(svc MarketService, sess *Session) DispatchResult {
			return svc.RunScreening(context.Background(), sess)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMarketRepo)
			svc := newTestMarketService(repo)
			sess := newReadySession()
			sess.SetCredential("   ")

			res := tt.run(svc, sess)

			requireFailed(t, res.State, tt.op, model.ErrorValidation, model.MsgMissingCredential)
			assert.False(t, res.Stale())
			repo.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "MarketSummary", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Screen", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMarketService_RunAnalysis_NoSymbols(t *testing.T) {
	for _, raw := range []string{"", "   ", " , ,"} {
		repo := new(mockMarketRepo)
		svc := newTestMarketService(repo)
		sess := newReadySession()
		sess.SetSymbols(raw)

		res := svc.RunAnalysis(context.Background(), sess)

		requireFailed(t, res.State, model.OperationAnalysis, model.ErrorValidation, model.MsgMissingSymbols)
		repo.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestMarketService_RunAnalysis_InvalidEnum(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()
	sess.SetAnalysisType(model.AnalysisType("quantum"))

	res := svc.RunAnalysis(context.Background(), sess)

	requireFailed(t, res.State, model.OperationAnalysis, model.ErrorValidation, "Invalid analysis type: quantum")
	repo.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketService_RunScreening_BlankCriteria(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()
	sess.SetScreeningCriteria("  \n ")

	res := svc.RunScreening(context.Background(), sess)

	requireFailed(t, res.State, model.OperationScreening, model.ErrorValidation, model.MsgMissingCriteria)
	repo.AssertNotCalled(t, "Screen", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketService_RunAnalysis_Success(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()
	sess.SetSymbols("aapl, googl ,MSFT,aapl")
	sess.SetAnalysisType(model.AnalysisSentiment)
	sess.SetTimePeriod(model.Period6Months)
	sess.SetCustomPrompt("focus on risk")

	expectedReq := dto.AnalyzeRequest{
		Symbols:      []string{"AAPL", "GOOGL", "MSFT"},
		AnalysisType: "sentiment",
		TimePeriod:   "6mo",
		CustomPrompt: "focus on risk",
	}
	result := model.AnalysisResult{Analysis: "bullish"}

	repo.On("Analyze",
		mock.MatchedBy(func(ctx context.Context) bool { return httpclient.RequestIDFromContext(ctx) != "" }),
		model.Credential("sk-test"),
		expectedReq,
	).Run(func(mock.Arguments) {
		assert.True(t, sess.State().Op.IsLoading())
		assert.Equal(t, model.OperationAnalysis, sess.State().Op.Operation())
	}).Return(result, nil).Once()

	res := svc.RunAnalysis(context.Background(), sess)

	require.False(t, res.Stale())
	got, ok := res.State.Op.Result()
	require.True(t, ok)
	assert.Equal(t, result, got)
	_, _, failed := res.State.Op.Error()
	assert.False(t, failed)
	repo.AssertExpectations(t)
}

func TestMarketService_RunMarketSummary_Envelope(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	repo.On("MarketSummary", mock.Anything, model.Credential("sk-test"), dto.NewMarketSummaryRequest()).
		Return(model.SummaryResult{Summary: "flat"}, nil).Once()

	res := svc.RunMarketSummary(context.Background(), sess)

	got, ok := res.State.Op.Result()
	require.True(t, ok)
	assert.Equal(t, model.ResultSummary, got.Kind())
	repo.AssertExpectations(t)
}

func TestMarketService_ApplicationErrors(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	repo.On("Screen", mock.Anything, mock.Anything, dto.NewScreenRequest("dividend payers")).
		Return(nil, &repository.ApplicationError{Endpoint: dto.PathStockScreener, StatusCode: 429, Message: "rate limited"}).Once()
	res := svc.RunScreening(context.Background(), sess)
	requireFailed(t, res.State, model.OperationScreening, model.ErrorApplication, "rate limited")

	repo.On("Screen", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &repository.ApplicationError{Endpoint: dto.PathStockScreener, StatusCode: 500}).Once()
	res = svc.RunScreening(context.Background(), sess)
	requireFailed(t, res.State, model.OperationScreening, model.ErrorApplication, "Stock screening failed")

	repo.On("MarketSummary", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &repository.ApplicationError{StatusCode: 500}).Once()
	res = svc.RunMarketSummary(context.Background(), sess)
	requireFailed(t, res.State, model.OperationMarketSummary, model.ErrorApplication, "Market summary failed")

	repo.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &repository.ApplicationError{StatusCode: 400}).Once()
	res = svc.RunAnalysis(context.Background(), sess)
	requireFailed(t, res.State, model.OperationAnalysis, model.ErrorApplication, "Analysis failed")

	repo.AssertExpectations(t)
}

func TestMarketService_TransportError(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	repo.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &repository.TransportError{Endpoint: dto.PathAnalyze, Err: errors.New("connection refused")}).Once()

	res := svc.RunAnalysis(context.Background(), sess)

	requireFailed(t, res.State, model.OperationAnalysis, model.ErrorTransport, model.MsgConnectionFailed)
	_, hasResult := res.State.Op.Result()
	assert.False(t, hasResult)
}

func TestMarketService_NewDispatchClearsPreviousResult(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	repo.On("Screen", mock.Anything, mock.Anything, mock.Anything).
		Return(model.ScreenResult{ScreeningResults: []byte(`{}`)}, nil).Once()
	svc.RunScreening(context.Background(), sess)

	var seen []model.Status
	sess.Subscribe(func(s model.State) { seen = append(seen, s.Op.Status()) })

	repo.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).Once()
	svc.RunAnalysis(context.Background(), sess)

	assert.Equal(t, []model.Status{model.StatusLoading, model.StatusFailed}, seen)
	_, hasResult := sess.State().Op.Result()
	assert.False(t, hasResult)
}

func TestMarketService_LateResolutionIsDiscarded(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	analysisStarted := make(chan struct{})
	releaseAnalysis := make(chan struct{})
	analysisDone := make(chan DispatchResult, 1)

	repo.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(analysisStarted)
			<-releaseAnalysis
		}).
		Return(model.AnalysisResult{Analysis: "late"}, nil).Once()
	repo.On("Screen", mock.Anything, mock.Anything, mock.Anything).
		Return(model.ScreenResult{Criteria: "dividend payers", ScreeningResults: []byte(`{"T":{}}`)}, nil).Once()

	go func() {
		analysisDone <- svc.RunAnalysis(context.Background(), sess)
	}()

	<-analysisStarted
	require.True(t, sess.State().Op.IsLoading())

	screen := svc.RunScreening(context.Background(), sess)
	require.False(t, screen.Stale())

	close(releaseAnalysis)
	analysis := <-analysisDone

	assert.True(t, analysis.Stale())
	final := sess.State()
	assert.Equal(t, model.OperationScreening, final.Op.Operation())
	got, ok := final.Op.Result()
	require.True(t, ok)
	assert.Equal(t, model.ResultScreen, got.Kind())
	repo.AssertExpectations(t)
}

func TestMarketService_ResetDropsInFlightResult(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)
	sess := newReadySession()

	repo.On("MarketSummary", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { sess.Reset() }).
		Return(model.SummaryResult{Summary: "late"}, nil).Once()

	res := svc.RunMarketSummary(context.Background(), sess)

	assert.True(t, res.Stale())
	assert.Equal(t, model.StatusIdle, sess.State().Op.Status())
}

func TestMarketService_CheckHealth(t *testing.T) {
	repo := new(mockMarketRepo)
	svc := newTestMarketService(repo)

	repo.On("Health", mock.Anything).Return(&dto.HealthResponse{Status: "ok"}, nil).Once()
	health, err := svc.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	transportErr := &repository.TransportError{Endpoint: dto.PathHealth, StatusCode: 503, Err: errors.New("down")}
	repo.On("Health", mock.Anything).Return(nil, transportErr).Once()
	_, err = svc.CheckHealth(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
}
