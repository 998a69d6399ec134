package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"market-analysis/config"
	"market-analysis/internal/dto"
	"market-analysis/internal/model"
	"market-analysis/pkg/common"
	"market-analysis/pkg/httpclient"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/ratelimit"
)

type MarketAnalysisRepository interface {
	Analyze(ctx context.Context, credential model.Credential, req dto.AnalyzeRequest) (model.Result, error)
	MarketSummary(ctx context.Context, credential model.Credential, req dto.MarketSummaryRequest) (model.Result, error)
	Screen(ctx context.Context, credential model.Credential, req dto.ScreenRequest) (model.Result, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

type marketAnalysisRepository struct {
	httpClient httpclient.HTTPClient
	limiters   *ratelimit.LimiterStore
	logger     *logger.Logger
}

// NewMarketAnalysisRepository talks to the analysis service at cfg.AnalysisService.BaseURL.
func NewMarketAnalysisRepository(cfg *config.Config, log *logger.Logger) MarketAnalysisRepository {
	return &marketAnalysisRepository{
		httpClient: httpclient.New(cfg.AnalysisService.BaseURL, cfg.AnalysisService.Timeout),
		limiters:   ratelimit.NewLimiterStore(ratelimit.PerMinute(cfg.AnalysisService.MaxRequestPerMin), 1),
		logger:     log,
	}
}

func (r *marketAnalysisRepository) Analyze(ctx context.Context, credential model.Credential, req dto.AnalyzeRequest) (model.Result, error) {
	return r.post(ctx, dto.PathAnalyze, credential, req)
}

func (r *marketAnalysisRepository) MarketSummary(ctx context.Context, credential model.Credential, req dto.MarketSummaryRequest) (model.Result, error) {
	return r.post(ctx, dto.PathMarketSummary, credential, req)
}

func (r *marketAnalysisRepository) Screen(ctx context.Context, credential model.Credential, req dto.ScreenRequest) (model.Result, error) {
	return r.post(ctx, dto.PathStockScreener, credential, req)
}

func (r *marketAnalysisRepository) post(ctx context.Context, endpoint string, credential model.Credential, body interface{}) (model.Result, error) {
	if err := r.limiters.Wait(ctx, endpoint); err != nil {
		r.logger.WarnContext(ctx, "Analysis service rate limit wait aborted",
			logger.StringField("endpoint", endpoint),
			logger.ErrorField(err),
		)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	headers := map[string]string{
		common.HEADER_CONTENT_TYPE: common.CONTENT_TYPE_JSON,
		common.HEADER_CREDENTIAL:   credential.Reveal(),
	}

	resp, err := r.httpClient.Post(ctx, endpoint, body, headers, nil)
	if err != nil {
		r.logger.ErrorContext(ctx, "Analysis service call failed",
			logger.StringField("endpoint", endpoint),
			logger.ErrorField(err),
		)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	r.logger.DebugContext(ctx, "Analysis service responded",
		logger.StringField("endpoint", endpoint),
		logger.IntField("status_code", resp.StatusCode),
		logger.IntField("body_bytes", len(resp.Body)),
	)

	result, err := decodeMarketResponse(endpoint, resp.StatusCode, resp.Body)
	if err != nil {
		var appErr *ApplicationError
		if errors.As(err, &appErr) {
			r.logger.WarnContext(ctx, "Analysis service reported failure",
				logger.StringField("endpoint", endpoint),
				logger.IntField("status_code", resp.StatusCode),
				logger.StringField("error", appErr.Message),
			)
		} else {
			r.logger.ErrorContext(ctx, "Analysis service returned an unreadable body",
				logger.StringField("endpoint", endpoint),
				logger.IntField("status_code", resp.StatusCode),
				logger.ErrorField(err),
			)
		}
		return nil, err
	}
	return result, nil
}

func (r *marketAnalysisRepository) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var health dto.HealthResponse
	resp, err := r.httpClient.Get(ctx, dto.PathHealth, nil, nil, &health)
	if err != nil {
		return nil, &TransportError{Endpoint: dto.PathHealth, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Endpoint:   dto.PathHealth,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("analysis service health returned status: %d", resp.StatusCode),
		}
	}
	return &health, nil
}
