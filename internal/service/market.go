package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"market-analysis/config"
	"market-analysis/internal/dto"
	"market-analysis/internal/model"
	"market-analysis/internal/repository"
	"market-analysis/pkg/httpclient"
	"market-analysis/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DispatchResult is what a Run call leaves behind: its own sequence number and the
// session state right after it settled.
type DispatchResult struct {
	Seq   uint64
	State model.State
}

// Stale reports whether a later dispatch or reset superseded this one.
func (r DispatchResult) Stale() bool {
	return !r.State.IsCurrent(r.Seq)
}

type MarketService interface {
	RunAnalysis(ctx context.Context, sess *Session) DispatchResult
	RunMarketSummary(ctx context.Context, sess *Session) DispatchResult
	RunScreening(ctx context.Context, sess *Session) DispatchResult
	CheckHealth(ctx context.Context) (*dto.HealthResponse, error)
}

type marketService struct {
	cfg        *config.Config
	log        *logger.Logger
	validator  *goValidator.Validate
	marketRepo repository.MarketAnalysisRepository
}

func NewMarketService(cfg *config.Config, log *logger.Logger, validator *goValidator.Validate, marketRepo repository.MarketAnalysisRepository) MarketService {
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &marketService{
		cfg:        cfg,
		log:        log,
		validator:  validator,
		marketRepo: marketRepo,
	}
}

func (s *marketService) RunAnalysis(ctx context.Context, sess *Session) DispatchResult {
	op := model.OperationAnalysis
	input := sess.State().Input

	if input.Credential.IsBlank() {
		return s.reject(sess, op, model.MsgMissingCredential)
	}
	symbols := model.ParseSymbols(input.Symbols)
	if len(symbols) == 0 {
		return s.reject(sess, op, model.MsgMissingSymbols)
	}

	req := dto.AnalyzeRequest{
		Symbols:      symbols,
		AnalysisType: string(input.AnalysisType),
		TimePeriod:   string(input.TimePeriod),
		CustomPrompt: input.CustomPrompt,
	}
	if err := s.validator.Struct(req); err != nil {
		return s.reject(sess, op, validationMessage(err))
	}

	return s.execute(ctx, sess, op, func(ctx context.Context) (model.Result, error) {
		return s.marketRepo.Analyze(ctx, input.Credential, req)
	})
}

func (s *marketService) RunMarketSummary(ctx context.Context, sess *Session) DispatchResult {
	op := model.OperationMarketSummary
	input := sess.State().Input

	if input.Credential.IsBlank() {
		return s.reject(sess, op, model.MsgMissingCredential)
	}

	req := dto.NewMarketSummaryRequest()
	if err := s.validator.Struct(req); err != nil {
		return s.reject(sess, op, validationMessage(err))
	}

	return s.execute(ctx, sess, op, func(ctx context.Context) (model.Result, error) {
		return s.marketRepo.MarketSummary(ctx, input.Credential, req)
	})
}

func (s *marketService) RunScreening(ctx context.Context, sess *Session) DispatchResult {
	op := model.OperationScreening
	input := sess.State().Input

	if input.Credential.IsBlank() {
		return s.reject(sess, op, model.MsgMissingCredential)
	}
	criteria := strings.TrimSpace(input.ScreeningCriteria)
	if criteria == "" {
		return s.reject(sess, op, model.MsgMissingCriteria)
	}

	req := dto.NewScreenRequest(criteria)
	if err := s.validator.Struct(req); err != nil {
		return s.reject(sess, op, validationMessage(err))
	}

	return s.execute(ctx, sess, op, func(ctx context.Context) (model.Result, error) {
		return s.marketRepo.Screen(ctx, input.Credential, req)
	})
}

func (s *marketService) CheckHealth(ctx context.Context) (*dto.HealthResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	health, err := s.marketRepo.Health(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Analysis service health check failed", logger.ErrorField(err))
		return nil, fmt.Errorf("analysis service health check: %w", err)
	}
	return health, nil
}

func (s *marketService) reject(sess *Session, op model.Operation, message string) DispatchResult {
	state := sess.Dispatch(model.DispatchRejected{Operation: op, Message: message})
	s.log.Debug("Dispatch rejected",
		logger.StringField("session_id", sess.ID),
		logger.StringField("operation", op.String()),
		logger.StringField("reason", message),
	)
	return DispatchResult{Seq: state.Seq, State: state}
}

func (s *marketService) execute(ctx context.Context, sess *Session, op model.Operation, call func(ctx context.Context) (model.Result, error)) DispatchResult {
	started := sess.Dispatch(model.DispatchStarted{Operation: op})
	seq := started.Seq

	requestID := uuid.NewString()
	log := s.log.With(
		logger.StringField("request_id", requestID),
		logger.StringField("session_id", sess.ID),
		logger.StringField("operation", op.String()),
		logger.Uint64Field("seq", seq),
	)
	ctx = logger.NewContext(httpclient.WithRequestID(ctx, requestID), log)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	startTime := time.Now()
	result, err := call(ctx)
	outcome := outcomeOf(op, result, err)

	state := sess.Dispatch(model.DispatchSettled{Seq: seq, Outcome: outcome})
	if !state.IsCurrent(seq) {
		log.Warn("Discarded stale dispatch result",
			logger.Uint64Field("current_seq", state.Seq),
			logger.StringField("outcome", outcome.Status().String()),
		)
		return DispatchResult{Seq: seq, State: state}
	}

	log.Info("Dispatch settled",
		logger.StringField("status", outcome.Status().String()),
		logger.DurationField("elapsed", time.Since(startTime)),
	)
	return DispatchResult{Seq: seq, State: state}
}

func (s *marketService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.AnalysisService.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.AnalysisService.Timeout)
	}
	return context.WithCancel(ctx)
}

// outcomeOf maps a repository call onto a terminal operation state.
func outcomeOf(op model.Operation, result model.Result, err error) model.OperationState {
	if err == nil {
		return model.Succeeded(op, result)
	}

	var appErr *repository.ApplicationError
	if errors.As(err, &appErr) {
		message := appErr.Message
		if message == "" {
			message = op.FallbackError()
		}
		return model.Failed(op, model.ErrorApplication, message)
	}
	return model.Failed(op, model.ErrorTransport, model.MsgConnectionFailed)
}

func validationMessage(err error) string {
	var fieldErrs goValidator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("Invalid %s: %v", field, fe.Value())
	case "required", "min":
		return fmt.Sprintf("Please enter %s", field)
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}
