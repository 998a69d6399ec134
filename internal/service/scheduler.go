package service

import (
	"context"
	"fmt"

	"market-analysis/config"
	"market-analysis/internal/model"
	"market-analysis/pkg/common"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/utils"

	"github.com/robfig/cron/v3"
)

// DigestPublisher delivers a settled market summary somewhere outside the process.
type DigestPublisher interface {
	PublishDigest(ctx context.Context, state model.State) error
}

type SchedulerService interface {
	// Start runs the digest on the configured cron schedule until ctx is done.
	Start(ctx context.Context, publisher DigestPublisher) error
	RunDigest(ctx context.Context, publisher DigestPublisher) error
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	cronParser cron.Parser
	sessions   SessionService
	market     MarketService
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	sessions SessionService,
	market MarketService,
) SchedulerService {
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		sessions:   sessions,
		market:     market,
	}
}

func (s *schedulerService) Start(ctx context.Context, publisher DigestPublisher) error {
	schedule := s.cfg.Scheduler.MarketSummaryCron
	if schedule == "" {
		s.log.Info("Market summary digest disabled")
		return nil
	}
	if _, err := s.cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid market summary cron %q: %w", schedule, err)
	}

	c := cron.New(cron.WithParser(s.cronParser))
	_, err := c.AddFunc(schedule, func() {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}
		if err := s.RunDigest(ctx, publisher); err != nil {
			s.log.Error("Market summary digest failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule market summary digest: %w", err)
	}

	s.log.Info("Market summary digest scheduled", logger.StringField("cron", schedule))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("Market summary digest stopped")
	return nil
}

func (s *schedulerService) RunDigest(ctx context.Context, publisher DigestPublisher) error {
	if s.cfg.Scheduler.TimeoutDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
		defer cancel()
	}

	sess := s.sessions.GetOperator(common.SESSION_DIGEST)
	sess.SetCredential(s.cfg.AnalysisService.Credential)

	res := s.market.RunMarketSummary(ctx, sess)
	if res.Stale() {
		s.log.WarnContext(ctx, "Market summary digest superseded", logger.Uint64Field("seq", res.Seq))
		return nil
	}
	if msg, kind, failed := res.State.Op.Error(); failed {
		s.log.WarnContext(ctx, "Market summary digest returned an error",
			logger.StringField("error_kind", kind.String()),
			logger.StringField("message", msg),
		)
	}

	if err := publisher.PublishDigest(ctx, res.State); err != nil {
		return fmt.Errorf("failed to publish market summary digest: %w", err)
	}
	return nil
}
