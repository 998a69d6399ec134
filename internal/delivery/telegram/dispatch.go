package telegram

import (
	"context"

	"market-analysis/internal/model"
	"market-analysis/internal/service"
	"market-analysis/internal/view"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/utils"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) handleAnalyze(ctx context.Context, c telebot.Context) error {
	sess := t.session(c)
	if value := payload(c); value != "" {
		sess.SetSymbols(value)
	}
	return t.runWithLoading(ctx, c, sess, model.OperationAnalysis, t.service.MarketService.RunAnalysis)
}

func (t *TelegramBotHandler) handleSummary(ctx context.Context, c telebot.Context) error {
	return t.runWithLoading(ctx, c, t.session(c), model.OperationMarketSummary, t.service.MarketService.RunMarketSummary)
}

func (t *TelegramBotHandler) handleScreen(ctx context.Context, c telebot.Context) error {
	sess := t.session(c)
	if value := payload(c); value != "" {
		sess.SetScreeningCriteria(value)
	}
	return t.runWithLoading(ctx, c, sess, model.OperationScreening, t.service.MarketService.RunScreening)
}

// runWithLoading posts the loading label, runs the dispatch in the background and
// replaces the label with the rendered outcome.
func (t *TelegramBotHandler) runWithLoading(
	ctx context.Context,
	c telebot.Context,
	sess *service.Session,
	op model.Operation,
	run func(ctx context.Context, sess *service.Session) service.DispatchResult,
) error {
	msg, err := t.telegram.Send(ctx, c, "⏳ "+op.LoadingLabel())
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send loading message", logger.ErrorField(err))
		return err
	}

	// The handler context ends when this function returns; keep its logger only.
	runCtx := logger.NewContext(t.ctx, t.log.FromContext(ctx))

	utils.GoSafe(func() {
		res := run(runCtx, sess)

		sendCtx, cancel := context.WithTimeout(runCtx, t.cfg.Telegram.TimeoutDuration)
		defer cancel()

		if res.Stale() {
			if _, err := t.telegram.Edit(sendCtx, c, msg, msgSuperseded); err != nil {
				t.log.ErrorContext(sendCtx, "Failed to edit superseded message", logger.ErrorField(err))
			}
			return
		}

		messages := RenderMessages(view.Build(res.State))
		if _, err := t.telegram.Edit(sendCtx, c, msg, messages[0], telebot.ModeHTML); err != nil {
			t.log.ErrorContext(sendCtx, "Failed to show result", logger.ErrorField(err))
			return
		}
		for _, m := range messages[1:] {
			if _, err := t.telegram.Send(sendCtx, c, m, telebot.ModeHTML); err != nil {
				t.log.ErrorContext(sendCtx, "Failed to send result part", logger.ErrorField(err))
				return
			}
		}
	})

	return nil
}
