package telegram

import (
	"context"
	"time"

	"market-analysis/config"
	"market-analysis/internal/service"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/telegram"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx        context.Context
	cfg        *config.Config
	bot        *telebot.Bot
	log        *logger.Logger
	telegram   *telegram.TelegramRateLimiter
	echo       *echo.Echo
	service    *service.Service
	stateCache cache.Cache
	polling    bool
}

func NewTelegramBotHandler(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	bot *telebot.Bot,
	telegram *telegram.TelegramRateLimiter,
	echo *echo.Echo,
	service *service.Service,
	stateCache cache.Cache,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:        ctx,
		cfg:        cfg,
		log:        log,
		bot:        bot,
		telegram:   telegram,
		echo:       echo,
		service:    service,
		stateCache: stateCache,
		polling:    cfg.Telegram.WebhookURL == "",
	}
}

// Start expects RegisterHandlers to have run. With a webhook URL it returns right away
// and updates arrive through echo; otherwise it long-polls until Stop.
func (t *TelegramBotHandler) Start() {
	t.log.Info("Starting Telegram bot...")
	t.telegram.StartCleanupExpired(t.ctx)

	if !t.polling {
		t.log.Info("Setting webhook URL", logger.StringField("webhook_url", t.cfg.Telegram.WebhookURL))
		err := t.bot.SetWebhook(&telebot.Webhook{
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: t.cfg.Telegram.WebhookURL,
			},
		})
		if err != nil {
			t.log.Error("Failed to set Telegram webhook", logger.ErrorField(err))
		}
		return
	}

	t.log.Info("Telegram webhook is disabled, using long polling")
	t.bot.Start()
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")

	if t.polling {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stopDone := make(chan struct{})
		go func() {
			t.bot.Stop()
			close(stopDone)
		}()

		select {
		case <-stopDone:
			t.log.Info("Telegram bot stopped successfully")
		case <-ctx.Done():
			t.log.Warn("Timeout while stopping bot, forcing shutdown")
		}
	}

	t.telegram.StopCleanupExpired()
	t.log.Info("Telegram bot shutdown completed")
}
