package cmd

import (
	"context"
	"fmt"
	"time"

	"market-analysis/config"
	"market-analysis/internal/repository"
	"market-analysis/internal/service"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	cfg          *config.Config
	log          *logger.Logger
	validator    *goValidator.Validate
	echo         *echo.Echo
	sessionCache cache.Cache
	stateCache   cache.Cache
	repo         *repository.Repository
	service      *service.Service
	telegram     *telegram.TelegramRateLimiter
	telegramBot  *telebot.Bot
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	validator := goValidator.New()
	sessionCache := cache.NewCache(cfg.Session.DefaultExpiration, cfg.Session.CleanupInterval)
	repo := repository.NewRepository(cfg, log)

	return &AppDependency{
		cfg:          cfg,
		log:          log,
		validator:    validator,
		sessionCache: sessionCache,
		repo:         repo,
		service:      service.NewService(cfg, log, repo, sessionCache, validator),
	}, nil
}

// WithServer adds what only the serve command needs: echo and the Telegram bot.
func (d *AppDependency) WithServer() error {
	if d.cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required to serve")
	}

	pref := telebot.Settings{
		Token:  d.cfg.Telegram.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			d.log.Error("Telegram bot error", zap.Error(err))
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		d.log.Error("Failed to create telegram bot", zap.Error(err))
		return err
	}

	d.echo = echo.New()
	d.echo.HideBanner = true
	d.stateCache = cache.NewCache(d.cfg.Telegram.StateExpDuration, d.cfg.Session.CleanupInterval)
	d.telegramBot = bot
	d.telegram = telegram.NewTelegramRateLimiter(&d.cfg.Telegram, d.log, bot)
	return nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	d.sessionCache.Flush()
	_ = d.log.Sync()
	return nil
}
