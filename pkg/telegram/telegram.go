package telegram

import (
	"context"
	"sync"
	"time"

	"market-analysis/config"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/utils"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// TelegramRateLimiter wraps the bot so every outgoing call waits on a global limiter,
// a per-user limiter and a per-chat limiter.
type TelegramRateLimiter struct {
	cfg             *config.TelegramConfig
	log             *logger.Logger
	globalLimiter   *rate.Limiter
	userLimiters    map[int64]*limiterEntry
	messageLimiters map[int64]*limiterEntry
	bot             *telebot.Bot
	mu              sync.Mutex
	editMu          sync.Mutex
	wg              sync.WaitGroup
}

func NewTelegramRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *TelegramRateLimiter {
	return &TelegramRateLimiter{
		cfg:             cfg,
		log:             log,
		bot:             bot,
		globalLimiter:   rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		userLimiters:    make(map[int64]*limiterEntry),
		messageLimiters: make(map[int64]*limiterEntry),
	}
}

func senderID(c telebot.Context) int64 {
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return c.Chat().ID
}

func (t *TelegramRateLimiter) Send(ctx context.Context, c telebot.Context, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := t.checkRateLimit(ctx, senderID(c), c.Chat().ID); err != nil {
		return nil, err
	}
	return t.bot.Send(c.Chat(), what, opts...)
}

// SendMessageUser posts to a chat that is not tied to an incoming update.
func (t *TelegramRateLimiter) SendMessageUser(ctx context.Context, message string, chatID int64, opts ...interface{}) error {
	if err := t.checkRateLimit(ctx, chatID, chatID); err != nil {
		return err
	}
	_, err := t.bot.Send(&telebot.Chat{ID: chatID}, message, opts...)
	return err
}

func (t *TelegramRateLimiter) Edit(ctx context.Context, c telebot.Context, msg *telebot.Message, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := t.checkRateLimit(ctx, senderID(c), c.Chat().ID); err != nil {
		return nil, err
	}

	t.editMu.Lock()
	defer t.editMu.Unlock()
	return t.bot.Edit(msg, what, opts...)
}

func (t *TelegramRateLimiter) Delete(ctx context.Context, c telebot.Context, msg *telebot.Message) error {
	if err := t.checkRateLimit(ctx, senderID(c), c.Chat().ID); err != nil {
		return err
	}
	t.editMu.Lock()
	defer t.editMu.Unlock()
	return t.bot.Delete(msg)
}

func (t *TelegramRateLimiter) Respond(ctx context.Context, c telebot.Context, resp ...*telebot.CallbackResponse) error {
	if err := t.checkRateLimit(ctx, senderID(c), c.Chat().ID); err != nil {
		return err
	}
	return c.Respond(resp...)
}

func (r *TelegramRateLimiter) getLimiter(limiters map[int64]*limiterEntry, id int64, perSecond int) *limiterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, exists := limiters[id]; exists {
		entry.lastAccess = time.Now()
		return entry
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(perSecond), perSecond),
		lastAccess: time.Now(),
	}
	limiters[id] = entry
	return entry
}

func (r *TelegramRateLimiter) checkRateLimit(ctx context.Context, senderID int64, chatID int64) error {
	userLimiter := r.getLimiter(r.userLimiters, senderID, r.cfg.MaxUserRequestPerSecond)
	messageLimiter := r.getLimiter(r.messageLimiters, chatID, r.cfg.MaxEditMessagePerSecond)

	if err := messageLimiter.limiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for message rate limit", logger.ErrorField(err))
		return err
	}
	if err := r.globalLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	if err := userLimiter.limiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for user rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// StartCleanupExpired drops limiters idle for longer than RatelimitExpireDuration.
func (r *TelegramRateLimiter) StartCleanupExpired(ctx context.Context) {
	r.wg.Add(1)
	utils.GoSafe(func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.cfg.RateLimitCleanupDuration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("Received signal to stop Telegram rate limiter cleanup expired")
				return
			case <-ticker.C:
				r.cleanup(time.Now())
			}
		}
	})
}

func (r *TelegramRateLimiter) cleanup(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, limiters := range []map[int64]*limiterEntry{r.userLimiters, r.messageLimiters} {
		for id, entry := range limiters {
			if now.Sub(entry.lastAccess) > r.cfg.RatelimitExpireDuration {
				delete(limiters, id)
			}
		}
	}
}

func (r *TelegramRateLimiter) StopCleanupExpired() {
	r.wg.Wait()
	r.log.Info("Telegram rate limiter stopped")
}
