package middleware

import (
	"context"
	"time"

	"market-analysis/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

// WithContext gives every update its own timeout-bound context carrying a logger
// tagged with the chat and an update id.
func WithContext(rootCtx context.Context, log *logger.Logger, timeout time.Duration, handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(rootCtx, timeout)
		defer cancel()

		fields := []zap.Field{logger.StringField("update_id", uuid.NewString())}
		if chat := c.Chat(); chat != nil {
			fields = append(fields, logger.Int64Field("chat_id", chat.ID))
		}
		ctx = logger.NewContext(ctx, log.With(fields...))

		return handler(ctx, c)
	}
}
