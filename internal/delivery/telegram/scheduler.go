package telegram

import (
	"context"
	"fmt"

	"market-analysis/internal/model"
	"market-analysis/internal/view"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/telegram"

	"gopkg.in/telebot.v3"
)

// PublishDigest posts a scheduled market summary to the configured chat.
func (t *TelegramBotHandler) PublishDigest(ctx context.Context, state model.State) error {
	chatID := t.cfg.Telegram.ChatID
	if chatID == 0 {
		t.log.WarnContext(ctx, "Telegram chat_id not set, market summary digest not sent")
		return nil
	}

	messages := RenderDigest(view.Build(state))
	for i, msg := range messages {
		if err := t.telegram.SendMessageUser(ctx, msg, chatID, telebot.ModeHTML); err != nil {
			t.log.ErrorContext(ctx, "Failed to send market summary digest",
				logger.Int64Field("chat_id", chatID),
				logger.IntField("part", i+1),
				logger.ErrorField(err),
			)
			return fmt.Errorf("failed to send digest part %d: %w", i+1, err)
		}
	}
	t.log.InfoContext(ctx, "Market summary digest sent",
		logger.Int64Field("chat_id", chatID),
		logger.IntField("parts", len(messages)),
	)
	return nil
}

func RenderDigest(v view.View) []string {
	blocks := append([]string{msgDigestTitle}, renderBlocks(v)...)
	return telegram.PackBlocks(blocks, telegram.MaxMessageLength)
}
