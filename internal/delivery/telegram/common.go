package telegram

import (
	"context"
	"fmt"
	"strings"

	"market-analysis/internal/service"
	"market-analysis/pkg/cache"
	"market-analysis/pkg/common"
	"market-analysis/pkg/logger"

	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) session(c telebot.Context) *service.Session {
	return t.service.SessionService.Get(fmt.Sprintf(common.SESSION_CHAT_ID, c.Chat().ID))
}

func (t *TelegramBotHandler) userState(chatID int64) conversationState {
	state, ok := cache.GetFromCache[conversationState](t.stateCache, fmt.Sprintf(common.KEY_USER_STATE, chatID))
	if !ok {
		return StateIdle
	}
	return state
}

func (t *TelegramBotHandler) SetUserState(chatID int64, state conversationState) {
	t.stateCache.Set(fmt.Sprintf(common.KEY_USER_STATE, chatID), state, t.cfg.Telegram.StateExpDuration)
}

func (t *TelegramBotHandler) ResetUserState(chatID int64) {
	t.stateCache.Delete(fmt.Sprintf(common.KEY_USER_STATE, chatID))
}

func (t *TelegramBotHandler) handleConversation(ctx context.Context, c telebot.Context) error {
	chatID := c.Chat().ID
	state := t.userState(chatID)
	if state == StateIdle {
		return t.handleTextMessage(ctx, c)
	}

	defer t.ResetUserState(chatID)
	value := strings.TrimSpace(c.Text())

	switch state {
	case StateWaitingCredential:
		return t.applyCredential(ctx, c, value)
	case StateWaitingSymbols:
		return t.applySymbols(ctx, c, value)
	case StateWaitingCustomPrompt:
		return t.applyCustomPrompt(ctx, c, value)
	case StateWaitingCriteria:
		return t.applyCriteria(ctx, c, value)
	default:
		_, err := t.telegram.Send(ctx, c, "It looks like nothing is waiting for input. Use /help to see the available commands.")
		return err
	}
}

func (t *TelegramBotHandler) handleTextMessage(ctx context.Context, c telebot.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		_, err := t.telegram.Send(ctx, c, "Unknown command. Use /help to see the available commands.")
		return err
	}
	_, err := t.telegram.Send(ctx, c, "I did not understand that. Use /help to see the available commands.")
	return err
}

// IsOnConversationMiddleware drops a pending field prompt when the user moves on to
// another command.
func (t *TelegramBotHandler) IsOnConversationMiddleware() telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if t.userState(c.Chat().ID) != StateIdle {
				t.ResetUserState(c.Chat().ID)
			}
			return next(c)
		}
	}
}

func (t *TelegramBotHandler) handleCancel(ctx context.Context, c telebot.Context) error {
	chatID := c.Chat().ID
	defer t.ResetUserState(chatID)

	if t.userState(chatID) != StateIdle {
		_, err := t.telegram.Send(ctx, c, "✅ Cancelled.")
		return err
	}
	_, err := t.telegram.Send(ctx, c, "Nothing to cancel.")
	return err
}

// deleteMessage removes a user message, used for messages that carry the API key.
func (t *TelegramBotHandler) deleteMessage(ctx context.Context, c telebot.Context) {
	if c.Message() == nil {
		return
	}
	if err := t.telegram.Delete(ctx, c, c.Message()); err != nil {
		t.log.WarnContext(ctx, "Failed to delete message carrying the API key", logger.ErrorField(err))
	}
}
