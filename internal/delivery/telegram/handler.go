package telegram

import (
	"context"
	"net/http"

	"market-analysis/internal/dto"
	"market-analysis/pkg/logger"
	"market-analysis/pkg/middleware"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return middleware.WithContext(t.ctx, t.log, t.cfg.Telegram.TimeoutDuration, handler)
}

func (t *TelegramBotHandler) RegisterHandlers() {
	if !t.polling {
		t.echo.POST("/api/v1/telegram/webhook", t.handleWebhook)
	}

	t.bot.Handle("/cancel", t.WithContext(t.handleCancel))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleConversation))
	t.bot.Handle(&btnAnalysisType, t.WithContext(t.handleBtnAnalysisType))
	t.bot.Handle(&btnTimePeriod, t.WithContext(t.handleBtnTimePeriod))

	commands := t.bot.Group()
	commands.Use(t.IsOnConversationMiddleware())
	commands.Handle("/start", t.WithContext(t.handleStart))
	commands.Handle("/help", t.WithContext(t.handleHelp))
	commands.Handle("/key", t.WithContext(t.handleKey))
	commands.Handle("/symbols", t.WithContext(t.handleSymbols))
	commands.Handle("/type", t.WithContext(t.handleType))
	commands.Handle("/period", t.WithContext(t.handlePeriod))
	commands.Handle("/prompt", t.WithContext(t.handlePrompt))
	commands.Handle("/criteria", t.WithContext(t.handleCriteria))
	commands.Handle("/settings", t.WithContext(t.handleSettings))
	commands.Handle("/analyze", t.WithContext(t.handleAnalyze))
	commands.Handle("/summary", t.WithContext(t.handleSummary))
	commands.Handle("/screen", t.WithContext(t.handleScreen))
}

func (t *TelegramBotHandler) handleWebhook(c echo.Context) error {
	var update telebot.Update
	if err := c.Bind(&update); err != nil {
		t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
		badRequest := dto.NewBadRequestResponse(err.Error())
		return c.JSON(http.StatusBadRequest, badRequest)
	}
	t.bot.ProcessUpdate(update)
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	message := `👋 <b>Welcome to Market Analysis!</b> 🤖
I send your requests to the AI analysis service and show you the results.

🔑 /key - Set your OpenAI API key
📈 /analyze - Analyze your stock symbols
🌎 /summary - Daily market summary
🔍 /screen - Screen stocks by criteria
⚙️ /settings - Show your current settings

🆘 /help - Full command list
❌ /cancel - Cancel the current input

🚀 Start with /key, then try /analyze AAPL,MSFT`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `❓ <b>Market Analysis commands</b>

<b>Settings</b>
/key [api key] - Set the OpenAI API key (your message is deleted)
/symbols [AAPL,GOOGL] - Comma separated stock symbols
/type [technical|fundamental|sentiment] - Analysis type
/period [1d|5d|1mo|3mo|6mo|1y] - Time period
/prompt [text] - Extra instructions for the analysis
/criteria [text] - Screening criteria
/settings - Show everything above

<b>Requests</b>
/analyze [symbols] - Analyze the symbols
/summary - Market summary of the major indices and sectors
/screen [criteria] - Screen stocks

A command sent without its argument waits for your next message.
/cancel stops waiting.`
	return c.Send(message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}
