package telegram

import (
	"context"
	"fmt"
	"strings"

	"market-analysis/internal/model"
	"market-analysis/pkg/utils"

	"gopkg.in/telebot.v3"
)

func payload(c telebot.Context) string {
	if c.Message() == nil {
		return ""
	}
	return strings.TrimSpace(c.Message().Payload)
}

// askFor parks the chat until the next text message fills the field.
func (t *TelegramBotHandler) askFor(ctx context.Context, c telebot.Context, state conversationState, question string) error {
	t.SetUserState(c.Chat().ID, state)
	_, err := t.telegram.Send(ctx, c, question, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleKey(ctx context.Context, c telebot.Context) error {
	if value := payload(c); value != "" {
		return t.applyCredential(ctx, c, value)
	}
	return t.askFor(ctx, c, StateWaitingCredential, "🔑 Send your OpenAI API key. I will delete your message right after reading it.")
}

func (t *TelegramBotHandler) applyCredential(ctx context.Context, c telebot.Context, value string) error {
	t.deleteMessage(ctx, c)
	state := t.session(c).SetCredential(value)
	_, err := t.telegram.Send(ctx, c, fmt.Sprintf("✅ API key saved: <code>%s</code>", utils.EscapeHTML(state.Input.Credential.String())), telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handleSymbols(ctx context.Context, c telebot.Context) error {
	if value := payload(c); value != "" {
		return t.applySymbols(ctx, c, value)
	}
	return t.askFor(ctx, c, StateWaitingSymbols, "📈 Send the stock symbols separated by commas, for example <code>AAPL,GOOGL,MSFT</code>.")
}

func (t *TelegramBotHandler) applySymbols(ctx context.Context, c telebot.Context, value string) error {
	t.session(c).SetSymbols(value)
	symbols := model.ParseSymbols(value)
	msg := "⚠️ No valid symbols found. /analyze will ask for at least one."
	if len(symbols) > 0 {
		msg = fmt.Sprintf("✅ Symbols: <code>%s</code>", utils.EscapeHTML(strings.Join(symbols, ", ")))
	}
	_, err := t.telegram.Send(ctx, c, msg, telebot.ModeHTML)
	return err
}

func (t *TelegramBotHandler) handlePrompt(ctx context.Context, c telebot.Context) error {
	if value := payload(c); value != "" {
		return t.applyCustomPrompt(ctx, c, value)
	}
	return t.askFor(ctx, c, StateWaitingCustomPrompt, "📝 Send extra instructions for the analysis, or <code>-</code> to clear them.")
}

func (t *TelegramBotHandler) applyCustomPrompt(ctx context.Context, c telebot.Context, value string) error {
	if value == "-" {
		value = ""
	}
	t.session(c).SetCustomPrompt(value)
	msg := "✅ Custom prompt cleared."
	if value != "" {
		msg = "✅ Custom prompt saved."
	}
	_, err := t.telegram.Send(ctx, c, msg)
	return err
}

func (t *TelegramBotHandler) handleCriteria(ctx context.Context, c telebot.Context) error {
	if value := payload(c); value != "" {
		return t.applyCriteria(ctx, c, value)
	}
	return t.askFor(ctx, c, StateWaitingCriteria, "🔍 Describe the stocks you are looking for, for example <i>large cap tech with P/E under 25</i>.")
}

func (t *TelegramBotHandler) applyCriteria(ctx context.Context, c telebot.Context, value string) error {
	t.session(c).SetScreeningCriteria(value)
	_, err := t.telegram.Send(ctx, c, "✅ Screening criteria saved.")
	return err
}

func (t *TelegramBotHandler) handleType(ctx context.Context, c telebot.Context) error {
	value := strings.ToLower(payload(c))
	if value == "" {
		_, err := t.telegram.Send(ctx, c, "🧠 Choose the analysis type:", analysisTypeMenu())
		return err
	}
	for _, at := range model.AnalysisTypes() {
		if string(at) == value {
			t.session(c).SetAnalysisType(at)
			_, err := t.telegram.Send(ctx, c, "✅ Analysis type: "+at.DisplayName())
			return err
		}
	}
	_, err := t.telegram.Send(ctx, c, "⚠️ Unknown analysis type. Choose one:", analysisTypeMenu())
	return err
}

func (t *TelegramBotHandler) handleBtnAnalysisType(ctx context.Context, c telebot.Context) error {
	at := model.AnalysisType(c.Data())
	t.session(c).SetAnalysisType(at)
	if err := t.telegram.Respond(ctx, c, &telebot.CallbackResponse{Text: at.DisplayName()}); err != nil {
		return err
	}
	_, err := t.telegram.Edit(ctx, c, c.Message(), "✅ Analysis type: "+at.DisplayName())
	return err
}

func (t *TelegramBotHandler) handlePeriod(ctx context.Context, c telebot.Context) error {
	value := strings.ToLower(payload(c))
	if value == "" {
		_, err := t.telegram.Send(ctx, c, "🗓 Choose the time period:", timePeriodMenu())
		return err
	}
	for _, p := range model.TimePeriods() {
		if string(p) == value {
			t.session(c).SetTimePeriod(p)
			_, err := t.telegram.Send(ctx, c, "✅ Time period: "+p.DisplayName())
			return err
		}
	}
	_, err := t.telegram.Send(ctx, c, "⚠️ Unknown time period. Choose one:", timePeriodMenu())
	return err
}

func (t *TelegramBotHandler) handleBtnTimePeriod(ctx context.Context, c telebot.Context) error {
	p := model.TimePeriod(c.Data())
	t.session(c).SetTimePeriod(p)
	if err := t.telegram.Respond(ctx, c, &telebot.CallbackResponse{Text: p.DisplayName()}); err != nil {
		return err
	}
	_, err := t.telegram.Edit(ctx, c, c.Message(), "✅ Time period: "+p.DisplayName())
	return err
}

func (t *TelegramBotHandler) handleSettings(ctx context.Context, c telebot.Context) error {
	_, err := t.telegram.Send(ctx, c, RenderSettings(t.session(c).State().Input), telebot.ModeHTML)
	return err
}
