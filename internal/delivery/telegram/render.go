package telegram

import (
	"fmt"
	"strings"

	"market-analysis/internal/model"
	"market-analysis/internal/view"
	"market-analysis/pkg/telegram"
	"market-analysis/pkg/utils"

	"gopkg.in/telebot.v3"
)

var (
	btnAnalysisType = telebot.Btn{Unique: "btn_analysis_type"}
	btnTimePeriod   = telebot.Btn{Unique: "btn_time_period"}
)

const (
	msgSuperseded  = "⚠️ Superseded by a newer request."
	msgNoResult    = "No result yet. Try /analyze, /summary or /screen."
	msgDigestTitle = "🗓 <b>Daily market digest</b>"

	// preChunkLength leaves room for the <pre> tags and HTML escaping.
	preChunkLength = 3500
)

func trendEmoji(t view.Trend) string {
	switch t {
	case view.TrendUp:
		return "🟢"
	case view.TrendDown:
		return "🔴"
	default:
		return "⚪"
	}
}

// RenderMessages turns a view into HTML messages that each fit Telegram's limit.
func RenderMessages(v view.View) []string {
	return telegram.PackBlocks(renderBlocks(v), telegram.MaxMessageLength)
}

func renderBlocks(v view.View) []string {
	switch v.Status {
	case model.StatusLoading:
		return []string{"⏳ " + utils.EscapeHTML(v.LoadingLabel)}
	case model.StatusFailed:
		return []string{"❌ " + utils.EscapeHTML(v.Error)}
	case model.StatusSucceeded:
	default:
		return []string{msgNoResult}
	}

	blocks := []string{"📊 <b>" + view.TitleResults + "</b>"}
	if len(v.Cards) > 0 {
		blocks = append(blocks, "<b>"+utils.EscapeHTML(v.CardsTitle)+"</b>")
		for _, card := range v.Cards {
			blocks = append(blocks, renderCard(card))
		}
	}
	for _, section := range v.Sections {
		blocks = append(blocks, "<b>"+utils.EscapeHTML(section.Title)+"</b>")
		if !section.Preformatted {
			blocks = append(blocks, utils.EscapeHTML(section.Body))
			continue
		}
		for _, chunk := range telegram.SplitText(section.Body, preChunkLength) {
			blocks = append(blocks, "<pre>"+utils.EscapeHTML(chunk)+"</pre>")
		}
	}
	return blocks
}

func renderCard(card view.Card) string {
	var b strings.Builder
	b.WriteString("<b>" + utils.EscapeHTML(card.Title) + "</b>")
	if card.Error != "" {
		b.WriteString("\n⚠️ " + utils.EscapeHTML(card.Error))
		return b.String()
	}

	fmt.Fprintf(&b, " %s %s", trendEmoji(card.Trend), utils.EscapeHTML(card.Badge))
	if card.Value != "" {
		b.WriteString("\n<b>" + utils.EscapeHTML(card.Value) + "</b>")
	}
	for _, line := range card.Lines {
		fmt.Fprintf(&b, "\n%s: %s", utils.EscapeHTML(line.Label), utils.EscapeHTML(line.Value))
	}
	return b.String()
}

// RenderSettings lists the chat's session input with the API key masked.
func RenderSettings(input model.SessionInput) string {
	prompt := input.CustomPrompt
	if prompt == "" {
		prompt = "(none)"
	}
	criteria := input.ScreeningCriteria
	if criteria == "" {
		criteria = "(none)"
	}

	var b strings.Builder
	b.WriteString("⚙️ <b>Settings</b>\n\n")
	fmt.Fprintf(&b, "🔑 API key: <code>%s</code>\n", utils.EscapeHTML(input.Credential.String()))
	fmt.Fprintf(&b, "📈 Symbols: <code>%s</code>\n", utils.EscapeHTML(input.Symbols))
	fmt.Fprintf(&b, "🧠 Analysis type: %s\n", utils.EscapeHTML(input.AnalysisType.DisplayName()))
	fmt.Fprintf(&b, "🗓 Time period: %s\n", utils.EscapeHTML(input.TimePeriod.DisplayName()))
	fmt.Fprintf(&b, "📝 Custom prompt: %s\n", utils.EscapeHTML(prompt))
	fmt.Fprintf(&b, "🔍 Screening criteria: %s", utils.EscapeHTML(criteria))
	return b.String()
}

func analysisTypeMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}
	rows := []telebot.Row{}
	for _, t := range model.AnalysisTypes() {
		rows = append(rows, menu.Row(menu.Data(t.DisplayName(), btnAnalysisType.Unique, string(t))))
	}
	menu.Inline(rows...)
	return menu
}

func timePeriodMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{}
	periods := model.TimePeriods()
	btns := make([]telebot.Btn, 0, len(periods))
	for _, p := range periods {
		btns = append(btns, menu.Data(p.DisplayName(), btnTimePeriod.Unique, string(p)))
	}
	menu.Inline(menu.Split(3, btns)...)
	return menu
}
