package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"market-analysis/internal/model"
	"market-analysis/internal/view"
	"market-analysis/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMessages_States(t *testing.T) {
	assert.Equal(t, []string{msgNoResult}, RenderMessages(view.View{Status: model.StatusIdle}))
	assert.Equal(t, []string{"⏳ Generating Summary..."}, RenderMessages(view.View{Status: model.StatusLoading, LoadingLabel: "Generating Summary..."}))
	assert.Equal(t, []string{"❌ Please enter your OpenAI API key"}, RenderMessages(view.View{Status: model.StatusFailed, Error: model.MsgMissingCredential}))
}

func TestRenderMessages_CardsAreEscaped(t *testing.T) {
	v := view.View{
		Status:     model.StatusSucceeded,
		CardsTitle: view.TitleMarketOverview,
		Cards: []view.Card{
			{
				Title: "S&P 500",
				Badge: "0.24%",
				Trend: view.TrendUp,
				Value: "$5,123.40",
				Lines: []view.Line{{Label: "Change", Value: "$12.50", Trend: view.TrendUp}},
			},
			{Title: "XLE", Error: "No data <found>"},
		},
		Sections: []view.Section{{Title: view.TitleMarketSummary, Body: "a < b & c", Preformatted: true}},
	}

	messages := RenderMessages(v)

	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Contains(t, msg, "<b>S&amp;P 500</b> 🟢 0.24%")
	assert.Contains(t, msg, "<b>$5,123.40</b>")
	assert.Contains(t, msg, "Change: $12.50")
	assert.Contains(t, msg, "⚠️ No data &lt;found&gt;")
	assert.Contains(t, msg, "<pre>a &lt; b &amp; c</pre>")
	assert.True(t, strings.Index(msg, "Market Overview") < strings.Index(msg, "Market Summary"))
}

func TestRenderMessages_LongAnalysisIsSplit(t *testing.T) {
	body := strings.Repeat("The stock shows a strong upward trend.\n", 400)
	v := view.View{
		Status:   model.StatusSucceeded,
		Sections: []view.Section{{Title: view.TitleAIAnalysis, Body: body, Preformatted: true}},
	}

	messages := RenderMessages(v)

	require.Greater(t, len(messages), 1)
	for _, msg := range messages {
		assert.LessOrEqual(t, utf8.RuneCountInString(msg), telegram.MaxMessageLength)
		assert.Equal(t, strings.Count(msg, "<pre>"), strings.Count(msg, "</pre>"))
	}
}

func TestRenderDigest(t *testing.T) {
	messages := RenderDigest(view.View{Status: model.StatusFailed, Error: "Market summary failed"})
	require.Len(t, messages, 1)
	assert.True(t, strings.HasPrefix(messages[0], msgDigestTitle))
	assert.Contains(t, messages[0], "Market summary failed")
}

func TestRenderSettings(t *testing.T) {
	input := model.DefaultSessionInput()
	input.Credential = model.Credential("sk-secret-9876")
	input.ScreeningCriteria = "cheap & cheerful"

	out := RenderSettings(input)

	assert.NotContains(t, out, "sk-secret-9876")
	assert.Contains(t, out, "9876")
	assert.Contains(t, out, "<code>AAPL,GOOGL,MSFT</code>")
	assert.Contains(t, out, "cheap &amp; cheerful")
	assert.Contains(t, out, "Custom prompt: (none)")
}
