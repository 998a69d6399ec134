package cli

import (
	"errors"
	"testing"

	"market-analysis/internal/dto"
	"market-analysis/internal/model"
	"market-analysis/internal/view"

	"github.com/stretchr/testify/assert"
)

func TestRenderView_Idle(t *testing.T) {
	assert.Empty(t, RenderView(view.View{Status: model.StatusIdle}))
}

func TestRenderView_LoadingAndError(t *testing.T) {
	out := RenderView(view.View{Status: model.StatusLoading, LoadingLabel: "Screening..."})
	assert.Contains(t, out, "Screening...")

	out = RenderView(view.View{Status: model.StatusFailed, Error: "rate limited"})
	assert.Contains(t, out, "rate limited")
}

func TestRenderView_Cards(t *testing.T) {
	v := view.View{
		Status:     model.StatusSucceeded,
		CardsTitle: view.TitleMarketData,
		Cards: []view.Card{
			{
				Title: "AAPL",
				Badge: "-1.30%",
				Trend: view.TrendDown,
				Lines: []view.Line{
					{Label: "Price", Value: "$150.00"},
					{Label: "Change", Value: "-$2.00", Trend: view.TrendDown},
				},
			},
			{Title: "ZZZZ", Error: "No data"},
		},
		Sections: []view.Section{{Title: view.TitleAIAnalysis, Body: "Looks weak", Preformatted: true}},
	}

	out := RenderView(v)

	for _, want := range []string{"Analysis Results", "Market Data", "AAPL", "▼ -1.30%", "$150.00", "-$2.00", "ZZZZ", "No data", "AI Analysis", "Looks weak"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSettings_MasksCredential(t *testing.T) {
	input := model.DefaultSessionInput()
	input.Credential = model.Credential("sk-live-123456")

	out := RenderSettings(input)

	assert.NotContains(t, out, "sk-live-123456")
	assert.Contains(t, out, "3456")
	assert.Contains(t, out, "AAPL,GOOGL,MSFT")
	assert.Contains(t, out, "Technical Analysis")
	assert.Contains(t, out, "1 Month")
}

func TestRenderHealth(t *testing.T) {
	assert.Contains(t, RenderHealth(&dto.HealthResponse{Status: "ok"}, nil), "ok")
	assert.Contains(t, RenderHealth(nil, errors.New("connection refused")), "connection refused")
}
