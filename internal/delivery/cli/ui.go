package cli

import (
	"fmt"
	"strings"

	"market-analysis/internal/dto"
	"market-analysis/internal/model"
	"market-analysis/internal/view"

	"github.com/charmbracelet/lipgloss"
)

const cardsPerRow = 3

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#3B82F6"))

	preformattedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#6B7280")).
				Padding(1, 2).
				Width(80)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1).
			Width(26)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	valueStyle = lipgloss.NewStyle().Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	settingsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 2).
			Width(80)
)

func trendStyle(t view.Trend) lipgloss.Style {
	switch t {
	case view.TrendUp:
		return upStyle
	case view.TrendDown:
		return downStyle
	default:
		return lipgloss.NewStyle()
	}
}

func trendGlyph(t view.Trend) string {
	switch t {
	case view.TrendUp:
		return "▲ "
	case view.TrendDown:
		return "▼ "
	default:
		return ""
	}
}

// RenderView draws a view for the terminal. An idle view renders as an empty string.
func RenderView(v view.View) string {
	switch v.Status {
	case model.StatusLoading:
		return RenderLoading(v.LoadingLabel)
	case model.StatusFailed:
		return errorStyle.Render("✗ " + v.Error)
	case model.StatusSucceeded:
		return renderResult(v)
	default:
		return ""
	}
}

func RenderLoading(label string) string {
	return loadingStyle.Render("⏳ " + label)
}

func renderResult(v view.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(view.TitleResults))
	b.WriteString("\n")

	if len(v.Cards) > 0 {
		b.WriteString(sectionTitleStyle.Render(v.CardsTitle))
		b.WriteString("\n")
		b.WriteString(renderCards(v.Cards))
		b.WriteString("\n\n")
	}

	for i, section := range v.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sectionTitleStyle.Render(section.Title))
		b.WriteString("\n")
		if section.Preformatted {
			b.WriteString(preformattedStyle.Render(section.Body))
		} else {
			b.WriteString(section.Body)
		}
	}
	return b.String()
}

func renderCards(cards []view.Card) string {
	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		rendered = append(rendered, renderCard(card))
	}

	rows := make([]string, 0, (len(rendered)+cardsPerRow-1)/cardsPerRow)
	for start := 0; start < len(rendered); start += cardsPerRow {
		end := start + cardsPerRow
		if end > len(rendered) {
			end = len(rendered)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(card view.Card) string {
	lines := []string{cardTitleStyle.Render(card.Title)}
	if card.Error != "" {
		lines = append(lines, errorStyle.Render(card.Error))
		return cardStyle.Render(strings.Join(lines, "\n"))
	}

	lines[0] = fmt.Sprintf("%s  %s", lines[0], trendStyle(card.Trend).Render(trendGlyph(card.Trend)+card.Badge))
	if card.Value != "" {
		lines = append(lines, valueStyle.Render(card.Value))
	}
	for _, line := range card.Lines {
		value := line.Value
		if line.Trend != view.TrendNeutral {
			value = trendStyle(line.Trend).Render(value)
		}
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(line.Label+":"), value))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderSettings shows the session input with the credential masked.
func RenderSettings(input model.SessionInput) string {
	prompt := input.CustomPrompt
	if prompt == "" {
		prompt = "(none)"
	}
	criteria := input.ScreeningCriteria
	if criteria == "" {
		criteria = "(none)"
	}

	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("API key:"), input.Credential.String()),
		fmt.Sprintf("%s %s", labelStyle.Render("Symbols:"), input.Symbols),
		fmt.Sprintf("%s %s", labelStyle.Render("Analysis type:"), input.AnalysisType.DisplayName()),
		fmt.Sprintf("%s %s", labelStyle.Render("Time period:"), input.TimePeriod.DisplayName()),
		fmt.Sprintf("%s %s", labelStyle.Render("Custom prompt:"), prompt),
		fmt.Sprintf("%s %s", labelStyle.Render("Screening criteria:"), criteria),
	}
	return settingsStyle.Render(strings.Join(rows, "\n"))
}

func RenderHealth(health *dto.HealthResponse, err error) string {
	if err != nil {
		return errorStyle.Render("✗ Analysis service unavailable: " + err.Error())
	}
	msg := health.Status
	if health.Message != "" {
		msg += " (" + health.Message + ")"
	}
	return upStyle.Render("✓ Analysis service " + msg)
}

func DisplayWelcomeBanner() string {
	banner := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Width(80).
		Align(lipgloss.Center)
	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Width(80).
		Align(lipgloss.Center)
	return banner.Render("📈 Market Analysis") + "\n" + tagline.Render("AI stock analysis, market summaries and screening") + "\n"
}
