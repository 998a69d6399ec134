package view

import (
	"bytes"

	"market-analysis/internal/model"
	"market-analysis/pkg/utils"

	"github.com/tidwall/pretty"
)

const (
	TitleResults         = "Analysis Results"
	TitleMarketData      = "Market Data"
	TitleMarketOverview  = "Market Overview"
	TitleAIAnalysis      = "AI Analysis"
	TitleMarketSummary   = "Market Summary"
	TitleScreeningResult = "Stock Screening Results"
	TitleRawResponse     = "Response"
)

type Trend int

const (
	TrendNeutral Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "neutral"
	}
}

// TrendOf is up for non-negative values, down for negative ones and neutral when absent.
func TrendOf(v *float64) Trend {
	switch {
	case v == nil:
		return TrendNeutral
	case *v >= 0:
		return TrendUp
	default:
		return TrendDown
	}
}

type Line struct {
	Label string
	Value string
	Trend Trend
}

type Card struct {
	Title string
	Badge string
	Trend Trend
	// Value is the headline figure; index cards use it, quote cards leave it empty.
	Value string
	Lines []Line
	Error string
}

type Section struct {
	Title        string
	Body         string
	Preformatted bool
}

// View is everything a front-end needs to draw one State.
type View struct {
	Status       model.Status
	Operation    model.Operation
	LoadingLabel string
	Error        string
	ErrorKind    model.ErrorKind
	CardsTitle   string
	Cards        []Card
	Sections     []Section
}

func (v View) IsEmpty() bool {
	return v.Status == model.StatusIdle
}

// Build is pure: it reads only the given state.
func Build(state model.State) View {
	op := state.Op
	v := View{Status: op.Status(), Operation: op.Operation()}

	switch op.Status() {
	case model.StatusLoading:
		v.LoadingLabel = op.Operation().LoadingLabel()
	case model.StatusFailed:
		v.Error, v.ErrorKind, _ = op.Error()
	case model.StatusSucceeded:
		result, _ := op.Result()
		buildResult(&v, result)
	}
	return v
}

func buildResult(v *View, result model.Result) {
	switch r := result.(type) {
	case model.AnalysisResult:
		if len(r.MarketData) > 0 {
			v.CardsTitle = TitleMarketData
			v.Cards = make([]Card, 0, len(r.MarketData))
			for _, entry := range r.MarketData {
				v.Cards = append(v.Cards, QuoteCard(entry))
			}
		}
		v.Sections = append(v.Sections, Section{Title: TitleAIAnalysis, Body: r.Analysis, Preformatted: true})
	case model.SummaryResult:
		if len(r.MarketData) > 0 {
			v.CardsTitle = TitleMarketOverview
			v.Cards = make([]Card, 0, len(r.MarketData))
			for _, entry := range r.MarketData {
				v.Cards = append(v.Cards, IndexCard(entry))
			}
		}
		v.Sections = append(v.Sections, Section{Title: TitleMarketSummary, Body: r.Summary, Preformatted: true})
	case model.ScreenResult:
		v.Sections = append(v.Sections, Section{Title: TitleScreeningResult, Body: PrettyJSON(r.ScreeningResults), Preformatted: true})
	case model.UnrecognizedResult:
		if len(r.Raw) > 0 {
			v.Sections = append(v.Sections, Section{Title: TitleRawResponse, Body: PrettyJSON(r.Raw), Preformatted: true})
		}
	}
}

func QuoteCard(entry model.QuoteEntry) Card {
	m := entry.Metrics
	card := Card{Title: entry.Symbol}
	if m.Error != "" {
		card.Error = m.Error
		return card
	}

	trend := TrendOf(m.PriceChange)
	card.Badge = utils.FormatPercent(m.PriceChangePercent)
	card.Trend = trend
	card.Lines = []Line{
		{Label: "Price", Value: utils.FormatCurrency(m.CurrentPrice)},
		{Label: "Change", Value: utils.FormatCurrency(m.PriceChange), Trend: trend},
	}
	if m.PERatio != nil && *m.PERatio != 0 {
		card.Lines = append(card.Lines, Line{Label: "P/E", Value: utils.FormatFixed2(*m.PERatio)})
	}
	return card
}

func IndexCard(entry model.IndexEntry) Card {
	m := entry.Metrics
	title := m.Name
	if title == "" {
		title = entry.Symbol
	}
	card := Card{Title: title}
	if m.Error != "" {
		card.Error = m.Error
		return card
	}

	trend := TrendOf(m.Change)
	card.Badge = utils.FormatPercent(m.ChangePercent)
	card.Trend = trend
	card.Value = utils.FormatCurrency(m.Current)
	card.Lines = []Line{
		{Label: "Change", Value: utils.FormatCurrency(m.Change), Trend: trend},
	}
	return card
}

var prettyOptions = &pretty.Options{Width: -1, Prefix: "", Indent: "  ", SortKeys: false}

// PrettyJSON indents raw by two spaces keeping key order.
func PrettyJSON(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	return string(bytes.TrimRight(pretty.PrettyOptions(trimmed, prettyOptions), "\n"))
}
