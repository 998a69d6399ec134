package model

import "encoding/json"

type ResultKind int

const (
	ResultUnrecognized ResultKind = iota
	ResultAnalysis
	ResultSummary
	ResultScreen
)

func (k ResultKind) String() string {
	switch k {
	case ResultAnalysis:
		return "analysis"
	case ResultSummary:
		return "summary"
	case ResultScreen:
		return "screening"
	default:
		return "unrecognized"
	}
}

// Result is the decoded success payload. Implementations are AnalysisResult,
// SummaryResult, ScreenResult and UnrecognizedResult.
type Result interface {
	Kind() ResultKind
}

type QuoteMetrics struct {
	CurrentPrice       *float64
	PriceChange        *float64
	PriceChangePercent *float64
	PERatio            *float64
	Volume             *float64
	Open               *float64
	High               *float64
	Low                *float64
	MarketCap          *float64
	Sector             string
	Industry           string
	LongName           string
	Error              string
}

type QuoteEntry struct {
	Symbol  string
	Metrics QuoteMetrics
}

type IndexMetrics struct {
	Name          string
	Current       *float64
	Change        *float64
	ChangePercent *float64
	Error         string
}

type IndexEntry struct {
	Symbol  string
	Metrics IndexMetrics
}

// AnalysisResult keeps market data in the order the service sent it.
type AnalysisResult struct {
	Analysis     string
	AnalysisType string
	TimePeriod   string
	MarketData   []QuoteEntry
}

func (AnalysisResult) Kind() ResultKind { return ResultAnalysis }

type SummaryResult struct {
	Summary    string
	ReportType string
	MarketData []IndexEntry
}

func (SummaryResult) Kind() ResultKind { return ResultSummary }

type ScreenResult struct {
	Criteria         string
	ScreeningResults json.RawMessage
}

func (ScreenResult) Kind() ResultKind { return ResultScreen }

// UnrecognizedResult is a success body without analysis, summary or screening_results.
type UnrecognizedResult struct {
	Raw json.RawMessage
}

func (UnrecognizedResult) Kind() ResultKind { return ResultUnrecognized }
