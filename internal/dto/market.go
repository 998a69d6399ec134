package dto

import "encoding/json"

const (
	PathAnalyze       = "/api/market/analyze"
	PathMarketSummary = "/api/market/market-summary"
	PathStockScreener = "/api/market/stock-screener"
	PathHealth        = "/api/market/health"
)

const (
	ReportTypeDaily   = "daily"
	ScreenAny         = "any"
	ScreenMaxResults  = 10
	AnalysisTechnical = "technical"
)

var (
	SummaryIndices = []string{"^GSPC", "^DJI", "^IXIC"}
	SummarySectors = []string{"XLK", "XLF", "XLE", "XLV"}
)

type AnalyzeRequest struct {
	Symbols      []string `json:"symbols" validate:"required,min=1,dive,required"`
	AnalysisType string   `json:"analysis_type" validate:"required,oneof=technical fundamental sentiment"`
	TimePeriod   string   `json:"time_period" validate:"required,oneof=1d 5d 1mo 3mo 6mo 1y"`
	CustomPrompt string   `json:"custom_prompt"`
}

type MarketSummaryRequest struct {
	Indices    []string `json:"indices" validate:"required,min=1"`
	Sectors    []string `json:"sectors" validate:"required,min=1"`
	ReportType string   `json:"report_type" validate:"required"`
}

// NewMarketSummaryRequest returns the fixed daily summary envelope.
func NewMarketSummaryRequest() MarketSummaryRequest {
	return MarketSummaryRequest{
		Indices:    append([]string(nil), SummaryIndices...),
		Sectors:    append([]string(nil), SummarySectors...),
		ReportType: ReportTypeDaily,
	}
}

type ScreenRequest struct {
	Criteria   string `json:"criteria" validate:"required"`
	MarketCap  string `json:"market_cap" validate:"required"`
	Sector     string `json:"sector" validate:"required"`
	MaxResults int    `json:"max_results" validate:"gt=0"`
}

// NewScreenRequest fills the fixed screening options around the user criteria.
func NewScreenRequest(criteria string) ScreenRequest {
	return ScreenRequest{
		Criteria:   criteria,
		MarketCap:  ScreenAny,
		Sector:     ScreenAny,
		MaxResults: ScreenMaxResults,
	}
}

// MarketResponse is the common wire shape of the three POST endpoints. Presence of the
// payload keys is kept raw so the decoder can pick the variant once.
type MarketResponse struct {
	Success          *bool           `json:"success"`
	Error            *string         `json:"error"`
	Analysis         json.RawMessage `json:"analysis"`
	Summary          json.RawMessage `json:"summary"`
	ScreeningResults json.RawMessage `json:"screening_results"`
	MarketData       json.RawMessage `json:"market_data"`
	AnalysisType     string          `json:"analysis_type"`
	TimePeriod       string          `json:"time_period"`
	ReportType       string          `json:"report_type"`
	Criteria         string          `json:"criteria"`
}

type QuoteData struct {
	CurrentPrice       *float64 `json:"current_price"`
	PriceChange        *float64 `json:"price_change"`
	PriceChangePercent *float64 `json:"price_change_percent"`
	PERatio            *float64 `json:"pe_ratio"`
	Volume             *float64 `json:"volume"`
	Open               *float64 `json:"open"`
	High               *float64 `json:"high"`
	Low                *float64 `json:"low"`
	MarketCap          *float64 `json:"market_cap"`
	Sector             string   `json:"sector"`
	Industry           string   `json:"industry"`
	LongName           string   `json:"long_name"`
	Error              string   `json:"error"`
}

type IndexData struct {
	Name          string   `json:"name"`
	Current       *float64 `json:"current"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"change_percent"`
	Error         string   `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
