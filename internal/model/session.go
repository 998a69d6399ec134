package model

import (
	"encoding/json"
	"strings"

	"market-analysis/pkg/utils"
)

type AnalysisType string

const (
	AnalysisTechnical   AnalysisType = "technical"
	AnalysisFundamental AnalysisType = "fundamental"
	AnalysisSentiment   AnalysisType = "sentiment"
)

func AnalysisTypes() []AnalysisType {
	return []AnalysisType{AnalysisTechnical, AnalysisFundamental, AnalysisSentiment}
}

func (a AnalysisType) DisplayName() string {
	return utils.CapitalizeSentence(string(a)) + " Analysis"
}

type TimePeriod string

const (
	Period1Day    TimePeriod = "1d"
	Period5Days   TimePeriod = "5d"
	Period1Month  TimePeriod = "1mo"
	Period3Months TimePeriod = "3mo"
	Period6Months TimePeriod = "6mo"
	Period1Year   TimePeriod = "1y"
)

func TimePeriods() []TimePeriod {
	return []TimePeriod{Period1Day, Period5Days, Period1Month, Period3Months, Period6Months, Period1Year}
}

func (p TimePeriod) DisplayName() string {
	switch p {
	case Period1Day:
		return "1 Day"
	case Period5Days:
		return "5 Days"
	case Period1Month:
		return "1 Month"
	case Period3Months:
		return "3 Months"
	case Period6Months:
		return "6 Months"
	case Period1Year:
		return "1 Year"
	default:
		return string(p)
	}
}

// Credential is the user's API key. It prints masked so it cannot leak through
// fmt or JSON; use Reveal to read the real value.
type Credential string

func (c Credential) String() string {
	return utils.MaskSecret(string(c))
}

func (c Credential) GoString() string {
	return c.String()
}

func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c Credential) Reveal() string {
	return string(c)
}

func (c Credential) IsBlank() bool {
	return strings.TrimSpace(string(c)) == ""
}

type SessionInput struct {
	Credential        Credential
	Symbols           string
	AnalysisType      AnalysisType
	TimePeriod        TimePeriod
	CustomPrompt      string
	ScreeningCriteria string
}

// DefaultSessionInput mirrors the initial form values.
func DefaultSessionInput() SessionInput {
	return SessionInput{
		Symbols:      "AAPL,GOOGL,MSFT",
		AnalysisType: AnalysisTechnical,
		TimePeriod:   Period1Month,
	}
}

// ParseSymbols splits on commas, trims, uppercases and drops empty and repeated tokens.
func ParseSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s == "" || utils.ContainsString(symbols, s) {
			continue
		}
		symbols = append(symbols, s)
	}
	return symbols
}
