package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbols(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "mixed case and spaces", raw: "aapl, googl ,MSFT", want: []string{"AAPL", "GOOGL", "MSFT"}},
		{name: "single", raw: "tsla", want: []string{"TSLA"}},
		{name: "empty tokens dropped", raw: "AAPL,,MSFT,", want: []string{"AAPL", "MSFT"}},
		{name: "only separators", raw: " , ,", want: []string{}},
		{name: "blank", raw: "   ", want: []string{}},
		{name: "duplicates keep first", raw: "msft,AAPL,Msft", want: []string{"MSFT", "AAPL"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSymbols(tt.raw))
		})
	}
}

func TestParseSymbols_Idempotent(t *testing.T) {
	first := ParseSymbols("aapl, googl ,MSFT")
	var joined string
	for i, s := range first {
		if i > 0 {
			joined += ","
		}
		joined += s
	}
	assert.Equal(t, first, ParseSymbols(joined))
}

func TestCredential_NeverPrintsSecret(t *testing.T) {
	c := Credential("sk-verysecretvalue")

	assert.NotContains(t, c.String(), "verysecret")
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v", c, c, c), "verysecret")

	in := SessionInput{Credential: c}
	assert.NotContains(t, fmt.Sprintf("%+v", in), "verysecret")

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "verysecret")

	assert.Equal(t, "sk-verysecretvalue", c.Reveal())
}

func TestCredential_IsBlank(t *testing.T) {
	assert.True(t, Credential("").IsBlank())
	assert.True(t, Credential(" \t ").IsBlank())
	assert.False(t, Credential("sk-1").IsBlank())
}

func TestDefaultSessionInput(t *testing.T) {
	in := DefaultSessionInput()
	assert.Equal(t, "AAPL,GOOGL,MSFT", in.Symbols)
	assert.Equal(t, AnalysisTechnical, in.AnalysisType)
	assert.Equal(t, Period1Month, in.TimePeriod)
	assert.True(t, in.Credential.IsBlank())
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Fundamental Analysis", AnalysisFundamental.DisplayName())
	assert.Equal(t, "3 Months", Period3Months.DisplayName())
	assert.Len(t, TimePeriods(), 6)
	assert.Len(t, AnalysisTypes(), 3)
}
