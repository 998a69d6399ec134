package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"market-analysis/internal/dto"
	"market-analysis/internal/model"
)

// decodeMarketResponse turns a response body into a result variant. It probes the
// payload keys once, in the order analysis, summary, screening_results.
func decodeMarketResponse(endpoint string, statusCode int, body []byte) (model.Result, error) {
	var resp dto.MarketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: fmt.Errorf("invalid JSON response: %w", err)}
	}

	if resp.Success == nil || !*resp.Success {
		msg := ""
		if resp.Error != nil {
			msg = *resp.Error
		}
		return nil, &ApplicationError{Endpoint: endpoint, StatusCode: statusCode, Message: msg}
	}

	switch {
	case present(resp.Analysis):
		text, err := decodeText(resp.Analysis)
		if err != nil {
			return nil, &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: fmt.Errorf("invalid analysis field: %w", err)}
		}
		quotes, err := decodeQuotes(resp.MarketData)
		if err != nil {
			return nil, &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
		}
		return model.AnalysisResult{
			Analysis:     text,
			AnalysisType: resp.AnalysisType,
			TimePeriod:   resp.TimePeriod,
			MarketData:   quotes,
		}, nil
	case present(resp.Summary):
		text, err := decodeText(resp.Summary)
		if err != nil {
			return nil, &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: fmt.Errorf("invalid summary field: %w", err)}
		}
		indices, err := decodeIndices(resp.MarketData)
		if err != nil {
			return nil, &TransportError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
		}
		return model.SummaryResult{
			Summary:    text,
			ReportType: resp.ReportType,
			MarketData: indices,
		}, nil
	case present(resp.ScreeningResults):
		return model.ScreenResult{
			Criteria:         resp.Criteria,
			ScreeningResults: append(json.RawMessage(nil), resp.ScreeningResults...),
		}, nil
	default:
		return model.UnrecognizedResult{Raw: append(json.RawMessage(nil), body...)}, nil
	}
}

// present reports whether a payload key holds a truthy value: missing, null, "", false
// and 0 all fall through to the next key.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case 'n', 'f':
		return false
	case '"':
		return !bytes.Equal(trimmed, []byte(`""`))
	case '[', '{', 't':
		return true
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n != 0
	}
	return true
}

// decodeText accepts a JSON string; any other JSON value is kept as its compact text.
func decodeText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type keyedRaw struct {
	Key   string
	Value json.RawMessage
}

// orderedObject reads a JSON object keeping its key order. null yields no entries.
func orderedObject(raw json.RawMessage) ([]keyedRaw, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("market_data must be an object")
	}

	var entries []keyedRaw
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected market_data key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, keyedRaw{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeQuotes(raw json.RawMessage) ([]model.QuoteEntry, error) {
	entries, err := orderedObject(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid market_data: %w", err)
	}
	quotes := make([]model.QuoteEntry, 0, len(entries))
	for _, e := range entries {
		var q dto.QuoteData
		if err := json.Unmarshal(e.Value, &q); err != nil {
			quotes = append(quotes, model.QuoteEntry{Symbol: e.Key, Metrics: model.QuoteMetrics{Error: "malformed market data"}})
			continue
		}
		quotes = append(quotes, model.QuoteEntry{
			Symbol: e.Key,
			Metrics: model.QuoteMetrics{
				CurrentPrice:       q.CurrentPrice,
				PriceChange:        q.PriceChange,
				PriceChangePercent: q.PriceChangePercent,
				PERatio:            q.PERatio,
				Volume:             q.Volume,
				Open:               q.Open,
				High:               q.High,
				Low:                q.Low,
				MarketCap:          q.MarketCap,
				Sector:             q.Sector,
				Industry:           q.Industry,
				LongName:           q.LongName,
				Error:              q.Error,
			},
		})
	}
	return quotes, nil
}

func decodeIndices(raw json.RawMessage) ([]model.IndexEntry, error) {
	entries, err := orderedObject(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid market_data: %w", err)
	}
	indices := make([]model.IndexEntry, 0, len(entries))
	for _, e := range entries {
		var d dto.IndexData
		if err := json.Unmarshal(e.Value, &d); err != nil {
			indices = append(indices, model.IndexEntry{Symbol: e.Key, Metrics: model.IndexMetrics{Error: "malformed market data"}})
			continue
		}
		indices = append(indices, model.IndexEntry{
			Symbol: e.Key,
			Metrics: model.IndexMetrics{
				Name:          d.Name,
				Current:       d.Current,
				Change:        d.Change,
				ChangePercent: d.ChangePercent,
				Error:         d.Error,
			},
		})
	}
	return indices, nil
}
