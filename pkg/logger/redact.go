package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redactedValue = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"credential":       {},
	"api_key":          {},
	"apikey":           {},
	"x_openai_api_key": {},
	"authorization":    {},
	"bot_token":        {},
	"token":            {},
	"password":         {},
}

// RedactCore replaces the value of sensitive fields before delegating to the wrapped core.
type RedactCore struct {
	core zapcore.Core
}

func NewRedactCore(core zapcore.Core) zapcore.Core {
	return &RedactCore{core: core}
}

func (r *RedactCore) Enabled(lvl zapcore.Level) bool {
	return r.core.Enabled(lvl)
}

func (r *RedactCore) With(fields []zapcore.Field) zapcore.Core {
	return &RedactCore{core: r.core.With(redactFields(fields))}
}

func (r *RedactCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, r)
	}
	return checkedEntry
}

func (r *RedactCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return r.core.Write(entry, redactFields(fields))
}

func (r *RedactCore) Sync() error {
	return r.core.Sync()
}

// IsSensitiveKey reports whether a field or header name carries a secret.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	_, ok := sensitiveKeys[normalized]
	return ok
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if !IsSensitiveKey(f.Key) {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i] = zap.String(f.Key, redactedValue)
	}
	if out == nil {
		return fields
	}
	return out
}
