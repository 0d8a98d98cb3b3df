package logging

import (
	"maps"
	"slices"

	"github.com/ThreeDotsLabs/watermill"
)

// WatermillAdapter routes watermill's internal logs through Logger.
type WatermillAdapter struct {
	logger *Logger
	fields watermill.LogFields
}

func NewWatermillAdapter(logger *Logger) *WatermillAdapter {
	if logger == nil {
		logger = Default()
	}
	return &WatermillAdapter{logger: logger}
}

func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(a.args(fields), "error", err)...)
}

func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, a.args(fields)...)
}

func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.args(fields)...)
}

// Trace is logged at debug level; zap has no trace level.
func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.args(fields)...)
}

func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	merged := maps.Clone(a.fields)
	if merged == nil {
		merged = watermill.LogFields{}
	}
	maps.Copy(merged, fields)
	return &WatermillAdapter{logger: a.logger, fields: merged}
}

func (a *WatermillAdapter) args(fields watermill.LogFields) []any {
	all := a.fields.Add(fields)
	keys := slices.Sorted(maps.Keys(all))
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, all[k])
	}
	return out
}
