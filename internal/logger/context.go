package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds event-scoped logging context for a single FSM dispatch.
type LogContext struct {
	TraceID       string    // OpenTelemetry trace ID
	SpanID        string    // OpenTelemetry span ID
	CorrelationID string    // groups every log line for one external event
	Dialect       string    // ptmp, ptp, qsig
	Event         string    // FSM event name being dispatched
	RecordID      uint16    // CC record id, 0 if not yet assigned
	ChannelID     string    // D-channel identifier the record lives on
	StartTime     time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a D-channel.
func NewLogContext(channelID string) *LogContext {
	return &LogContext{
		ChannelID: channelID,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:       lc.TraceID,
		SpanID:        lc.SpanID,
		CorrelationID: lc.CorrelationID,
		Dialect:       lc.Dialect,
		Event:         lc.Event,
		RecordID:      lc.RecordID,
		ChannelID:     lc.ChannelID,
		StartTime:     lc.StartTime,
	}
}

// WithCorrelation returns a copy with the correlation id set.
func (lc *LogContext) WithCorrelation(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.CorrelationID = id
	}
	return clone
}

// WithEvent returns a copy with the dialect and event set
func (lc *LogContext) WithEvent(dialect, event string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Dialect = dialect
		clone.Event = event
	}
	return clone
}

// WithRecord returns a copy with the record id set
func (lc *LogContext) WithRecord(recordID uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.RecordID = recordID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
