package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Span struct {
	TraceID   string            `json:"trace_id"`
	SpanID    string            `json:"span_id"`
	ParentID  string            `json:"parent_id,omitempty"`
	Operation string            `json:"operation"`
	StartTime time.Time         `json:"start_time"`
	Duration  time.Duration     `json:"duration,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	Status    SpanStatus        `json:"status"`
	Error     string            `json:"error,omitempty"`
}

type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

type spanContextKey struct{}

// StartSpan opens a span under the span already in ctx, if any.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		TraceID:   uuid.NewString(),
		SpanID:    uuid.NewString(),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
		Tags:      make(map[string]string),
	}

	if parent := GetSpan(ctx); parent != nil {
		span.ParentID = parent.SpanID
		span.TraceID = parent.TraceID
	}

	return context.WithValue(ctx, spanContextKey{}, span), span
}

func (s *Span) Finish() {
	s.Duration = time.Since(s.StartTime)
}

func (s *Span) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[key] = value
}

func (s *Span) SetError(err error) {
	s.Status = SpanStatusError
	if err != nil {
		s.Error = err.Error()
	}
}

// LogValue lets a span be passed directly as a slog attribute.
func (s *Span) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.String("operation", s.Operation),
		slog.Duration("duration", s.Duration),
		slog.String("status", string(s.Status)),
	}
	if s.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", s.ParentID))
	}
	if s.Error != "" {
		attrs = append(attrs, slog.String("error", s.Error))
	}
	return slog.GroupValue(attrs...)
}

func GetSpan(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		return span
	}
	return nil
}
