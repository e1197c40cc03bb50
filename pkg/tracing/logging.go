package tracing

import (
	"context"
	"log/slog"
	"time"
)

var (
	_ Tracer = LoggingTracer{}
	_ Span   = (*loggingSpan)(nil)
)

// Tracer starts spans.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is a single timed operation.
type Span interface {
	SetBaggageItem(key string, value any)
	Finish()
	FinishWithError(err error)
}

// LoggingTracer emits a debug record for each finished span.
type LoggingTracer struct {
	logger *slog.Logger
}

func NewLoggingTracer(logger *slog.Logger) *LoggingTracer {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingTracer{
		logger: logger,
	}
}

//nolint:ireturn
func (l LoggingTracer) StartSpan(operationName string) Span {
	logger := l.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &loggingSpan{
		logger:        logger,
		operationName: operationName,
		baggage:       []any{},
		start:         time.Now(),
	}
}

type loggingSpan struct {
	start         time.Time
	logger        *slog.Logger
	operationName string
	baggage       []any
}

func (s *loggingSpan) SetBaggageItem(key string, value any) {
	s.baggage = append(s.baggage, key, value)
}

func (s *loggingSpan) Finish() {
	s.log(slog.LevelDebug)
}

// FinishWithError finishes the span, logging at warn level when err is set.
func (s *loggingSpan) FinishWithError(err error) {
	if err == nil {
		s.Finish()

		return
	}

	s.SetBaggageItem("error", err.Error())
	s.log(slog.LevelWarn)
}

func (s *loggingSpan) log(level slog.Level) {
	attrs := make([]any, 0, len(s.baggage)+4)
	attrs = append(attrs, s.baggage...)
	attrs = append(attrs, "operation_name", s.operationName, "time_ms", time.Since(s.start).Seconds()*1e3)
	s.logger.Log(context.Background(), level, "trace", attrs...)
}
