package sink

import (
	"context"
	"log/slog"

	"github.com/roach88/sentinel/internal/issue"
)

// Sink receives the reports of completed validation passes.
type Sink interface {
	Record(ctx context.Context, report issue.Report) error
}

// LogSink writes every issue of a report to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Record implements Sink. Severity maps to log level: Error issues log at
// error level, Warning at warn, Info at info.
func (s *LogSink) Record(ctx context.Context, report issue.Report) error {
	errors, warnings, infos := issue.Count(report.Issues)
	s.logger.InfoContext(ctx, "validation report",
		"pass", report.PassToken,
		"turn", report.Turn,
		"errors", errors,
		"warnings", warnings,
		"infos", infos,
	)
	for _, i := range report.Issues {
		attrs := []any{
			"pass", report.PassToken,
			"code", i.Code,
			"category", i.Category,
			"resolved", i.Resolved,
		}
		switch i.Severity {
		case issue.Error:
			s.logger.ErrorContext(ctx, i.Message, attrs...)
		case issue.Warning:
			s.logger.WarnContext(ctx, i.Message, attrs...)
		default:
			s.logger.InfoContext(ctx, i.Message, attrs...)
		}
	}
	return nil
}
