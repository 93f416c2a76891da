// Package sink delivers validation reports to consumers.
//
// Sentinel itself performs no I/O; a sink is the caller-side component
// that persists, logs, or forwards the issues of a pass. Two
// implementations ship here: LogSink (structured logging via slog) and
// SQLiteSink (durable pass history with read-back for the history
// command). Hosts with other needs implement the one-method Sink
// interface themselves.
package sink
