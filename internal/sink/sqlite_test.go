package sink

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

func openTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "issues.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(token string, started time.Time) issue.Report {
	return issue.Report{
		PassToken: token,
		Turn:      7,
		StartedAt: started,
		Issues: []issue.Issue{
			{
				Severity:   issue.Error,
				Category:   issue.CategoryEntity,
				Code:       issue.CodeMissingField,
				Refs:       []world.EntityRef{{ID: "npc1", Kind: world.KindCharacter}},
				Message:    "missing field",
				PassToken:  token,
				DetectedAt: started,
			},
			{
				Severity:   issue.Warning,
				Category:   issue.CategoryNarrative,
				Code:       issue.CodeNarrativeContradiction,
				Message:    "contradiction",
				PassToken:  token,
				DetectedAt: started,
				Resolved:   true,
			},
		},
	}
}

func TestSQLiteSink_RecordAndReadBack(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, sampleReport("pass-1", started)))

	passes, err := s.Passes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	assert.Equal(t, "pass-1", passes[0].Token)
	assert.Equal(t, int64(7), passes[0].Turn)
	assert.Equal(t, started, passes[0].StartedAt)
	assert.Equal(t, 1, passes[0].Errors)
	assert.Equal(t, 1, passes[0].Warnings)
	assert.Equal(t, 0, passes[0].Infos)

	issues, err := s.PassIssues(ctx, "pass-1")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, issue.CodeMissingField, issues[0].Code)
	assert.Equal(t, world.EntityID("npc1"), issues[0].Refs[0].ID)
	assert.Equal(t, world.KindCharacter, issues[0].Refs[0].Kind)
	assert.Equal(t, issue.Warning, issues[1].Severity)
	assert.True(t, issues[1].Resolved)
	assert.Nil(t, issues[1].Refs)
}

func TestSQLiteSink_RecordIdempotent(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	report := sampleReport("pass-1", started)
	require.NoError(t, s.Record(ctx, report))
	// Retried delivery of the same pass is a no-op.
	require.NoError(t, s.Record(ctx, report))

	passes, err := s.Passes(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, passes, 1)

	issues, err := s.PassIssues(ctx, "pass-1")
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestSQLiteSink_PassesNewestFirst(t *testing.T) {
	s := openTestSink(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for n, token := range []string{"pass-1", "pass-2", "pass-3"} {
		r := sampleReport(token, base.Add(time.Duration(n)*time.Minute))
		require.NoError(t, s.Record(ctx, r))
	}

	passes, err := s.Passes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, "pass-3", passes[0].Token)
	assert.Equal(t, "pass-2", passes[1].Token)
}

func TestSQLiteSink_PassIssues_UnknownToken(t *testing.T) {
	s := openTestSink(t)

	issues, err := s.PassIssues(context.Background(), "no-such-pass")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestSQLiteSink_ReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "issues.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, sampleReport("pass-1", time.Now().UTC())))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	passes, err := s.Passes(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, passes, 1)
}

func TestLogSink_Record(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sink := NewLogSink(logger)
	report := sampleReport("pass-1", time.Now().UTC())
	require.NoError(t, sink.Record(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "validation report")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=E201")
}
