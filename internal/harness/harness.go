package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/sentinel"
	"github.com/roach88/sentinel/internal/testutil"
	"github.com/roach88/sentinel/internal/world"
)

// epoch is the fixed instant every harness pass is stamped with.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Result is the outcome of running a scenario.
type Result struct {
	// Passed is true when every assertion held.
	Passed bool

	// Report is the full report the pass produced.
	Report issue.Report

	// Failures holds one error per failed assertion.
	Failures []error
}

// Run executes a scenario against a real Sentinel and evaluates its
// assertions.
//
// Execution flow:
//  1. Build rule tables (scenario CUE overrides, else defaults)
//  2. Run a full pass with deterministic clock and fixed pass token
//  3. Evaluate assertions against the report
func Run(scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, err
	}

	snap := scenario.World
	s := sentinel.New(
		world.SnapshotFunc(func() world.Snapshot { return snap }),
		cfg,
		sentinel.WithClock(testutil.FixedClock(epoch)),
		sentinel.WithPassTokens(testutil.NewFixedPassGenerator(scenario.PassToken)),
		sentinel.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	report := s.Run(context.Background())

	result := &Result{Passed: true, Report: report}
	for _, assertion := range scenario.Expect {
		if err := evaluate(report, assertion); err != nil {
			result.Passed = false
			result.Failures = append(result.Failures, err)
		}
	}
	return result, nil
}

// scenarioConfig builds the rule tables for a scenario run.
func scenarioConfig(scenario *Scenario) (config.Config, error) {
	if scenario.Rules == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadBytes([]byte(scenario.Rules))
	if err != nil {
		return config.Config{}, fmt.Errorf("scenario %q rules: %w", scenario.Name, err)
	}
	return cfg, nil
}
