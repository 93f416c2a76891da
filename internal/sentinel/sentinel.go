package sentinel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/validate"
	"github.com/roach88/sentinel/internal/world"
)

// AutoFixHandler is a caller-supplied remediation callback, invoked once
// per issue after collection. Returning fixed=true annotates the issue as
// Resolved; returning an error produces an auto-fix failure issue. The
// handler owns all state mutation — Sentinel itself stays read-only.
type AutoFixHandler func(issue.Issue) (fixed bool, err error)

// Sentinel coordinates the four validators over provider snapshots.
//
// Construct with New; the config is read-only for the Sentinel's lifetime.
// To change rules at runtime, build a new Config and a new Sentinel —
// in-place mutation would race with a concurrent pass.
type Sentinel struct {
	provider world.Provider
	cfg      config.Config
	logger   *slog.Logger
	passGen  PassTokenGenerator
	now      func() time.Time
	autoFix  AutoFixHandler
}

// Option configures a Sentinel.
type Option func(*Sentinel)

// WithLogger sets the diagnostic logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sentinel) { s.logger = l }
}

// WithPassTokens sets the pass token generator. Defaults to UUIDv7.
func WithPassTokens(g PassTokenGenerator) Option {
	return func(s *Sentinel) { s.passGen = g }
}

// WithClock sets the wall-clock source for issue timestamps.
// Tests inject a fixed clock for reproducible reports.
func WithClock(now func() time.Time) Option {
	return func(s *Sentinel) { s.now = now }
}

// WithAutoFix installs a remediation handler. The handler only runs when
// the config's AutoFixEnabled flag is also set.
func WithAutoFix(h AutoFixHandler) Option {
	return func(s *Sentinel) { s.autoFix = h }
}

// New creates a Sentinel over the given provider and rule tables.
func New(provider world.Provider, cfg config.Config, opts ...Option) *Sentinel {
	s := &Sentinel{
		provider: provider,
		cfg:      cfg,
		logger:   slog.Default(),
		passGen:  UUIDv7Generator{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// runner pairs a category with its validator for fan-out.
type runner struct {
	category issue.Category
	run      func(world.Snapshot, config.Config) []issue.Issue
}

var runners = []runner{
	{issue.CategoryEntity, validate.Entities},
	{issue.CategoryRelationship, validate.Relationships},
	{issue.CategoryWorldState, validate.WorldState},
	{issue.CategoryNarrative, validate.Narrative},
}

// Run executes a full validation pass and returns the aggregate report.
//
// The four validators run concurrently against the same snapshot. Results
// are assembled in canonical category order, sorted by severity, stamped
// with the pass token and timestamp, and optionally handed to the auto-fix
// handler. With the master switch off the report is empty.
func (s *Sentinel) Run(ctx context.Context) issue.Report {
	if !s.cfg.Enabled {
		return issue.Report{}
	}

	snap := s.provider.Snapshot()
	report := issue.Report{
		PassToken: s.passGen.Generate(),
		Turn:      snap.Turn,
		StartedAt: s.now(),
	}

	type result struct {
		category issue.Category
		issues   []issue.Issue
	}
	results := make(chan result, len(runners))
	for _, r := range runners {
		r := r
		go func() {
			results <- result{r.category, s.runSafe(r.category, func() []issue.Issue {
				return r.run(snap, s.cfg)
			})}
		}()
	}

	completed := make(map[issue.Category][]issue.Issue, len(runners))
	timedOut := false
	for len(completed) < len(runners) && !timedOut {
		select {
		case r := <-results:
			completed[r.category] = r.issues
		case <-ctx.Done():
			// Unfinished validators are abandoned; their goroutines drain
			// into the buffered channel and are garbage collected.
			timedOut = true
		}
	}

	var all []issue.Issue
	for _, r := range runners {
		if issues, ok := completed[r.category]; ok {
			all = append(all, issues...)
		}
	}
	issue.Sort(all)
	if timedOut {
		all = append(all, issue.Issue{
			Severity: issue.Warning,
			Category: issue.CategoryMeta,
			Code:     issue.CodeTimeout,
			Message:  fmt.Sprintf("validation timed out after %d of %d validators completed: %v", len(completed), len(runners), ctx.Err()),
		})
	}

	all = s.applyAutoFix(all)
	s.stamp(all, report)
	report.Issues = all

	errors, warnings, infos := issue.Count(all)
	s.logger.Debug("validation pass complete",
		"pass", report.PassToken,
		"turn", report.Turn,
		"errors", errors,
		"warnings", warnings,
		"infos", infos,
	)
	return report
}

// ValidateAll runs a full pass and returns the flat issue list.
func (s *Sentinel) ValidateAll(ctx context.Context) []issue.Issue {
	return s.Run(ctx).Issues
}

// ValidateEntity checks a single entity, for cheap targeted validation
// immediately after an entity mutation.
func (s *Sentinel) ValidateEntity(ctx context.Context, id world.EntityID) []issue.Issue {
	return s.runCategory(ctx, issue.CategoryEntity, func(snap world.Snapshot, cfg config.Config) []issue.Issue {
		return validate.EntityByID(snap, id, cfg)
	})
}

// ValidateEntities runs only the entity validator.
func (s *Sentinel) ValidateEntities(ctx context.Context) []issue.Issue {
	return s.runCategory(ctx, issue.CategoryEntity, validate.Entities)
}

// ValidateRelationships runs only the relationship validator.
func (s *Sentinel) ValidateRelationships(ctx context.Context) []issue.Issue {
	return s.runCategory(ctx, issue.CategoryRelationship, validate.Relationships)
}

// ValidateWorldState runs only the world-state validator.
func (s *Sentinel) ValidateWorldState(ctx context.Context) []issue.Issue {
	return s.runCategory(ctx, issue.CategoryWorldState, validate.WorldState)
}

// ValidateNarrative runs only the narrative validator.
func (s *Sentinel) ValidateNarrative(ctx context.Context) []issue.Issue {
	return s.runCategory(ctx, issue.CategoryNarrative, validate.Narrative)
}

// runCategory executes one validator synchronously with the same
// disabled-switch, recovery, stamping, and auto-fix semantics as Run.
func (s *Sentinel) runCategory(ctx context.Context, cat issue.Category, fn func(world.Snapshot, config.Config) []issue.Issue) []issue.Issue {
	if !s.cfg.Enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return []issue.Issue{{
			Severity: issue.Warning,
			Category: issue.CategoryMeta,
			Code:     issue.CodeTimeout,
			Message:  fmt.Sprintf("validation timed out before %s validator started: %v", cat, err),
		}}
	}

	snap := s.provider.Snapshot()
	report := issue.Report{
		PassToken: s.passGen.Generate(),
		Turn:      snap.Turn,
		StartedAt: s.now(),
	}

	issues := s.runSafe(cat, func() []issue.Issue { return fn(snap, s.cfg) })
	issue.Sort(issues)
	issues = s.applyAutoFix(issues)
	s.stamp(issues, report)
	return issues
}

// runSafe invokes a validator, converting a panic into a synthetic
// internal-failure issue for its category instead of aborting the pass.
func (s *Sentinel) runSafe(cat issue.Category, fn func() []issue.Issue) (out []issue.Issue) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("validator panicked", "category", cat, "cause", r)
			out = []issue.Issue{{
				Severity: issue.Error,
				Category: cat,
				Code:     issue.CodeValidatorFailure,
				Message:  fmt.Sprintf("validator internal failure: %v", r),
			}}
		}
	}()
	return fn()
}

// applyAutoFix invokes the caller-supplied handler per issue. Fixed issues
// are annotated, never removed; handler errors append auto-fix failure
// issues referencing the original code.
func (s *Sentinel) applyAutoFix(issues []issue.Issue) []issue.Issue {
	if !s.cfg.AutoFixEnabled || s.autoFix == nil {
		return issues
	}
	var failures []issue.Issue
	for n := range issues {
		fixed, err := s.autoFix(issues[n])
		if err != nil {
			failures = append(failures, issue.Issue{
				Severity: issue.Warning,
				Category: issue.CategoryAutoFix,
				Code:     issue.CodeAutoFixFailure,
				Refs:     issues[n].Refs,
				Message:  fmt.Sprintf("auto-fix for [%s] failed: %v", issues[n].Code, err),
			})
			continue
		}
		if fixed {
			issues[n].Resolved = true
		}
	}
	return append(issues, failures...)
}

// stamp sets the pass token and detection timestamp on every issue.
func (s *Sentinel) stamp(issues []issue.Issue, report issue.Report) {
	detected := s.now()
	for n := range issues {
		issues[n].PassToken = report.PassToken
		issues[n].DetectedAt = detected
	}
}
