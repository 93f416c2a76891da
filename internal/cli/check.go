package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/sentinel"
	"github.com/roach88/sentinel/internal/sink"
	"github.com/roach88/sentinel/internal/world"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	RulesDir string        // CUE rules directory (defaults built in)
	Category string        // restrict to one category
	DBPath   string        // record the report to a SQLite sink
	Timeout  time.Duration // pass deadline (0 = none)
}

// CheckReport is the JSON payload of a check run.
type CheckReport struct {
	PassToken string        `json:"pass_token"`
	Turn      int64         `json:"turn"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Infos     int           `json:"infos"`
	Issues    []issue.Issue `json:"issues"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <world.yaml>",
		Short: "Validate a world snapshot",
		Long: `Run the consistency validators against a world snapshot file.

Exit codes:
  0 - No Error-severity issues found
  1 - Error-severity issues found
  2 - Command error (invalid paths, bad rules, etc.)

Examples:
  sentinel check world.yaml
  sentinel check world.yaml --rules ./rules
  sentinel check world.yaml --category narrative
  sentinel check world.yaml --db issues.db --timeout 5s`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "CUE rules directory (built-in defaults when omitted)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "validate one category only (entity|relationship|world_state|narrative)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the report to a SQLite issue database")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "abort the pass after this duration")

	return cmd
}

func runCheck(opts *CheckOptions, worldPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadRules(opts.RulesDir)
	if err != nil {
		return err
	}
	snap, err := loadWorld(worldPath)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded world %s: %d entities, %d relationships, %d locations",
		worldPath, len(snap.Entities), len(snap.Relationships), len(snap.Topology.Locations))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	s := sentinel.New(world.SnapshotFunc(func() world.Snapshot { return snap }), cfg)
	report, err := runPass(ctx, s, opts.Category)
	if err != nil {
		return err
	}

	if opts.DBPath != "" {
		if err := recordReport(ctx, opts.DBPath, report); err != nil {
			return WrapExitError(ExitCommandError, "recording report", err)
		}
		formatter.VerboseLog("Recorded pass %s to %s", report.PassToken, opts.DBPath)
	}

	if err := outputReport(formatter, report); err != nil {
		return err
	}
	if report.Errors() {
		return NewExitError(ExitFailure, "validation found errors")
	}
	return nil
}

// runPass executes either a full pass or a single category.
func runPass(ctx context.Context, s *sentinel.Sentinel, category string) (issue.Report, error) {
	if category == "" {
		return s.Run(ctx), nil
	}

	var issues []issue.Issue
	switch issue.Category(category) {
	case issue.CategoryEntity:
		issues = s.ValidateEntities(ctx)
	case issue.CategoryRelationship:
		issues = s.ValidateRelationships(ctx)
	case issue.CategoryWorldState:
		issues = s.ValidateWorldState(ctx)
	case issue.CategoryNarrative:
		issues = s.ValidateNarrative(ctx)
	default:
		return issue.Report{}, NewExitError(ExitCommandError, fmt.Sprintf("unknown category %q", category))
	}

	report := issue.Report{Issues: issues}
	if len(issues) > 0 {
		report.PassToken = issues[0].PassToken
	}
	return report, nil
}

func recordReport(ctx context.Context, dbPath string, report issue.Report) error {
	db, err := sink.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Record(ctx, report)
}

func outputReport(formatter *OutputFormatter, report issue.Report) error {
	errors, warnings, infos := issue.Count(report.Issues)

	if formatter.Format == "json" {
		return formatter.Success(CheckReport{
			PassToken: report.PassToken,
			Turn:      report.Turn,
			Errors:    errors,
			Warnings:  warnings,
			Infos:     infos,
			Issues:    report.Issues,
		})
	}

	for _, i := range report.Issues {
		fmt.Fprintln(formatter.Writer, i)
	}
	fmt.Fprintf(formatter.Writer, "%d error(s), %d warning(s), %d info(s)\n", errors, warnings, infos)
	return nil
}
