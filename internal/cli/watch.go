package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/sentinel"
	"github.com/roach88/sentinel/internal/sink"
	"github.com/roach88/sentinel/internal/world"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	RulesDir string
	DBPath   string
	Interval time.Duration // fallback cadence for unconfigured categories
}

// NewWatchCommand creates the watch command.
//
// Watch is the external scheduler the engine deliberately does not own:
// it re-reads the world file and re-runs each category at the advisory
// cadence from the rules' intervals table. Sentinel stays timer-free.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <world.yaml>",
		Short: "Re-validate a world snapshot on the configured intervals",
		Long: `Continuously validate a world snapshot file.

Each category re-runs at the cadence configured in the rules' intervals
table (or --interval for categories with none). The world file is
re-read before every pass, so edits are picked up live. Stop with Ctrl-C.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "CUE rules directory (built-in defaults when omitted)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record reports to a SQLite issue database")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 30*time.Second, "cadence for categories without a configured interval")

	return cmd
}

func runWatch(opts *WatchOptions, worldPath string, cmd *cobra.Command) error {
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

	var db *sink.SQLiteSink
	if opts.DBPath != "" {
		db, err = sink.Open(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening issue database", err)
		}
		defer db.Close()
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The provider re-reads the file per pass so live edits are seen.
	// A read failure yields an empty snapshot; the pass then reports
	// nothing rather than crashing the watcher.
	provider := world.SnapshotFunc(func() world.Snapshot {
		snap, err := world.LoadSnapshot(worldPath)
		if err != nil {
			formatter.VerboseLog("world reload failed: %v", err)
			return world.Snapshot{}
		}
		return snap
	})
	s := sentinel.New(provider, cfg)

	runners := []struct {
		category issue.Category
		run      func(context.Context) []issue.Issue
	}{
		{issue.CategoryEntity, s.ValidateEntities},
		{issue.CategoryRelationship, s.ValidateRelationships},
		{issue.CategoryWorldState, s.ValidateWorldState},
		{issue.CategoryNarrative, s.ValidateNarrative},
	}

	for _, r := range runners {
		interval := cfg.Intervals[r.category]
		if interval <= 0 {
			interval = opts.Interval
		}
		go watchCategory(ctx, formatter, db, r.category, interval, r.run)
	}

	<-ctx.Done()
	fmt.Fprintln(formatter.Writer, "watch stopped")
	return nil
}

// watchCategory re-runs one category on its advisory interval until the
// context is cancelled.
func watchCategory(ctx context.Context, formatter *OutputFormatter, db *sink.SQLiteSink, category issue.Category, interval time.Duration, run func(context.Context) []issue.Issue) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		issues := run(ctx)
		for _, i := range issues {
			fmt.Fprintln(formatter.Writer, i)
		}
		formatter.VerboseLog("%s: %d issue(s)", category, len(issues))

		if db != nil && len(issues) > 0 {
			report := issue.Report{PassToken: issues[0].PassToken, Issues: issues, StartedAt: issues[0].DetectedAt}
			if err := db.Record(ctx, report); err != nil {
				formatter.VerboseLog("record failed: %v", err)
			}
		}
	}
}
