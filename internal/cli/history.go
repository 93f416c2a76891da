package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/sink"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
	Pass   string // show the issues of one pass
}

// HistoryResult holds the history command's JSON payload.
type HistoryResult struct {
	Passes []sink.PassSummary `json:"passes,omitempty"`
	Issues []issue.Issue      `json:"issues,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validation passes",
		Long: `Read pass history from a SQLite issue database.

Without --pass, lists recent passes newest first. With --pass, prints
the issues recorded for that pass.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite issue database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum passes to list")
	cmd.Flags().StringVar(&opts.Pass, "pass", "", "show issues for one pass token")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := sink.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening issue database", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Pass != "" {
		issues, err := db.PassIssues(ctx, opts.Pass)
		if err != nil {
			return WrapExitError(ExitCommandError, "reading issues", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(HistoryResult{Issues: issues})
		}
		for _, i := range issues {
			fmt.Fprintln(formatter.Writer, i)
		}
		fmt.Fprintf(formatter.Writer, "%d issue(s) in pass %s\n", len(issues), opts.Pass)
		return nil
	}

	passes, err := db.Passes(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading passes", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Passes: passes})
	}
	for _, p := range passes {
		fmt.Fprintf(formatter.Writer, "%s  turn=%d  %de/%dw/%di  %s\n",
			p.Token, p.Turn, p.Errors, p.Warnings, p.Infos, p.StartedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(formatter.Writer, "%d pass(es)\n", len(passes))
	return nil
}
