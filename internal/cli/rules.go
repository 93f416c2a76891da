package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sentinel/internal/config"
)

// RulesResult holds the rules command's JSON payload.
type RulesResult struct {
	Valid         bool     `json:"valid"`
	Kinds         []string `json:"kinds,omitempty"`
	RelationTypes int      `json:"relation_types"`
	Errors        []string `json:"errors,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules <rules-dir>",
		Short: "Validate CUE rule tables without running a pass",
		Long: `Load and validate CUE rule tables.

Performs CUE evaluation, document decoding, and rule-table consistency
checks without needing a world snapshot. Faster than check for rules
development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runRules(opts *RootOptions, rulesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.LoadDir(rulesDir)
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitFailure, "rules are invalid")
		}
		return WrapExitError(ExitCommandError, "loading rules", err)
	}

	kinds := make([]string, 0, len(cfg.RequiredFields))
	for kind := range cfg.RequiredFields {
		kinds = append(kinds, string(kind))
	}
	slices.Sort(kinds)

	if formatter.Format == "json" {
		return formatter.Success(RulesResult{
			Valid:         true,
			Kinds:         kinds,
			RelationTypes: len(cfg.ValidRelationTypes),
		})
	}
	fmt.Fprintf(formatter.Writer, "rules OK: %d kind rule(s), %d relation type(s)\n",
		len(kinds), len(cfg.ValidRelationTypes))
	return nil
}
