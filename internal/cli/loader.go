package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/world"
)

// loadRules builds the rule tables for a command run: the CUE rules
// directory when given, the built-in defaults otherwise.
func loadRules(rulesDir string) (config.Config, error) {
	if rulesDir == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadDir(rulesDir)
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			return config.Config{}, WrapExitError(ExitCommandError, fmt.Sprintf("loading rules from %s", rulesDir), loadErr)
		}
		return config.Config{}, WrapExitError(ExitCommandError, "loading rules", err)
	}
	return cfg, nil
}

// loadWorld reads the world snapshot file for a command run.
func loadWorld(path string) (world.Snapshot, error) {
	snap, err := world.LoadSnapshot(path)
	if err != nil {
		return world.Snapshot{}, WrapExitError(ExitCommandError, "loading world", err)
	}
	return snap, nil
}
