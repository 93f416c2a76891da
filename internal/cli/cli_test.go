package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanWorld = `
turn: 1
entities:
  - id: npc1
    kind: character
    status: active
    fields:
      name: Aria
`

const brokenWorld = `
turn: 1
entities:
  - id: npc1
    kind: character
    fields: {}
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_InvalidFormat(t *testing.T) {
	world := writeTempFile(t, "world.yaml", cleanWorld)
	_, _, err := execute(t, "--format", "xml", "check", world)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestCheck_CleanWorld(t *testing.T) {
	world := writeTempFile(t, "world.yaml", cleanWorld)

	out, _, err := execute(t, "check", world)
	require.NoError(t, err)
	assert.Contains(t, out, "0 error(s), 0 warning(s), 0 info(s)")
}

func TestCheck_ErrorsExitNonZero(t *testing.T) {
	world := writeTempFile(t, "world.yaml", brokenWorld)

	out, _, err := execute(t, "check", world)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[E201]")
	assert.Contains(t, out, "1 error(s)")
}

func TestCheck_JSONOutput(t *testing.T) {
	world := writeTempFile(t, "world.yaml", brokenWorld)

	out, _, err := execute(t, "--format", "json", "check", world)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	payload, err2 := json.Marshal(resp.Data)
	require.NoError(t, err2)
	var report CheckReport
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, 1, report.Errors)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "E201", report.Issues[0].Code)
	assert.NotEmpty(t, report.PassToken)
}

func TestCheck_SingleCategory(t *testing.T) {
	world := writeTempFile(t, "world.yaml", brokenWorld)

	// The only defect is an entity one; narrative alone is clean.
	out, _, err := execute(t, "check", world, "--category", "narrative")
	require.NoError(t, err)
	assert.Contains(t, out, "0 error(s)")

	_, _, err = execute(t, "check", world, "--category", "entity")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCheck_UnknownCategory(t *testing.T) {
	world := writeTempFile(t, "world.yaml", cleanWorld)

	_, _, err := execute(t, "check", world, "--category", "weather")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `unknown category "weather"`)
}

func TestCheck_MissingWorldFile(t *testing.T) {
	_, _, err := execute(t, "check", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_BadRulesDir(t *testing.T) {
	world := writeTempFile(t, "world.yaml", cleanWorld)

	_, _, err := execute(t, "check", world, "--rules", filepath.Join(t.TempDir(), "norules"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_CustomRules(t *testing.T) {
	world := writeTempFile(t, "world.yaml", cleanWorld)
	rulesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "rules.cue"), []byte(`
sentinel: {
	required_fields: {character: ["name", "location"]}
}
`), 0o644))

	// Under the stricter rules the same world is broken.
	out, _, err := execute(t, "check", world, "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "missing required field \"location\"")
}

func TestCheck_RecordsToDatabase(t *testing.T) {
	world := writeTempFile(t, "world.yaml", brokenWorld)
	dbPath := filepath.Join(t.TempDir(), "issues.db")

	_, _, err := execute(t, "check", world, "--db", dbPath)
	require.Error(t, err) // validation errors, but the pass is recorded

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 pass(es)")
	assert.Contains(t, out, "1e/0w/0i")
}

func TestHistory_PassIssues(t *testing.T) {
	world := writeTempFile(t, "world.yaml", brokenWorld)
	dbPath := filepath.Join(t.TempDir(), "issues.db")

	_, _, err := execute(t, "check", world, "--db", dbPath)
	require.Error(t, err)

	// Read the token back through the JSON listing.
	out, _, err := execute(t, "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	payload, _ := json.Marshal(resp.Data)
	var hist HistoryResult
	require.NoError(t, json.Unmarshal(payload, &hist))
	require.Len(t, hist.Passes, 1)

	out, _, err = execute(t, "history", "--db", dbPath, "--pass", hist.Passes[0].Token)
	require.NoError(t, err)
	assert.Contains(t, out, "[E201]")
	assert.Contains(t, out, "1 issue(s)")
}

func TestHistory_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
}

func TestRules_Valid(t *testing.T) {
	rulesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "rules.cue"), []byte(`
sentinel: {
	required_fields: {character: ["name"], item: ["name"]}
	valid_relation_types: ["ally", "enemy"]
}
`), 0o644))

	out, _, err := execute(t, "rules", rulesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "rules OK: 2 kind rule(s), 2 relation type(s)")
}

func TestRules_Invalid(t *testing.T) {
	rulesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "rules.cue"), []byte(`
sentinel: {
	contradictions: [{first: "died"}]
}
`), 0o644))

	out, _, err := execute(t, "rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E007")
}

func TestRules_JSONOutput(t *testing.T) {
	rulesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "rules.cue"), []byte(`
sentinel: {
	required_fields: {quest: ["name"]}
}
`), 0o644))

	out, _, err := execute(t, "--format", "json", "rules", rulesDir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	payload, _ := json.Marshal(resp.Data)
	var result RulesResult
	require.NoError(t, json.Unmarshal(payload, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"quest"}, result.Kinds)
}
