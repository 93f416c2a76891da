package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sentinel/internal/world"
)

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: sample
description: parses a full scenario document
pass_token: tok-1
rules: |
  sentinel: {}
world:
  turn: 2
  entities:
    - id: npc1
      kind: character
      fields:
        name: Aria
expect:
  - type: issue_count
    count: 0
`)

	sc, err := ParseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, "sample", sc.Name)
	assert.Equal(t, "tok-1", sc.PassToken)
	assert.Equal(t, int64(2), sc.World.Turn)
	require.Len(t, sc.World.Entities, 1)
	assert.Equal(t, world.EntityID("npc1"), sc.World.Entities[0].ID)
	require.Len(t, sc.Expect, 1)
	assert.Equal(t, AssertIssueCount, sc.Expect[0].Type)
}

func TestParseScenario_NameRequired(t *testing.T) {
	_, err := ParseScenario([]byte("description: nameless\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestParseScenario_UnknownKey(t *testing.T) {
	_, err := ParseScenario([]byte("name: x\nbogus: true\n"))
	require.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\n"), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", sc.Name)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
