package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

func pairSnapshot(rels ...world.Relationship) world.Snapshot {
	return world.Snapshot{
		Entities: []world.Entity{
			{ID: "a", Kind: world.KindCharacter, Fields: map[string]any{"name": "A"}},
			{ID: "b", Kind: world.KindCharacter, Fields: map[string]any{"name": "B"}},
		},
		Relationships: rels,
	}
}

func TestRelationships_Clean(t *testing.T) {
	snap := pairSnapshot(
		world.Relationship{From: "a", To: "b", Type: "ally", Bidirectional: true},
		world.Relationship{From: "b", To: "a", Type: "ally", Bidirectional: true},
	)

	assert.Empty(t, Relationships(snap, config.Default()))
}

func TestRelationships_UnknownType(t *testing.T) {
	snap := pairSnapshot(world.Relationship{From: "a", To: "b", Type: "nemesis"})

	issues := Relationships(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Warning, issues[0].Severity)
	assert.Equal(t, issue.CodeUnknownRelationType, issues[0].Code)
}

func TestRelationships_NoTypeTableAcceptsAnything(t *testing.T) {
	cfg := config.Default()
	cfg.ValidRelationTypes = nil
	snap := pairSnapshot(world.Relationship{From: "a", To: "b", Type: "nemesis"})

	assert.Empty(t, Relationships(snap, cfg))
}

func TestRelationships_DanglingEndpoint(t *testing.T) {
	snap := pairSnapshot(world.Relationship{From: "a", To: "ghost", Type: "ally"})

	issues := Relationships(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Error, issues[0].Severity)
	assert.Equal(t, issue.CodeDanglingReference, issues[0].Code)
	assert.Equal(t, world.EntityID("ghost"), issues[0].Refs[0].ID)
}

func TestRelationships_MissingInverse(t *testing.T) {
	snap := pairSnapshot(world.Relationship{From: "a", To: "b", Type: "ally", Bidirectional: true})

	issues := Relationships(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Error, issues[0].Severity)
	assert.Equal(t, issue.CodeMissingInverse, issues[0].Code)
	assert.Contains(t, issues[0].Message, "missing inverse b->a (ally)")
}

func TestRelationships_InverseUsesConfiguredType(t *testing.T) {
	snap := pairSnapshot(
		world.Relationship{From: "a", To: "b", Type: "owns", Bidirectional: true},
		world.Relationship{From: "b", To: "a", Type: "owned_by", Bidirectional: true},
	)

	assert.Empty(t, Relationships(snap, config.Default()))
}

func TestRelationships_DanglingSuppressesInverseCheck(t *testing.T) {
	// One root cause, one issue: a bidirectional edge to a missing entity
	// reports only the dangling reference.
	snap := pairSnapshot(world.Relationship{From: "a", To: "ghost", Type: "ally", Bidirectional: true})

	issues := Relationships(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.CodeDanglingReference, issues[0].Code)
}

func TestRelationships_Duplicates(t *testing.T) {
	snap := pairSnapshot(
		world.Relationship{From: "a", To: "b", Type: "knows"},
		world.Relationship{From: "a", To: "b", Type: "knows"},
		world.Relationship{From: "a", To: "b", Type: "knows"},
	)

	issues := Relationships(snap, config.Default())
	// Occurrences after the first are flagged.
	require.Len(t, issues, 2)
	for _, i := range issues {
		assert.Equal(t, issue.Info, i.Severity)
		assert.Equal(t, issue.CodeDuplicateRelationship, i.Code)
	}
}

func TestRelationships_DifferentTypeNotDuplicate(t *testing.T) {
	snap := pairSnapshot(
		world.Relationship{From: "a", To: "b", Type: "knows"},
		world.Relationship{From: "a", To: "b", Type: "ally"},
	)

	assert.Empty(t, Relationships(snap, config.Default()))
}
