package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

func worldSnapshot() world.Snapshot {
	return world.Snapshot{
		Entities: []world.Entity{
			{ID: "npc1", Kind: world.KindCharacter, Fields: map[string]any{"name": "Aria"}},
			{ID: "item1", Kind: world.KindItem, Fields: map[string]any{"name": "Sword"}},
			{ID: "q1", Kind: world.KindQuest, Fields: map[string]any{"name": "Rescue"}},
		},
		Topology: world.Topology{
			Locations: map[world.LocationID]world.Location{
				"village": {ID: "village", Connections: []world.LocationID{"forest"}},
				"forest":  {ID: "forest", Connections: []world.LocationID{"village"}},
			},
			Placements: map[world.EntityID]world.LocationID{
				"npc1":  "village",
				"item1": "forest",
			},
			Start: "village",
		},
	}
}

func TestWorldState_Clean(t *testing.T) {
	assert.Empty(t, WorldState(worldSnapshot(), config.Default()))
}

func TestWorldState_UnknownConnection(t *testing.T) {
	snap := worldSnapshot()
	loc := snap.Topology.Locations["forest"]
	loc.Connections = append(loc.Connections, "swamp")
	snap.Topology.Locations["forest"] = loc

	issues := WorldState(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Error, issues[0].Severity)
	assert.Equal(t, issue.CodeUnknownConnection, issues[0].Code)
	assert.Contains(t, issues[0].Message, `connects to unknown location "swamp"`)
}

func TestWorldState_PlacementInNonexistentLocation(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Placements["item1"] = "loc99"

	issues := WorldState(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Error, issues[0].Severity)
	assert.Equal(t, issue.CodeUnknownPlacement, issues[0].Code)
	assert.Equal(t, world.EntityID("item1"), issues[0].Refs[0].ID)
}

func TestWorldState_PlacementOfNonexistentEntity(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Placements["ghost"] = "village"

	issues := WorldState(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Error, issues[0].Severity)
	assert.Equal(t, issue.CodePlacementNotEntity, issues[0].Code)
}

func TestWorldState_PlacedQuestIsAdvisory(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Placements["q1"] = "village"

	issues := WorldState(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Info, issues[0].Severity)
	assert.Equal(t, issue.CodePlacementNotPlaceable, issues[0].Code)
}

func TestWorldState_UnreachableLocation(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Locations["island"] = world.Location{ID: "island"}

	issues := WorldState(snap, config.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, issue.Warning, issues[0].Severity)
	assert.Equal(t, issue.CodeUnreachableLocation, issues[0].Code)
	assert.Contains(t, issues[0].Message, `"island" is unreachable from start location "village"`)
}

func TestWorldState_ConfigStartOverridesSnapshot(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Locations["island"] = world.Location{ID: "island"}

	cfg := config.Default()
	cfg.StartLocation = "island"

	issues := WorldState(snap, cfg)
	// From island, village and forest are the unreachable ones.
	require.Len(t, issues, 2)
	assert.Equal(t, issue.CodeUnreachableLocation, issues[0].Code)
	assert.Equal(t, issue.CodeUnreachableLocation, issues[1].Code)
}

func TestWorldState_NoStartSkipsReachability(t *testing.T) {
	snap := worldSnapshot()
	snap.Topology.Start = ""
	snap.Topology.Locations["island"] = world.Location{ID: "island"}

	assert.Empty(t, WorldState(snap, config.Default()))
}
