package config

import (
	"time"

	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// ContradictionRule is one contradictory-predicate pair for the narrative
// continuity check. Two events asserting First then Second about the same
// subject contradict each other unless a Resolver event for that subject
// appears between them.
//
// This is deliberately pattern matching over a small configured set, not
// semantic reasoning; pairs outside the table are never flagged.
type ContradictionRule struct {
	First    string `json:"first" yaml:"first"`
	Second   string `json:"second" yaml:"second"`
	Resolver string `json:"resolver,omitempty" yaml:"resolver,omitempty"`
}

// Config is the full rule table set for a Sentinel instance.
//
// Zero value is unusable; start from Default() or LoadDir(). All maps are
// treated as immutable after construction.
type Config struct {
	// Enabled is the master switch. When false every Sentinel entry point
	// returns an empty result without touching the snapshot.
	Enabled bool

	// AutoFixEnabled gates whether a caller-supplied auto-fix handler runs.
	AutoFixEnabled bool

	// Intervals is an advisory cadence per category, consumed by external
	// schedulers (e.g. the watch command). Sentinel itself never spawns
	// timers.
	Intervals map[issue.Category]time.Duration

	// RequiredFields lists field names every entity of a kind must carry.
	RequiredFields map[world.EntityKind][]string

	// ValidStatuses enumerates the legal status strings per kind. Kinds
	// absent from the map have no status rule.
	ValidStatuses map[world.EntityKind]map[string]bool

	// ValidRelationTypes enumerates the recognized relationship types.
	ValidRelationTypes map[world.RelationType]bool

	// RelationInverses maps a relation type to its inverse for the
	// bidirectional symmetry check. Types absent from the map are their
	// own inverse (ally ↔ ally).
	RelationInverses map[world.RelationType]world.RelationType

	// StartLocation designates the topology entry point for the
	// reachability check. Empty disables the check.
	StartLocation world.LocationID

	// Contradictions is the predicate-pair table for the narrative
	// contradiction check.
	Contradictions []ContradictionRule
}

// InverseOf returns the inverse relation type for the symmetry check.
func (c Config) InverseOf(t world.RelationType) world.RelationType {
	if inv, ok := c.RelationInverses[t]; ok {
		return inv
	}
	return t
}

// StatusValid reports whether status is legal for the kind. Kinds with no
// configured status set accept anything.
func (c Config) StatusValid(kind world.EntityKind, status string) bool {
	set, ok := c.ValidStatuses[kind]
	if !ok {
		return true
	}
	return set[status]
}

// Default returns the built-in rule tables.
//
// The defaults describe a conventional fantasy-sim world model; hosts with
// richer vocabularies load their own rules from CUE files instead.
func Default() Config {
	return Config{
		Enabled: true,
		Intervals: map[issue.Category]time.Duration{
			issue.CategoryEntity:       30 * time.Second,
			issue.CategoryRelationship: time.Minute,
			issue.CategoryWorldState:   time.Minute,
			issue.CategoryNarrative:    2 * time.Minute,
		},
		RequiredFields: map[world.EntityKind][]string{
			world.KindCharacter: {"name"},
			world.KindLocation:  {"name"},
			world.KindItem:      {"name"},
			world.KindQuest:     {"name"},
		},
		ValidStatuses: map[world.EntityKind]map[string]bool{
			world.KindCharacter: {"active": true, "inactive": true, "dead": true},
			world.KindQuest: {
				string(world.QuestAvailable): true,
				string(world.QuestActive):    true,
				string(world.QuestCompleted): true,
				string(world.QuestFailed):    true,
			},
		},
		ValidRelationTypes: map[world.RelationType]bool{
			"ally": true, "enemy": true, "knows": true,
			"parent_of": true, "child_of": true,
			"owns": true, "owned_by": true,
			"member_of": true, "has_member": true,
		},
		RelationInverses: map[world.RelationType]world.RelationType{
			"parent_of": "child_of",
			"child_of":  "parent_of",
			"owns":      "owned_by",
			"owned_by":  "owns",
			"member_of": "has_member",
			"has_member": "member_of",
		},
		Contradictions: []ContradictionRule{
			{First: "died", Second: "speaks", Resolver: "resurrected"},
			{First: "died", Second: "moved", Resolver: "resurrected"},
			{First: "destroyed", Second: "used", Resolver: "restored"},
		},
	}
}
