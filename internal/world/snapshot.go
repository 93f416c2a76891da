package world

// Snapshot is a point-in-time, read-only view of the world.
//
// Validators treat a snapshot as immutable for the duration of a pass.
// Sentinel never holds references into the provider's live state; the
// provider hands over a copy (or an equivalently frozen view).
type Snapshot struct {
	// Turn is the logical turn counter at which the snapshot was taken.
	Turn int64 `json:"turn" yaml:"turn"`

	Entities      []Entity       `json:"entities,omitempty" yaml:"entities,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Topology      Topology       `json:"topology,omitempty" yaml:"topology,omitempty"`
	Narrative     Narrative      `json:"narrative,omitempty" yaml:"narrative,omitempty"`

	// PriorQuests carries the previous snapshot's quest statuses when the
	// caller provides turn-over-turn snapshots. Nil means no prior record
	// is available and transition checks are skipped for this pass.
	PriorQuests map[QuestID]QuestStatus `json:"prior_quests,omitempty" yaml:"prior_quests,omitempty"`
}

// Provider exposes a read-only snapshot of the world model.
//
// Implemented by the host simulation (production) and by fixtures (tests,
// conformance harness).
type Provider interface {
	Snapshot() Snapshot
}

// SnapshotFunc adapts a function to the Provider interface.
type SnapshotFunc func() Snapshot

// Snapshot implements Provider.
func (f SnapshotFunc) Snapshot() Snapshot { return f() }

// EntityIndex returns an id → entity lookup for the snapshot.
// Later duplicates do not displace earlier entries, so validators see the
// first occurrence and can still report the duplicate id.
func (s Snapshot) EntityIndex() map[EntityID]Entity {
	idx := make(map[EntityID]Entity, len(s.Entities))
	for _, e := range s.Entities {
		if _, ok := idx[e.ID]; ok {
			continue
		}
		idx[e.ID] = e
	}
	return idx
}

// Entity returns the entity with the given id, if present.
func (s Snapshot) Entity(id EntityID) (Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}
