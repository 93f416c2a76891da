package world

// EntityID uniquely identifies an entity within a snapshot.
type EntityID string

// EntityKind classifies an entity.
//
// The set of known kinds is closed for rule lookups (required fields, valid
// statuses), but the type itself is an open string so snapshots produced by
// newer world models degrade gracefully: an unknown kind is reportable, not
// fatal.
type EntityKind string

const (
	KindCharacter EntityKind = "character"
	KindLocation  EntityKind = "location"
	KindItem      EntityKind = "item"
	KindQuest     EntityKind = "quest"
)

// KnownKinds lists the entity kinds Sentinel has built-in rules for,
// in stable order.
var KnownKinds = []EntityKind{KindCharacter, KindLocation, KindItem, KindQuest}

// Known reports whether k is one of the built-in entity kinds.
func (k EntityKind) Known() bool {
	switch k {
	case KindCharacter, KindLocation, KindItem, KindQuest:
		return true
	}
	return false
}

// Placeable reports whether entities of kind k may appear in the
// topology's placement map. Only characters and items occupy locations.
func (k EntityKind) Placeable() bool {
	return k == KindCharacter || k == KindItem
}

// EntityRef is a reference to an entity by id and kind.
// The kind may be empty when the referent is unknown (e.g. a dangling edge).
type EntityRef struct {
	ID   EntityID   `json:"id" yaml:"id"`
	Kind EntityKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Ref returns a reference to the entity.
func (e Entity) Ref() EntityRef {
	return EntityRef{ID: e.ID, Kind: e.Kind}
}

// Entity is a uniquely identified game object.
//
// Fields is an open attribute map validated against the configured schema
// table rather than a closed struct; the world model owns the vocabulary,
// Sentinel only checks presence and emptiness of required keys.
type Entity struct {
	ID     EntityID       `json:"id" yaml:"id"`
	Kind   EntityKind     `json:"kind" yaml:"kind"`
	Status string         `json:"status,omitempty" yaml:"status,omitempty"`
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns the named field value and whether it is present and non-empty.
// Empty means nil, "", or a zero-length slice/map.
func (e Entity) Field(name string) (any, bool) {
	v, ok := e.Fields[name]
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return val, val != ""
	case []any:
		return val, len(val) > 0
	case map[string]any:
		return val, len(val) > 0
	}
	return v, true
}

// RelationType names a relationship edge type (e.g. "ally", "parent_of").
type RelationType string

// Relationship is a typed, optionally bidirectional edge between entities.
//
// A bidirectional relationship asserts that the inverse edge
// (To, From, inverse type) exists in the same snapshot; the relationship
// validator reports a missing inverse as an issue.
type Relationship struct {
	From          EntityID     `json:"from" yaml:"from"`
	To            EntityID     `json:"to" yaml:"to"`
	Type          RelationType `json:"type" yaml:"type"`
	Bidirectional bool         `json:"bidirectional,omitempty" yaml:"bidirectional,omitempty"`
}
