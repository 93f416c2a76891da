package world

// LocationID identifies a location node in the world topology.
type LocationID string

// Location is a node in the location graph.
// Connections are directed edges; mutual passages appear as two edges.
type Location struct {
	ID          LocationID   `json:"id" yaml:"id"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Connections []LocationID `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Topology is the location graph plus the entity placement map.
type Topology struct {
	// Locations holds every location node keyed by id.
	Locations map[LocationID]Location `json:"locations,omitempty" yaml:"locations,omitempty"`

	// Placements maps a character or item entity to the location it occupies.
	Placements map[EntityID]LocationID `json:"placements,omitempty" yaml:"placements,omitempty"`

	// Start is the designated entry location for reachability analysis.
	// Empty disables the reachability check.
	Start LocationID `json:"start,omitempty" yaml:"start,omitempty"`
}

// HasLocation reports whether id names a location node in the topology.
func (t Topology) HasLocation(id LocationID) bool {
	_, ok := t.Locations[id]
	return ok
}

// Reachable returns the set of location ids reachable from start by
// following connection edges, including start itself. Unknown endpoints
// are skipped, not followed.
func (t Topology) Reachable(start LocationID) map[LocationID]bool {
	seen := map[LocationID]bool{}
	if !t.HasLocation(start) {
		return seen
	}
	queue := []LocationID{start}
	seen[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range t.Locations[cur].Connections {
			if seen[next] || !t.HasLocation(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}
