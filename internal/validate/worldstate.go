package validate

import (
	"fmt"
	"slices"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// WorldState checks the location graph and the entity placement map.
//
// Connection and placement defects are Errors; an unreachable location is
// only a Warning because design-time unused content is plausible, and a
// misplaced non-placeable entity kind is advisory.
func WorldState(snap world.Snapshot, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	topo := snap.Topology
	index := snap.EntityIndex()

	for _, locID := range sortedLocationIDs(topo.Locations) {
		loc := topo.Locations[locID]
		for _, conn := range loc.Connections {
			if !topo.HasLocation(conn) {
				issues = append(issues, issue.Issue{
					Severity: issue.Error,
					Category: issue.CategoryWorldState,
					Code:     issue.CodeUnknownConnection,
					Refs:     []world.EntityRef{{ID: world.EntityID(locID), Kind: world.KindLocation}},
					Message:  fmt.Sprintf("location %q connects to unknown location %q", locID, conn),
				})
			}
		}
	}

	for _, entID := range sortedEntityIDs(topo.Placements) {
		locID := topo.Placements[entID]
		if !topo.HasLocation(locID) {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryWorldState,
				Code:     issue.CodeUnknownPlacement,
				Refs:     []world.EntityRef{{ID: entID}},
				Message:  fmt.Sprintf("entity %q placed in nonexistent location %q", entID, locID),
			})
		}

		e, ok := index[entID]
		if !ok {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryWorldState,
				Code:     issue.CodePlacementNotEntity,
				Refs:     []world.EntityRef{{ID: entID}},
				Message:  fmt.Sprintf("placement references nonexistent entity %q", entID),
			})
			continue
		}
		if !e.Kind.Placeable() {
			issues = append(issues, issue.Issue{
				Severity: issue.Info,
				Category: issue.CategoryWorldState,
				Code:     issue.CodePlacementNotPlaceable,
				Refs:     []world.EntityRef{e.Ref()},
				Message:  fmt.Sprintf("entity %q of kind %q is placed but only characters and items occupy locations", entID, e.Kind),
			})
		}
	}

	start := cfg.StartLocation
	if start == "" {
		start = topo.Start
	}
	if start != "" && topo.HasLocation(start) {
		reachable := topo.Reachable(start)
		for _, locID := range sortedLocationIDs(topo.Locations) {
			if !reachable[locID] {
				issues = append(issues, issue.Issue{
					Severity: issue.Warning,
					Category: issue.CategoryWorldState,
					Code:     issue.CodeUnreachableLocation,
					Refs:     []world.EntityRef{{ID: world.EntityID(locID), Kind: world.KindLocation}},
					Message:  fmt.Sprintf("location %q is unreachable from start location %q", locID, start),
				})
			}
		}
	}

	return issues
}

// Topology maps iterate in random order; sorting keeps pass output
// deterministic.

func sortedLocationIDs(m map[world.LocationID]world.Location) []world.LocationID {
	ids := make([]world.LocationID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedEntityIDs(m map[world.EntityID]world.LocationID) []world.EntityID {
	ids := make([]world.EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
