package validate

import (
	"fmt"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// edgeKey identifies a relationship edge for inverse and duplicate lookups.
type edgeKey struct {
	from world.EntityID
	to   world.EntityID
	typ  world.RelationType
}

// Relationships checks pairwise and graph-wide relationship consistency:
// type validity, dangling endpoints, bidirectional symmetry, duplicates.
//
// Issues are emitted in the relationship list's original order.
func Relationships(snap world.Snapshot, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	index := snap.EntityIndex()

	edges := make(map[edgeKey]bool, len(snap.Relationships))
	for _, r := range snap.Relationships {
		edges[edgeKey{r.From, r.To, r.Type}] = true
	}

	dupes := make(map[edgeKey]int, len(snap.Relationships))
	for _, r := range snap.Relationships {
		key := edgeKey{r.From, r.To, r.Type}
		dupes[key]++

		if len(cfg.ValidRelationTypes) > 0 && !cfg.ValidRelationTypes[r.Type] {
			issues = append(issues, issue.Issue{
				Severity: issue.Warning,
				Category: issue.CategoryRelationship,
				Code:     issue.CodeUnknownRelationType,
				Refs:     refsFor(index, r.From, r.To),
				Message:  fmt.Sprintf("relationship %s->%s has unknown type %q", r.From, r.To, r.Type),
			})
		}

		dangling := false
		for _, end := range []world.EntityID{r.From, r.To} {
			if _, ok := index[end]; !ok {
				dangling = true
				issues = append(issues, issue.Issue{
					Severity: issue.Error,
					Category: issue.CategoryRelationship,
					Code:     issue.CodeDanglingReference,
					Refs:     []world.EntityRef{{ID: end}},
					Message:  fmt.Sprintf("relationship %s->%s (%s) references nonexistent entity %q", r.From, r.To, r.Type, end),
				})
			}
		}

		// A dangling edge is already broken at the root; reporting a
		// missing inverse on top of it would double-count one defect.
		if r.Bidirectional && !dangling {
			inv := edgeKey{r.To, r.From, cfg.InverseOf(r.Type)}
			if !edges[inv] {
				issues = append(issues, issue.Issue{
					Severity: issue.Error,
					Category: issue.CategoryRelationship,
					Code:     issue.CodeMissingInverse,
					Refs:     refsFor(index, r.From, r.To),
					Message:  fmt.Sprintf("bidirectional relationship %s->%s (%s) missing inverse %s->%s (%s)", r.From, r.To, r.Type, r.To, r.From, inv.typ),
				})
			}
		}

		// Redundancy, not corruption: flag every occurrence after the first.
		if dupes[key] > 1 {
			issues = append(issues, issue.Issue{
				Severity: issue.Info,
				Category: issue.CategoryRelationship,
				Code:     issue.CodeDuplicateRelationship,
				Refs:     refsFor(index, r.From, r.To),
				Message:  fmt.Sprintf("duplicate relationship %s->%s (%s)", r.From, r.To, r.Type),
			})
		}
	}

	return issues
}

// refsFor builds entity refs for the endpoints, carrying kinds when known.
func refsFor(index map[world.EntityID]world.Entity, ids ...world.EntityID) []world.EntityRef {
	refs := make([]world.EntityRef, 0, len(ids))
	for _, id := range ids {
		if e, ok := index[id]; ok {
			refs = append(refs, e.Ref())
			continue
		}
		refs = append(refs, world.EntityRef{ID: id})
	}
	return refs
}
