package validate

import (
	"fmt"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// Entities checks every entity in the snapshot against the configured
// field and status rules.
func Entities(snap world.Snapshot, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	seen := make(map[world.EntityID]bool, len(snap.Entities))
	for _, e := range snap.Entities {
		if seen[e.ID] {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryEntity,
				Code:     issue.CodeDuplicateID,
				Refs:     []world.EntityRef{e.Ref()},
				Message:  fmt.Sprintf("entity id %q occurs more than once in snapshot", e.ID),
			})
			continue
		}
		seen[e.ID] = true
		issues = append(issues, entity(e, cfg)...)
	}

	return issues
}

// EntityByID checks a single entity, for targeted post-mutation checks.
// An unknown id yields a dangling-reference error rather than a panic.
func EntityByID(snap world.Snapshot, id world.EntityID, cfg config.Config) []issue.Issue {
	e, ok := snap.Entity(id)
	if !ok {
		return []issue.Issue{{
			Severity: issue.Error,
			Category: issue.CategoryEntity,
			Code:     issue.CodeDanglingReference,
			Refs:     []world.EntityRef{{ID: id}},
			Message:  fmt.Sprintf("entity %q not found in snapshot", id),
		}}
	}
	return entity(e, cfg)
}

// entity applies the per-entity rules. Unknown kinds degrade to an Info
// finding so forward-compatible entity types never break a pass.
func entity(e world.Entity, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	if !e.Kind.Known() {
		issues = append(issues, issue.Issue{
			Severity: issue.Info,
			Category: issue.CategoryEntity,
			Code:     issue.CodeUnknownKind,
			Refs:     []world.EntityRef{e.Ref()},
			Message:  fmt.Sprintf("entity %q has unknown kind %q; field and status rules skipped", e.ID, e.Kind),
		})
		return issues
	}

	for _, field := range cfg.RequiredFields[e.Kind] {
		if _, ok := e.Field(field); !ok {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryEntity,
				Code:     issue.CodeMissingField,
				Refs:     []world.EntityRef{e.Ref()},
				Message:  fmt.Sprintf("entity %q missing required field %q", e.ID, field),
			})
		}
	}

	if e.Status != "" && !cfg.StatusValid(e.Kind, e.Status) {
		issues = append(issues, issue.Issue{
			Severity: issue.Warning,
			Category: issue.CategoryEntity,
			Code:     issue.CodeInvalidStatus,
			Refs:     []world.EntityRef{e.Ref()},
			Message:  fmt.Sprintf("entity %q has invalid status %q for kind %q", e.ID, e.Status, e.Kind),
		})
	}

	return issues
}
