package validate

import (
	"fmt"
	"slices"

	"github.com/roach88/sentinel/internal/config"
	"github.com/roach88/sentinel/internal/issue"
	"github.com/roach88/sentinel/internal/world"
)

// Narrative checks quest-state transitions, character knowledge continuity,
// and event-log contradictions.
//
// Transition checks only run when the snapshot carries prior-turn quest
// statuses; on a first pass with no prior record, only intra-snapshot
// structural checks apply.
func Narrative(snap world.Snapshot, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	issues = append(issues, quests(snap)...)
	issues = append(issues, knowledge(snap)...)
	issues = append(issues, contradictions(snap, cfg)...)

	return issues
}

func quests(snap world.Snapshot) []issue.Issue {
	var issues []issue.Issue

	seen := make(map[world.QuestID]bool, len(snap.Narrative.Quests))
	for _, q := range snap.Narrative.Quests {
		ref := []world.EntityRef{{ID: world.EntityID(q.ID), Kind: world.KindQuest}}

		if seen[q.ID] {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryNarrative,
				Code:     issue.CodeDuplicateQuest,
				Refs:     ref,
				Message:  fmt.Sprintf("quest id %q occurs more than once in snapshot", q.ID),
			})
			continue
		}
		seen[q.ID] = true

		if !world.ValidQuestStatus(q.Status) {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryNarrative,
				Code:     issue.CodeUnknownQuestStatus,
				Refs:     ref,
				Message:  fmt.Sprintf("quest %q has unknown status %q", q.ID, q.Status),
			})
			continue
		}

		prior, ok := snap.PriorQuests[q.ID]
		if !ok {
			continue
		}
		if !world.CanTransition(prior, q.Status) {
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryNarrative,
				Code:     issue.CodeIllegalQuestTransition,
				Refs:     ref,
				Message:  fmt.Sprintf("quest %q made illegal transition %s -> %s", q.ID, prior, q.Status),
			})
		}
	}

	return issues
}

// knowledge verifies no character knows a fact before any event
// establishes it: every known fact needs an originating event at or
// before the snapshot's turn.
func knowledge(snap world.Snapshot) []issue.Issue {
	var issues []issue.Issue

	established := make(map[world.FactID]bool)
	for _, ev := range snap.Narrative.Events {
		if ev.Fact != "" && ev.Turn <= snap.Turn {
			established[ev.Fact] = true
		}
	}

	for _, charID := range sortedCharacterIDs(snap.Narrative.Knowledge) {
		for _, fact := range snap.Narrative.Knowledge[charID] {
			if established[fact] {
				continue
			}
			issues = append(issues, issue.Issue{
				Severity: issue.Error,
				Category: issue.CategoryNarrative,
				Code:     issue.CodeForeknowledge,
				Refs:     []world.EntityRef{{ID: charID, Kind: world.KindCharacter}},
				Message:  fmt.Sprintf("character %q knows fact %q with no originating event at or before turn %d", charID, fact, snap.Turn),
			})
		}
	}

	return issues
}

// contradictions pattern-matches the event log against the configured
// contradictory-predicate pairs. Best effort over a small table, not
// semantic reasoning: a pair (first, second) about the same subject
// contradicts unless the rule's resolver event occurs between them.
func contradictions(snap world.Snapshot, cfg config.Config) []issue.Issue {
	var issues []issue.Issue

	events := snap.Narrative.Events
	for _, rule := range cfg.Contradictions {
		for i, first := range events {
			if first.Predicate != rule.First || first.Subject == "" {
				continue
			}
			for j := i + 1; j < len(events); j++ {
				second := events[j]
				if second.Subject != first.Subject || second.Predicate != rule.Second {
					continue
				}
				if second.Turn < first.Turn {
					continue
				}
				if resolved(events, i, j, rule.Resolver, first.Subject) {
					continue
				}
				issues = append(issues, issue.Issue{
					Severity: issue.Warning,
					Category: issue.CategoryNarrative,
					Code:     issue.CodeNarrativeContradiction,
					Refs:     []world.EntityRef{{ID: first.Subject}},
					Message:  fmt.Sprintf("events %q and %q contradict: %q at turn %d then %q at turn %d for %q", first.ID, second.ID, rule.First, first.Turn, rule.Second, second.Turn, first.Subject),
				})
			}
		}
	}

	return issues
}

// resolved reports whether a resolver event for the subject sits between
// event indexes i and j in the log.
func resolved(events []world.Event, i, j int, resolver string, subject world.EntityID) bool {
	if resolver == "" {
		return false
	}
	for k := i + 1; k < j; k++ {
		if events[k].Subject == subject && events[k].Predicate == resolver {
			return true
		}
	}
	return false
}

func sortedCharacterIDs(m map[world.EntityID][]world.FactID) []world.EntityID {
	ids := make([]world.EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
