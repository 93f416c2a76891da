package world

// QuestID identifies a quest record.
type QuestID string

// QuestStatus is a state in the quest progression machine.
type QuestStatus string

const (
	QuestAvailable QuestStatus = "available"
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

// ValidQuestStatus reports whether s is a recognized quest status.
func ValidQuestStatus(s QuestStatus) bool {
	switch s {
	case QuestAvailable, QuestActive, QuestCompleted, QuestFailed:
		return true
	}
	return false
}

// CanTransition reports whether a quest may move from one status to another
// between consecutive snapshots. Remaining in the same status is always legal.
//
// Legal moves: available→active, active→completed, active→failed.
func CanTransition(from, to QuestStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case QuestAvailable:
		return to == QuestActive
	case QuestActive:
		return to == QuestCompleted || to == QuestFailed
	}
	return false
}

// QuestRecord is the progression state of one quest.
type QuestRecord struct {
	ID     QuestID     `json:"id" yaml:"id"`
	Name   string      `json:"name,omitempty" yaml:"name,omitempty"`
	Status QuestStatus `json:"status" yaml:"status"`
}

// FactID identifies a fact a character may know.
type FactID string

// Event is one entry in the narrative event log.
//
// An event establishes a fact (optional) and asserts a predicate about its
// subject at a turn. Predicates are world-model vocabulary ("died",
// "speaks", ...); Sentinel matches them against configured contradiction
// pairs, it does not interpret them.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	Turn      int64     `json:"turn" yaml:"turn"`
	Subject   EntityID  `json:"subject,omitempty" yaml:"subject,omitempty"`
	Predicate string    `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Fact      FactID    `json:"fact,omitempty" yaml:"fact,omitempty"`
}

// Narrative holds quest progression, per-character knowledge, and the
// event log used for continuity checks.
type Narrative struct {
	Quests    []QuestRecord         `json:"quests,omitempty" yaml:"quests,omitempty"`
	Knowledge map[EntityID][]FactID `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Events    []Event               `json:"events,omitempty" yaml:"events,omitempty"`
}
