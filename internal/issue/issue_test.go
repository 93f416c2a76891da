package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sentinel/internal/world"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "info", Info.String())
}

func TestSeverity_ZeroValueIsError(t *testing.T) {
	var s Severity
	assert.Equal(t, Error, s)
}

func TestSort_SeverityThenCategory(t *testing.T) {
	issues := []Issue{
		{Severity: Info, Category: CategoryEntity, Code: "i1"},
		{Severity: Error, Category: CategoryNarrative, Code: "e2"},
		{Severity: Warning, Category: CategoryRelationship, Code: "w1"},
		{Severity: Error, Category: CategoryEntity, Code: "e1"},
	}

	Sort(issues)

	codes := []string{issues[0].Code, issues[1].Code, issues[2].Code, issues[3].Code}
	assert.Equal(t, []string{"e1", "e2", "w1", "i1"}, codes)
}

func TestSort_Stable(t *testing.T) {
	// Issues with identical keys keep their emission order.
	issues := []Issue{
		{Severity: Error, Category: CategoryEntity, Message: "first"},
		{Severity: Error, Category: CategoryEntity, Message: "second"},
		{Severity: Error, Category: CategoryEntity, Message: "third"},
	}

	Sort(issues)

	assert.Equal(t, "first", issues[0].Message)
	assert.Equal(t, "second", issues[1].Message)
	assert.Equal(t, "third", issues[2].Message)
}

func TestCount(t *testing.T) {
	issues := []Issue{
		{Severity: Error},
		{Severity: Error},
		{Severity: Warning},
		{Severity: Info},
	}

	errors, warnings, infos := Count(issues)
	assert.Equal(t, 2, errors)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 1, infos)
}

func TestIssue_String(t *testing.T) {
	i := Issue{
		Severity: Error,
		Category: CategoryEntity,
		Code:     CodeMissingField,
		Refs:     []world.EntityRef{{ID: "npc1", Kind: world.KindCharacter}},
		Message:  `entity "npc1" missing required field "location"`,
	}
	assert.Equal(t, `[E201] entity/error npc1: entity "npc1" missing required field "location"`, i.String())
}

func TestIssue_String_NoRefs(t *testing.T) {
	i := Issue{
		Severity: Warning,
		Category: CategoryMeta,
		Code:     CodeTimeout,
		Message:  "validation timed out",
	}
	assert.Equal(t, "[E902] meta/warning: validation timed out", i.String())
}

func TestReport_Errors(t *testing.T) {
	assert.False(t, Report{}.Errors())
	assert.False(t, Report{Issues: []Issue{{Severity: Warning}}}.Errors())
	assert.True(t, Report{Issues: []Issue{{Severity: Warning}, {Severity: Error}}}.Errors())
}

func TestSeverity_MarshalJSON(t *testing.T) {
	data, err := Warning.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(data))
}
