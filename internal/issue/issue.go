package issue

import (
	"fmt"
	"sort"
	"time"

	"github.com/roach88/sentinel/internal/world"
)

// Severity classifies how broken the reported state is.
//
// Error means the state is logically broken, Warning means suspicious but
// plausibly intentional, Info is advisory only. The zero value is Error so
// an unset severity fails loud rather than hiding as Info.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalJSON serializes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Category names the validator (or meta concern) that produced an issue.
type Category string

const (
	CategoryEntity       Category = "entity"
	CategoryRelationship Category = "relationship"
	CategoryWorldState   Category = "world_state"
	CategoryNarrative    Category = "narrative"

	// CategoryMeta covers findings about the validation pass itself
	// (timeouts, validator internal failures).
	CategoryMeta Category = "meta"

	// CategoryAutoFix covers failures of caller-supplied auto-fix handlers.
	CategoryAutoFix Category = "auto-fix"
)

// Categories lists the four validator categories in their canonical order.
// Meta and auto-fix findings are appended after these.
var Categories = []Category{
	CategoryEntity,
	CategoryRelationship,
	CategoryWorldState,
	CategoryNarrative,
}

// rank orders categories for stable report output.
func (c Category) rank() int {
	switch c {
	case CategoryEntity:
		return 0
	case CategoryRelationship:
		return 1
	case CategoryWorldState:
		return 2
	case CategoryNarrative:
		return 3
	case CategoryMeta:
		return 4
	case CategoryAutoFix:
		return 5
	}
	return 6
}

// Issue codes. See the package comment for the range scheme.
const (
	// Entity findings (E2xx)
	CodeMissingField  = "E201" // required field absent or empty
	CodeInvalidStatus = "E202" // status not in configured set
	CodeUnknownKind   = "E203" // entity kind has no rule table
	CodeDuplicateID   = "E204" // entity id occurs more than once

	// Relationship findings (E3xx)
	CodeUnknownRelationType   = "E301" // relation type not configured
	CodeDanglingReference     = "E302" // endpoint id not in snapshot
	CodeMissingInverse        = "E303" // bidirectional edge without inverse
	CodeDuplicateRelationship = "E304" // identical edge repeated

	// World-state findings (E4xx)
	CodeUnknownConnection     = "E401" // connection endpoint not a location
	CodeUnknownPlacement      = "E402" // placement target not a location
	CodePlacementNotEntity    = "E403" // placed id not in snapshot
	CodePlacementNotPlaceable = "E404" // placed entity is not character/item
	CodeUnreachableLocation   = "E405" // location unreachable from start

	// Narrative findings (E5xx)
	CodeIllegalQuestTransition = "E501" // quest status moved illegally
	CodeUnknownQuestStatus     = "E502" // status outside the state machine
	CodeDuplicateQuest         = "E503" // quest id occurs more than once
	CodeForeknowledge          = "E504" // known fact with no originating event
	CodeNarrativeContradiction = "E505" // contradictory predicate pair matched

	// Meta and auto-fix findings (E9xx)
	CodeValidatorFailure = "E901" // validator panicked; category blinded
	CodeTimeout          = "E902" // pass deadline expired
	CodeAutoFixFailure   = "E903" // auto-fix handler returned an error
)

// Issue is a single structured finding.
//
// Immutable once created, except for the Resolved annotation which the
// coordinator sets when a caller-supplied auto-fix succeeds. Fixed issues
// stay in the report so the pass output remains a complete audit trail.
type Issue struct {
	Severity Severity          `json:"severity"`
	Category Category          `json:"category"`
	Code     string            `json:"code"`
	Refs     []world.EntityRef `json:"refs,omitempty"`
	Message  string            `json:"message"`

	// DetectedAt is the wall-clock time the coordinator stamped the issue.
	// Excluded from canonical serialization so golden reports stay stable.
	DetectedAt time.Time `json:"detected_at,omitempty"`

	// PassToken correlates every issue of one validation pass.
	PassToken string `json:"pass_token,omitempty"`

	// Resolved marks issues a caller-supplied auto-fix handler repaired.
	Resolved bool `json:"resolved,omitempty"`
}

// String renders the issue in the one-line diagnostic form used by logs
// and the text CLI output.
func (i Issue) String() string {
	refs := ""
	for n, r := range i.Refs {
		if n > 0 {
			refs += ","
		}
		refs += string(r.ID)
	}
	if refs != "" {
		return fmt.Sprintf("[%s] %s/%s %s: %s", i.Code, i.Category, i.Severity, refs, i.Message)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", i.Code, i.Category, i.Severity, i.Message)
}

// Sort orders issues by severity, then category, preserving the original
// emission order within equal keys. Validators emit deterministically, so
// the stable sort makes whole reports reproducible.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		if issues[a].Severity != issues[b].Severity {
			return issues[a].Severity < issues[b].Severity
		}
		return issues[a].Category.rank() < issues[b].Category.rank()
	})
}

// Count tallies issues by severity.
func Count(issues []Issue) (errors, warnings, infos int) {
	for _, i := range issues {
		switch i.Severity {
		case Error:
			errors++
		case Warning:
			warnings++
		case Info:
			infos++
		}
	}
	return
}
