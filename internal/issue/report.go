package issue

import (
	"fmt"
	"time"
)

// Report is the aggregate output of one validation pass.
type Report struct {
	// PassToken identifies the validation pass (UUIDv7 in production,
	// fixed token in tests).
	PassToken string `json:"pass_token"`

	// Turn is the snapshot's logical turn counter.
	Turn int64 `json:"turn"`

	// StartedAt is when the pass began.
	StartedAt time.Time `json:"started_at,omitempty"`

	Issues []Issue `json:"issues"`
}

// Errors reports whether the report contains any Error-severity issue.
func (r Report) Errors() bool {
	for _, i := range r.Issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// toCanonicalMap converts the report to plain maps and slices for canonical
// serialization. Wall-clock fields (StartedAt, DetectedAt) are excluded so
// canonical bytes depend only on the snapshot and rules, which is what makes
// golden-file comparison possible.
func (r Report) toCanonicalMap() map[string]any {
	list := make([]any, len(r.Issues))
	for n, i := range r.Issues {
		m := map[string]any{
			"severity": i.Severity.String(),
			"category": string(i.Category),
			"code":     i.Code,
			"message":  i.Message,
		}
		if len(i.Refs) > 0 {
			refs := make([]any, len(i.Refs))
			for j, ref := range i.Refs {
				rm := map[string]any{"id": string(ref.ID)}
				if ref.Kind != "" {
					rm["kind"] = string(ref.Kind)
				}
				refs[j] = rm
			}
			m["refs"] = refs
		}
		if i.Resolved {
			m["resolved"] = true
		}
		list[n] = m
	}
	return map[string]any{
		"pass_token": r.PassToken,
		"turn":       r.Turn,
		"issues":     list,
	}
}

// MarshalCanonical produces RFC 8785 canonical JSON for the report.
// This is the serialization golden files and content hashes use; standard
// encoding/json remains available for everything else.
func (r Report) MarshalCanonical() ([]byte, error) {
	data, err := marshalCanonical(r.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}
