package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sentinel/internal/issue"
)

// AssertionError is returned when an assertion fails.
// It includes the full report so a failing scenario is debuggable from the
// test log alone.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Issues   []issue.Issue // Full report for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nFull report:\n")
	for n, i := range e.Issues {
		fmt.Fprintf(&buf, "  [%d] %s\n", n+1, i)
	}
	return buf.String()
}

// evaluate checks a single assertion against the report.
func evaluate(report issue.Report, a Assertion) error {
	switch a.Type {
	case AssertIssueContains:
		return assertIssueContains(report, a)
	case AssertIssueCount:
		return assertIssueCount(report, a)
	case AssertClean:
		return assertClean(report, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertIssueContains checks that at least one issue matches every
// specified field (subset semantics: empty fields match anything).
func assertIssueContains(report issue.Report, a Assertion) error {
	for _, i := range report.Issues {
		if matches(i, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertIssueContains,
		Expected: describeMatch(a),
		Actual:   fmt.Sprintf("no matching issue among %d", len(report.Issues)),
		Issues:   report.Issues,
	}
}

// assertIssueCount checks the number of issues matching the assertion's
// fields (all issues when no field is set).
func assertIssueCount(report issue.Report, a Assertion) error {
	count := 0
	for _, i := range report.Issues {
		if matches(i, a) {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertIssueCount,
		Expected: fmt.Sprintf("%d issue(s) matching %s", a.Count, describeMatch(a)),
		Actual:   fmt.Sprintf("%d issue(s)", count),
		Issues:   report.Issues,
	}
}

// assertClean checks that a category produced no issues at all.
func assertClean(report issue.Report, a Assertion) error {
	for _, i := range report.Issues {
		if string(i.Category) == a.Category {
			return &AssertionError{
				Type:     AssertClean,
				Expected: fmt.Sprintf("no issues in category %q", a.Category),
				Actual:   i.String(),
				Issues:   report.Issues,
			}
		}
	}
	return nil
}

func matches(i issue.Issue, a Assertion) bool {
	if a.Category != "" && string(i.Category) != a.Category {
		return false
	}
	if a.Code != "" && i.Code != a.Code {
		return false
	}
	if a.Severity != "" && i.Severity.String() != a.Severity {
		return false
	}
	if a.Ref != "" {
		found := false
		for _, ref := range i.Refs {
			if string(ref.ID) == a.Ref {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func describeMatch(a Assertion) string {
	var parts []string
	if a.Category != "" {
		parts = append(parts, "category="+a.Category)
	}
	if a.Code != "" {
		parts = append(parts, "code="+a.Code)
	}
	if a.Severity != "" {
		parts = append(parts, "severity="+a.Severity)
	}
	if a.Ref != "" {
		parts = append(parts, "ref="+a.Ref)
	}
	if len(parts) == 0 {
		return "any issue"
	}
	return strings.Join(parts, " ")
}
