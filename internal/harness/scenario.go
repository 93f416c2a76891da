package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sentinel/internal/world"
)

// Scenario defines a conformance test scenario.
// Scenarios validate Sentinel behavior by running a full pass over an
// inline world snapshot and asserting on the resulting report.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// PassToken is the fixed pass token for deterministic reports.
	// Defaults to "test-pass-default" when empty.
	PassToken string `yaml:"pass_token,omitempty"`

	// Rules is an optional inline CUE document overriding the default
	// rule tables. Same format as a rules file (top-level "sentinel").
	Rules string `yaml:"rules,omitempty"`

	// World is the snapshot the pass runs against.
	World world.Snapshot `yaml:"world"`

	// Expect lists assertions over the report.
	// Supported types: issue_contains, issue_count, clean.
	Expect []Assertion `yaml:"expect"`
}

// Assertion validates one property of a report.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Category scopes the assertion (issue_contains, issue_count with a
	// category, clean).
	Category string `yaml:"category,omitempty"`

	// Code is the expected issue code (issue_contains).
	Code string `yaml:"code,omitempty"`

	// Severity is the expected severity name (issue_contains).
	Severity string `yaml:"severity,omitempty"`

	// Ref is an entity id the issue must reference (issue_contains).
	Ref string `yaml:"ref,omitempty"`

	// Count is the expected number of matching issues (issue_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertIssueContains = "issue_contains"
	AssertIssueCount    = "issue_count"
	AssertClean         = "clean"
)

// ParseScenario decodes a YAML scenario document. Decoding is strict so
// scenario typos fail the load, not silently pass the run.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("parse scenario: name is required")
	}
	return &sc, nil
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return sc, nil
}
