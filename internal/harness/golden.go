package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the report's canonical
// JSON against a golden file in testdata/<scenario.Name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for whole-report output: any
// change to issue ordering, codes, or messages shows up as a diff here
// before it reaches a consumer.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %q failed to run: %v", scenario.Name, err)
	}

	data, err := result.Report.MarshalCanonical()
	if err != nil {
		t.Fatalf("scenario %q report serialization failed: %v", scenario.Name, err)
	}

	g := goldie.New(t)
	g.Assert(t, scenario.Name, data)
	return result
}
