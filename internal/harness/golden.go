package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jirban/internal/ir"
)

// snapshot converts step outcomes to a canonical IR object for golden
// comparison. Config hashes are left out; same_hash assertions cover them
// without pinning the serialization.
func snapshot(scenarioName string, steps []StepOutcome) ir.Object {
	list := make(ir.Array, len(steps))
	for i, s := range steps {
		obj := ir.Object{
			"step":   ir.Int(s.Step),
			"action": ir.String(s.Action),
		}
		if s.Board != "" {
			obj["board"] = ir.String(s.Board)
		}
		if s.ID != 0 {
			obj["id"] = ir.Int(s.ID)
		}
		if s.Owner != "" {
			obj["owner"] = ir.String(s.Owner)
		}
		if s.Revision != "" {
			obj["revision"] = ir.String(s.Revision)
		}
		if s.Error != "" {
			obj["error"] = ir.String(s.Error)
		}
		if s.Field != "" {
			obj["field"] = ir.String(s.Field)
		}
		list[i] = obj
	}
	return ir.Object{
		"scenario": ir.String(scenarioName),
		"steps":    list,
	}
}

// RunWithGolden executes a scenario and compares its step outcomes against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the outcomes don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(snapshot(scenarioName, result.Steps))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
