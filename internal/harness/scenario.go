package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a board lifecycle scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the host catalog YAML boards are resolved against.
	Catalog string `yaml:"catalog"`

	// RankFieldID is the rank custom field id boards are loaded with.
	RankFieldID int64 `yaml:"rank_field_id,omitempty"`

	// Steps run in order against one fresh database.
	Steps []Step `yaml:"steps"`

	// Assertions validate the stored boards after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step saves or deletes a board. Exactly one of Save and Delete is set.
type Step struct {
	// Save is the path of a board document to save.
	Save string `yaml:"save,omitempty"`

	// Board is the code of a stored board the save replaces. Empty creates
	// a new board.
	Board string `yaml:"board,omitempty"`

	// User is the key of the user saving. Required for saves.
	User string `yaml:"user,omitempty"`

	// Delete is the code of the board to delete.
	Delete string `yaml:"delete,omitempty"`

	// Expect specifies an expected failure. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies how a step is expected to fail.
type ExpectClause struct {
	// Error is a validation code (e.g. "E220"), "not_found" or "conflict".
	Error string `yaml:"error"`

	// Field is the expected dotted document path of a validation error.
	// If empty, only the code is checked.
	Field string `yaml:"field,omitempty"`
}

// Assertion validates the stored boards.
type Assertion struct {
	// Type specifies the assertion type:
	// - "board_count": Check the number of stored boards
	// - "board_owner": Check a board's owning user
	// - "revision_count": Check how many saves a board has
	// - "board_states": Check a board's state names in column order
	// - "same_hash": Check save steps stored identical configurations
	Type string `yaml:"type"`

	// Board is the board code (used by board_owner, revision_count, board_states).
	Board string `yaml:"board,omitempty"`

	// User is the expected owner (used by board_owner).
	User string `yaml:"user,omitempty"`

	// Count is the expected number (used by board_count, revision_count).
	Count int `yaml:"count,omitempty"`

	// States are the expected state names (used by board_states).
	States []string `yaml:"states,omitempty"`

	// Steps are step indexes (used by same_hash).
	Steps []int `yaml:"steps,omitempty"`
}

// Assertion type constants.
const (
	AssertBoardCount    = "board_count"
	AssertBoardOwner    = "board_owner"
	AssertRevisionCount = "revision_count"
	AssertBoardStates   = "board_states"
	AssertSameHash      = "same_hash"
)

// LoadScenario reads and parses a scenario YAML file. Catalog and board
// paths are resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths relative to the scenario BEFORE validation
	base := filepath.Dir(path)
	scenario.Catalog = resolvePath(base, scenario.Catalog)
	for i := range scenario.Steps {
		scenario.Steps[i].Save = resolvePath(base, scenario.Steps[i].Save)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", s.Catalog)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Steps)); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *Step) error {
	switch {
	case step.Save != "" && step.Delete != "":
		return fmt.Errorf("steps[%d]: save and delete are mutually exclusive", index)
	case step.Save != "":
		if step.User == "" {
			return fmt.Errorf("steps[%d]: user is required for save", index)
		}
		if _, err := os.Stat(step.Save); os.IsNotExist(err) {
			return fmt.Errorf("steps[%d]: board file not found: %s", index, step.Save)
		}
	case step.Delete != "":
		if step.Board != "" || step.User != "" {
			return fmt.Errorf("steps[%d]: board and user only apply to save", index)
		}
	default:
		return fmt.Errorf("steps[%d]: one of save or delete is required", index)
	}

	if step.Expect != nil && step.Expect.Error == "" {
		return fmt.Errorf("steps[%d].expect: error is required", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertBoardCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for board_count", index)
		}
	case AssertBoardOwner:
		if a.Board == "" || a.User == "" {
			return fmt.Errorf("assertions[%d]: board and user are required for board_owner", index)
		}
	case AssertRevisionCount:
		if a.Board == "" {
			return fmt.Errorf("assertions[%d]: board is required for revision_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for revision_count", index)
		}
	case AssertBoardStates:
		if a.Board == "" || len(a.States) == 0 {
			return fmt.Errorf("assertions[%d]: board and states are required for board_states", index)
		}
	case AssertSameHash:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: at least two steps are required for same_hash", index)
		}
		for _, s := range a.Steps {
			if s < 0 || s >= steps {
				return fmt.Errorf("assertions[%d]: step %d out of range", index, s)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
