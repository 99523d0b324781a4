package harness

// Step outcome actions.
const (
	ActionSave   = "save"
	ActionDelete = "delete"
)

// Expected error names for store failures. Validation failures are matched
// by their E2xx code.
const (
	ExpectNotFound = "not_found"
	ExpectConflict = "conflict"
)

// StepOutcome records what one scenario step did.
type StepOutcome struct {
	Step     int    `json:"step"`
	Action   string `json:"action"`
	Board    string `json:"board,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Revision string `json:"revision,omitempty"`
	Hash     string `json:"hash,omitempty"`
	Error    string `json:"error,omitempty"`
	Field    string `json:"field,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step matched its expectation
	// and every assertion held.
	Pass bool `json:"pass"`

	// Steps contains one outcome per scenario step, in order.
	Steps []StepOutcome `json:"steps"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutcome{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Step returns the outcome of step i, or false if it is out of range.
func (r *Result) Step(i int) (StepOutcome, bool) {
	if i < 0 || i >= len(r.Steps) {
		return StepOutcome{}, false
	}
	return r.Steps[i], true
}
