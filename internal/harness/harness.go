package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/catalog"
	"github.com/roach88/jirban/internal/manager"
	"github.com/roach88/jirban/internal/store"
	"github.com/roach88/jirban/internal/testutil"
)

// Harness executes scenario steps against a manager backed by a private
// in-memory store.
type Harness struct {
	manager *manager.Manager
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Load the host catalog
// 2. Create fresh in-memory database with sequential revision ids
// 3. Execute steps, checking each against its expect clause
// 4. Evaluate assertions against the stored boards
//
// A returned error means the scenario could not be executed; failed
// expectations are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	host, err := catalog.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	st, err := store.Open(":memory:", store.WithRevisionGenerator(testutil.NewSequentialRevisions("")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		manager: manager.New(st, host, scenario.RankFieldID,
			manager.WithLogger(slog.New(slog.DiscardHandler))), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		outcome, err := h.executeStep(ctx, i, step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		result.Steps = append(result.Steps, outcome)
		checkExpect(result, outcome, step.Expect)
	}

	for _, msg := range EvaluateAssertions(ctx, h.manager, result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step) (StepOutcome, error) {
	if step.Delete != "" {
		return h.executeDelete(ctx, index, step.Delete)
	}
	return h.executeSave(ctx, index, step)
}

func (h *Harness) executeSave(ctx context.Context, index int, step Step) (StepOutcome, error) {
	outcome := StepOutcome{Step: index, Action: ActionSave}

	data, err := os.ReadFile(step.Save)
	if err != nil {
		return outcome, fmt.Errorf("failed to read board document: %w", err)
	}

	var id int64
	if step.Board != "" {
		existing, err := h.manager.GetByCode(ctx, step.Board)
		if err != nil {
			return failed(outcome, err)
		}
		id = existing.ID()
	}

	saved, err := h.manager.Save(ctx, id, step.User, data)
	if err != nil {
		return failed(outcome, err)
	}

	outcome.Board = saved.Board.Code()
	outcome.ID = saved.Board.ID()
	outcome.Owner = saved.Board.OwningUserKey()
	outcome.Revision = saved.Revision
	outcome.Hash = saved.Hash
	return outcome, nil
}

func (h *Harness) executeDelete(ctx context.Context, index int, code string) (StepOutcome, error) {
	outcome := StepOutcome{Step: index, Action: ActionDelete, Board: code}

	existing, err := h.manager.GetByCode(ctx, code)
	if err != nil {
		return failed(outcome, err)
	}
	outcome.ID = existing.ID()

	if err := h.manager.Delete(ctx, outcome.ID); err != nil {
		return failed(outcome, err)
	}
	return outcome, nil
}

// failed records an expected kind of failure on the outcome. Anything else
// aborts the scenario.
func failed(outcome StepOutcome, err error) (StepOutcome, error) {
	var verr *boardcfg.ValidationError
	switch {
	case errors.As(err, &verr):
		outcome.Error = verr.Code
		outcome.Field = verr.Field
	case errors.Is(err, store.ErrNotFound):
		outcome.Error = ExpectNotFound
	case errors.Is(err, store.ErrConflict):
		outcome.Error = ExpectConflict
	default:
		return outcome, err
	}
	return outcome, nil
}

// checkExpect compares an outcome with its expect clause.
func checkExpect(result *Result, outcome StepOutcome, expect *ExpectClause) {
	if expect == nil {
		if outcome.Error != "" {
			result.AddError(fmt.Sprintf("step %d: %s failed with %s, expected success",
				outcome.Step, outcome.Action, describeError(outcome)))
		}
		return
	}

	if outcome.Error == "" {
		result.AddError(fmt.Sprintf("step %d: %s succeeded, expected %s",
			outcome.Step, outcome.Action, expect.Error))
		return
	}
	if outcome.Error != expect.Error {
		result.AddError(fmt.Sprintf("step %d: expected error %s, got %s",
			outcome.Step, expect.Error, describeError(outcome)))
		return
	}
	if expect.Field != "" && outcome.Field != expect.Field {
		result.AddError(fmt.Sprintf("step %d: expected error at %s, got %s",
			outcome.Step, expect.Field, outcome.Field))
	}
}

func describeError(outcome StepOutcome) string {
	if outcome.Field == "" {
		return outcome.Error
	}
	return fmt.Sprintf("%s at %s", outcome.Error, outcome.Field)
}
