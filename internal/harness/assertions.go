package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/jirban/internal/manager"
	"github.com/roach88/jirban/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Steps    []StepOutcome // Step outcomes for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, s := range e.Steps {
			if s.Error != "" {
				fmt.Fprintf(&buf, "  [%d] %s %s -> %s\n", s.Step, s.Action, s.Board, describeError(s))
				continue
			}
			fmt.Fprintf(&buf, "  [%d] %s %s (id %d)\n", s.Step, s.Action, s.Board, s.ID)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(ctx context.Context, mgr *manager.Manager, result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(ctx, mgr, result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(ctx context.Context, mgr *manager.Manager, result *Result, a Assertion) error {
	switch a.Type {
	case AssertBoardCount:
		return assertBoardCount(ctx, mgr, result, a)
	case AssertBoardOwner:
		return assertBoardOwner(ctx, mgr, result, a)
	case AssertRevisionCount:
		return assertRevisionCount(ctx, mgr, result, a)
	case AssertBoardStates:
		return assertBoardStates(ctx, mgr, result, a)
	case AssertSameHash:
		return assertSameHash(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertBoardCount(ctx context.Context, mgr *manager.Manager, result *Result, a Assertion) error {
	boards, err := mgr.List(ctx)
	if err != nil {
		return fmt.Errorf("board_count: %w", err)
	}
	if len(boards) != a.Count {
		codes := make([]string, len(boards))
		for i, b := range boards {
			codes[i] = b.Code
		}
		return &AssertionError{
			Type:     AssertBoardCount,
			Expected: fmt.Sprintf("%d board(s)", a.Count),
			Actual:   fmt.Sprintf("%d board(s) %v", len(boards), codes),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertBoardOwner(ctx context.Context, mgr *manager.Manager, result *Result, a Assertion) error {
	board, err := mgr.GetByCode(ctx, a.Board)
	if err != nil {
		return missingBoard(AssertBoardOwner, a.Board, result, err)
	}
	if board.OwningUserKey() != a.User {
		return &AssertionError{
			Type:     AssertBoardOwner,
			Expected: fmt.Sprintf("board %s owned by %s", a.Board, a.User),
			Actual:   fmt.Sprintf("owned by %s", board.OwningUserKey()),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertRevisionCount(ctx context.Context, mgr *manager.Manager, result *Result, a Assertion) error {
	board, err := mgr.GetByCode(ctx, a.Board)
	if err != nil {
		return missingBoard(AssertRevisionCount, a.Board, result, err)
	}
	revs, err := mgr.History(ctx, board.ID())
	if err != nil {
		return fmt.Errorf("revision_count: %w", err)
	}
	if len(revs) != a.Count {
		return &AssertionError{
			Type:     AssertRevisionCount,
			Expected: fmt.Sprintf("board %s with %d revision(s)", a.Board, a.Count),
			Actual:   fmt.Sprintf("%d revision(s)", len(revs)),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertBoardStates(ctx context.Context, mgr *manager.Manager, result *Result, a Assertion) error {
	board, err := mgr.GetByCode(ctx, a.Board)
	if err != nil {
		return missingBoard(AssertBoardStates, a.Board, result, err)
	}
	got := board.States().Names()
	if !slices.Equal(got, a.States) {
		return &AssertionError{
			Type:     AssertBoardStates,
			Expected: fmt.Sprintf("board %s states %v", a.Board, a.States),
			Actual:   fmt.Sprintf("states %v", got),
			Steps:    result.Steps,
		}
	}
	return nil
}

// assertSameHash checks that the listed save steps succeeded and stored the
// same configuration.
func assertSameHash(result *Result, a Assertion) error {
	var want string
	for _, i := range a.Steps {
		s, ok := result.Step(i)
		if !ok || s.Action != ActionSave || s.Error != "" {
			return &AssertionError{
				Type:     AssertSameHash,
				Expected: fmt.Sprintf("step %d to be a successful save", i),
				Actual:   "no stored configuration",
				Steps:    result.Steps,
			}
		}
		if want == "" {
			want = s.Hash
			continue
		}
		if s.Hash != want {
			return &AssertionError{
				Type:     AssertSameHash,
				Expected: fmt.Sprintf("steps %v to store identical configurations", a.Steps),
				Actual:   fmt.Sprintf("step %d hash %s differs from %s", i, s.Hash, want),
				Steps:    result.Steps,
			}
		}
	}
	return nil
}

func missingBoard(typ, code string, result *Result, err error) error {
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", typ, err)
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("board %s to be stored", code),
		Actual:   "not found",
		Steps:    result.Steps,
	}
}
