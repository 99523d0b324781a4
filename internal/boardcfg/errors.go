package boardcfg

import (
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Validation error codes (E200-E299). Codes exist for diagnostics only; every
// failure is a *ValidationError regardless of code.
const (
	// Document errors (E200-E209)
	ErrInvalidDocument = "E200" // document could not be parsed
	ErrMissingField    = "E201" // required key is absent
	ErrWrongType       = "E202" // value present but of the wrong shape

	// State sequence errors (E210-E219)
	ErrNoStates            = "E210" // a board must have states
	ErrDuplicateState      = "E211" // state name declared twice
	ErrBacklogNotPrefix    = "E212" // backlog states must be a contiguous prefix
	ErrBacklogWithHeader   = "E213" // backlog state carries a header
	ErrHeaderNotContiguous = "E214" // header reused after being closed
	ErrDoneNotSuffix       = "E215" // done states must be a contiguous suffix
	ErrBacklogAndDone      = "E216" // state is both backlog and done

	// Project errors (E220-E229)
	ErrOwnerStateLinks     = "E220" // owner project declares state-links
	ErrOwnerStatesMismatch = "E221" // owner states differ from board states
	ErrProjectStates       = "E222" // non-owner project declares states
	ErrUnknownBoardState   = "E223" // state-link targets an unknown board state
	ErrBoardStateReused    = "E224" // two own states link to one board state
	ErrOwnerMissing        = "E225" // owning project absent from projects
	ErrLinkedDuplicate     = "E226" // linked project repeats a state
	ErrLinkedIsBoard       = "E227" // linked project is also a board project

	// Entity errors (E230-E239)
	ErrUnknownPriority  = "E230"
	ErrUnknownIssueType = "E231"
	ErrDuplicateEntity  = "E232"

	// Custom field errors (E240-E249)
	ErrCustomFieldType      = "E240" // unsupported custom field type
	ErrUnknownCustomField   = "E241" // field-id not known to the host
	ErrDuplicateFieldName   = "E242"
	ErrDuplicateFieldID     = "E243"
	ErrCustomFieldValueList = "E244" // bad predefined-list config

	// Parallel task errors (E250-E259)
	ErrParallelTaskType      = "E250"
	ErrDisplayCode           = "E251" // display code is not 2 characters
	ErrFieldIDInCustom       = "E252" // field-id also a custom field
	ErrDuplicateDisplayCode  = "E253"
	ErrDuplicateParallelName = "E254"
	ErrDuplicateParallelID   = "E255"
)

// ValidationError is the only error kind Load returns. Field is the dotted
// path of the offending key, e.g. "projects.TDP.state-links".
type ValidationError struct {
	Code    string    `json:"code"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Pos     token.Pos `json:"-"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	if e.Field == "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	switch {
	case !e.Pos.IsValid():
		return msg
	case e.Pos.Filename() == "":
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line(), e.Pos.Column(), msg)
	default:
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
	}
}

// Unwrap exposes the host error behind an unresolved name, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Line returns the source line of the offending value, or 0 if unknown.
func (e *ValidationError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

func invalid(n node, code, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   n.path,
		Message: fmt.Sprintf(format, args...),
		Pos:     n.v.Pos(),
	}
}

func missing(n node) *ValidationError {
	return &ValidationError{
		Code:    ErrMissingField,
		Field:   n.path,
		Message: "required field is missing",
		Pos:     n.parentPos,
	}
}

// fromCUE converts a CUE parse or evaluation error, keeping the first position.
func fromCUE(err error) *ValidationError {
	verr := &ValidationError{Code: ErrInvalidDocument, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return verr
	}
	verr.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		verr.Pos = positions[0]
	}
	return verr
}
