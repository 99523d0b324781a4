package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/catalog"
	"github.com/roach88/jirban/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Board document failed validation
	ExitCommandError = 2 // Command error (unreadable file, missing board, bad catalog, etc.)
)

// Command error codes (E001-E099). Board validation failures carry the
// E2xx code of the boardcfg.ValidationError instead.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Board document could not be read
	ErrCodeNoCatalog   = "E003" // No host catalog configured
	ErrCodeBadCatalog  = "E004" // Host catalog missing or inconsistent
	ErrCodeNotFound    = "E005" // Board not found
	ErrCodeConflict    = "E006" // Board code or name already in use
	ErrCodeStoreFailed = "E007" // Database error
	ErrCodeBadArgument = "E008" // Invalid argument or flag value
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E005", "E221", etc.
	Message string      `json:"message"`           // human-readable message
	Field   string      `json:"field,omitempty"`   // dotted document path, validation errors only
	Line    int         `json:"line,omitempty"`    // source line, validation errors only
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	return f.emit(&CLIError{Code: code, Message: message, Details: details})
}

func (f *OutputFormatter) emit(cliErr *CLIError) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  cliErr,
		})
	}

	// Human-readable error
	switch {
	case cliErr.Line > 0:
		fmt.Fprintf(f.Writer, "Error [%s] line %d: %s\n", cliErr.Code, cliErr.Line, cliErr.Message)
	default:
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
	}
	if cliErr.Field != "" {
		fmt.Fprintf(f.Writer, "  at %s\n", cliErr.Field)
	}
	if f.Verbose && cliErr.Details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", cliErr.Details)
	}
	return nil
}

// Fail reports err in the configured format and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error) error {
	cliErr, exit := classify(err)
	_ = f.emit(cliErr)
	return WrapExitError(exit, cliErr.Code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// classify maps an error to its response code and exit code. Validation
// failures exit 1; everything else is a command error.
func classify(err error) (*CLIError, int) {
	var verr *boardcfg.ValidationError
	if errors.As(err, &verr) {
		return &CLIError{
			Code:    verr.Code,
			Message: verr.Message,
			Field:   verr.Field,
			Line:    verr.Line(),
		}, ExitFailure
	}

	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		return &CLIError{Code: cmdErr.code, Message: cmdErr.Error()}, ExitCommandError
	}

	code := ErrCodeGeneric
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, store.ErrConflict):
		code = ErrCodeConflict
	case errors.Is(err, catalog.ErrInvalidCatalog):
		code = ErrCodeBadCatalog
	}
	return &CLIError{Code: code, Message: err.Error()}, ExitCommandError
}

// commandError tags an error with a command error code.
type commandError struct {
	code string
	err  error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

func withCode(code string, err error) error {
	return &commandError{code: code, err: err}
}
