package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"recipe-costing/internal/core"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The service rejected the operation
	ExitCommandError = 2 // Bad arguments, flags or configuration
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// usageError reports a malformed argument or flag.
func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from err. Service errors map to
// ExitFailure; anything else cobra or the environment produced is a command
// error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if core.KindOf(err) != nil {
		return ExitFailure
	}
	return ExitCommandError
}

// errorCode returns the stable code printed alongside err. The codes match
// the ones the HTTP API uses.
func errorCode(err error) string {
	switch core.KindOf(err) {
	case core.ErrInvalidInput:
		return "INVALID_INPUT"
	case core.ErrNotFound:
		return "NOT_FOUND"
	case core.ErrInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case core.ErrTransactionFailure:
		return "TRANSACTION_FAILURE"
	}
	if GetExitCode(err) == ExitCommandError {
		return "USAGE"
	}
	return "ERROR"
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // text-mode errors; defaults to Writer
}

// CLIResponse is the JSON envelope for every command result.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success outputs data. In text mode render draws it; a nil render prints
// nothing.
func (f *OutputFormatter) Success(data any, render func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}
	if render != nil {
		render(f.Writer)
	}
	return nil
}

// Error outputs err in the configured format.
func (f *OutputFormatter) Error(err error) {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: errorCode(err), Message: err.Error()},
		})
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, "Error [%s]: %v\n", errorCode(err), err)
}
