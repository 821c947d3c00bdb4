// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing error context for fatal pipeline
// failures: which operation failed, which resource was involved, and what
// the user can do about it. Best-effort degradations (a missing sources
// jar, an absent companion-library directory) never become issues; they
// are logged and swallowed at their origin.
package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError is an error with enough context to render a useful
// failure message: the operation attempted, the resource involved, and
// remediation suggestions.
type ActionableError struct {
	// Operation is a verb phrase describing what was attempted, e.g.
	// "fetch distribution archive" or "publish module descriptor".
	Operation string

	// Resource identifies the file, URL, or coordinate involved (optional).
	Resource string

	// Suggestions are remediation hints shown beneath the message.
	Suggestions []string

	// Cause is the underlying error.
	Cause error
}

// Wrap attaches operation context to err. Returns nil for a nil err so it
// can wrap return values unconditionally.
func Wrap(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapResource attaches operation and resource context to err.
func WrapResource(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Suggest appends remediation hints and returns the error for chaining.
func (e *ActionableError) Suggest(hints ...string) *ActionableError {
	e.Suggestions = append(e.Suggestions, hints...)
	return e
}

// Error returns the concise single-line message.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message with suggestions; in verbose mode it also
// renders the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	for _, s := range e.Suggestions {
		msg.WriteString("\n  • ")
		msg.WriteString(s)
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}
