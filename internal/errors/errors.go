// Package errors defines the tagged error variants produced by the project
// parser and evaluator (spec Section 4.11 / 7). Parse-time errors are
// wrapped once with (path, line) and once more with (path) as they unwind;
// evaluator errors carry a Kind so callers can distinguish fatal
// conditions (InconsistentScenarioVariable, TooManyScenarioVariables, ...)
// from the generic case.
package errors

import (
	"fmt"
)

// Kind tags the semantic category of an EvalError, mirroring the table in
// spec Section 4.11.
type Kind string

const (
	KindNotFound                    Kind = "not_found"
	KindMismatchEndName             Kind = "mismatch_end_name"
	KindInconsistentScenarioVar     Kind = "inconsistent_scenario_variable"
	KindNotStaticString             Kind = "not_static_string"
	KindVariableMustBeString        Kind = "variable_must_be_string"
	KindInconsistentFileLang        Kind = "inconsistent_file_lang"
	KindTooManyScenarioVariables    Kind = "too_many_scenario_variables"
	KindInvalidPackageName          Kind = "invalid_package_name"
	KindInvalidAttribute            Kind = "invalid_attribute"
	KindWrongAmpersand              Kind = "wrong_ampersand"
	KindAlreadyDeclared             Kind = "already_declared"
	KindProjectCycle                Kind = "project_cycle"
	KindWrongToken                  Kind = "wrong_token"
	KindUnexpectedEOF               Kind = "unexpected_eof"
	KindUnknownFunction             Kind = "unknown_function"
	KindInvalidExpression           Kind = "invalid_expression"
	KindListElementNotString        Kind = "list_element_not_string"
)

// EvalError is the fatal-error type raised by the parser and evaluator.
type EvalError struct {
	Kind    Kind
	Message string
	Path    string
	Line    int
	// Underlying wraps a lower-level cause, if any.
	Underlying error
}

func New(kind Kind, message string) *EvalError {
	return &EvalError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithLocation attaches a file path and line number, matching the spec's
// wrap-once-with-(path,line) unwind rule. It is a no-op once a location is
// already attached, so repeated wrapping during unwind does not overwrite
// the original site.
func (e *EvalError) WithLocation(path string, line int) *EvalError {
	if e.Path != "" {
		return e
	}
	cp := *e
	cp.Path = path
	cp.Line = line
	return &cp
}

// WithPath attaches only a path, used when no line is known (e.g. a
// whole-file error discovered outside the parser).
func (e *EvalError) WithPath(path string) *EvalError {
	if e.Path != "" {
		return e
	}
	cp := *e
	cp.Path = path
	return &cp
}

func (e *EvalError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	default:
		return e.Message
	}
}

func (e *EvalError) Unwrap() error {
	return e.Underlying
}

// NotFound builds the one error kind that query actions are allowed to
// raise (Section 7): a queried name or path is absent from the graph.
func NotFound(what string) *EvalError {
	return Newf(KindNotFound, "%s not found", what)
}

// Is reports whether err is an EvalError of the given kind, so callers can
// branch without importing the concrete type everywhere.
func Is(err error, kind Kind) bool {
	ee, ok := err.(*EvalError)
	return ok && ee.Kind == kind
}
