// Package config parses and validates pipeline definition files
// (JSON/YAML) against the embedded schema.
package config

import (
	"fmt"
	"strings"
)

// ParseResult contains the result of parsing one definition file.
type ParseResult struct {
	// Data is the parsed definition as a map.
	Data map[string]interface{}
	// Errors contains any parsing errors encountered.
	Errors []ParseError
	// FilePath is the parsed file (empty when parsed from a string).
	FilePath string
	// Format is the detected format (json, yaml).
	Format string
}

// IsValid returns true if no parsing errors occurred.
func (r *ParseResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ParseError is a parsing error with location information.
type ParseError struct {
	Path string
	// Line and Column are 1-based, 0 when unknown.
	Line   int
	Column int
	// Offset is the byte offset in the file, 0 when unknown.
	Offset  int64
	Message string
	// Type categorizes the error (syntax, io, format).
	Type string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", e.Line))
		if e.Column > 0 {
			sb.WriteString(fmt.Sprintf(", column %d", e.Column))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult contains the result of validating a definition.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError is a schema validation error.
type ValidationError struct {
	// Path is the JSON path where the error occurred,
	// e.g. "/pipeline/source/type".
	Path string
	// Type is the error category (required, type, enum, ...).
	Type string
	// Message is the error message.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Result combines parsing and validation of one definition file.
type Result struct {
	Data             map[string]interface{}
	ParseErrors      []ParseError
	ValidationErrors []ValidationError
	FilePath         string
	Format           string
}

// IsValid returns true if no errors occurred.
func (r *Result) IsValid() bool {
	return len(r.ParseErrors) == 0 && len(r.ValidationErrors) == 0
}

// AllErrors returns parsing and validation errors as one slice.
func (r *Result) AllErrors() []error {
	errs := make([]error, 0, len(r.ParseErrors)+len(r.ValidationErrors))
	for _, e := range r.ParseErrors {
		errs = append(errs, e)
	}
	for _, e := range r.ValidationErrors {
		errs = append(errs, e)
	}
	return errs
}

// Parse error type constants.
const (
	ErrorTypeIO     = "io"
	ErrorTypeSyntax = "syntax"
	ErrorTypeFormat = "format"
)
