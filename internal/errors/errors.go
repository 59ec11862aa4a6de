// Package errors defines the typed error kinds used across Julie's
// indexing and query pipeline. Tools convert these into structured
// responses; they are never allowed to reach the MCP transport as a raw
// panic.
package errors

import (
	"fmt"
	"time"
)

// Kind tags an error with the semantic category from the design spec.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindSecurity    Kind = "security"
	KindParse       Kind = "parse"
	KindStorage     Kind = "storage"
	KindConcurrency Kind = "concurrency"
	KindTimeout     Kind = "timeout"
	KindUsage       Kind = "usage"
)

// NotFoundError reports that a symbol, file, workspace, or plan is
// absent. It is surfaced to the client as a message, not a tool failure.
type NotFoundError struct {
	Kind       string // "symbol", "file", "workspace", "plan"
	Identifier string
}

func NewNotFoundError(kind, identifier string) *NotFoundError {
	return &NotFoundError{Kind: kind, Identifier: identifier}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Identifier)
}

// SecurityError reports a path-traversal or symlink-escape attempt. It is
// always a hard failure; callers must never silently continue past one.
type SecurityError struct {
	Path   string
	Root   string
	Reason string
}

func NewSecurityError(path, root, reason string) *SecurityError {
	return &SecurityError{Path: path, Root: root, Reason: reason}
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security violation for path %q against root %q: %s", e.Path, e.Root, e.Reason)
}

// ParseError reports that tree-sitter failed or an extractor produced
// inconsistent output. The offending file is skipped; the pipeline
// continues.
type ParseError struct {
	FilePath   string
	Language   string
	Underlying error
	Timestamp  time.Time
}

func NewParseError(filePath, language string, err error) *ParseError {
	return &ParseError{FilePath: filePath, Language: language, Underlying: err, Timestamp: time.Now()}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s (%s): %v", e.FilePath, e.Language, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// StorageError reports a DB, FTS, or vector-store I/O failure. It aborts
// the current batch and bubbles up to the tool response.
type StorageError struct {
	Operation  string
	Underlying error
	Timestamp  time.Time
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Operation: op, Underlying: err, Timestamp: time.Now()}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Underlying)
}

func (e *StorageError) Unwrap() error { return e.Underlying }

// ConcurrencyError reports a poisoned mutex or similarly corrupted shared
// state. Callers recover by taking the inner data and logging a warning.
type ConcurrencyError struct {
	Resource   string
	Underlying error
}

func NewConcurrencyError(resource string, err error) *ConcurrencyError {
	return &ConcurrencyError{Resource: resource, Underlying: err}
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency error on %s: %v", e.Resource, e.Underlying)
}

func (e *ConcurrencyError) Unwrap() error { return e.Underlying }

// TimeoutError reports that a background task (embedding generation,
// HNSW rebuild) exceeded its budget. The store is left consistent;
// embeddings are simply missing.
type TimeoutError struct {
	Operation string
	Budget    time.Duration
}

func NewTimeoutError(operation string, budget time.Duration) *TimeoutError {
	return &TimeoutError{Operation: operation, Budget: budget}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded its %s budget", e.Operation, e.Budget)
}

// UsageError reports invalid tool parameters: a missing required field,
// an out-of-range depth, or an unknown operation name.
type UsageError struct {
	Tool    string
	Field   string
	Message string
}

func NewUsageError(tool, field, message string) *UsageError {
	return &UsageError{Tool: tool, Field: field, Message: message}
}

func (e *UsageError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid %s: %s", e.Tool, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

// MultiError aggregates independent failures, e.g. per-file extraction
// errors collected across an indexing batch.
type MultiError struct {
	Errors []error
}

// NewMultiError filters nil entries and returns an aggregate. Returns nil
// if nothing remains.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors (first: %v)", len(e.Errors), e.Errors[0])
}

func (e *MultiError) Unwrap() []error { return e.Errors }
