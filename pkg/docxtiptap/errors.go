package docxtiptap

import (
	"errors"
	"fmt"
	"strings"
)

// ContainerError reports an unreadable or invalid DOCX container.
// It is always fatal: no partial result accompanies it.
type ContainerError struct {
	Op    string
	Part  string
	Cause error
}

func (e *ContainerError) Error() string {
	switch {
	case e.Part != "" && e.Cause != nil:
		return fmt.Sprintf("container error during %s of '%s': %v", e.Op, e.Part, e.Cause)
	case e.Part != "":
		return fmt.Sprintf("container error during %s of '%s'", e.Op, e.Part)
	case e.Cause != nil:
		return fmt.Sprintf("container error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("container error during %s", e.Op)
}

func (e *ContainerError) Unwrap() error {
	return e.Cause
}

// NewContainerError creates a new container error
func NewContainerError(op, part string, cause error) error {
	return &ContainerError{Op: op, Part: part, Cause: cause}
}

// SchemaError reports a JSON node that does not fit the document schema at its
// position. Conversion recovers by substituting an empty paragraph.
type SchemaError struct {
	Path     string
	NodeType string
	Message  string
}

func (e *SchemaError) Error() string {
	if e.NodeType != "" {
		return fmt.Sprintf("schema error at %s (type %q): %s", e.Path, e.NodeType, e.Message)
	}
	return fmt.Sprintf("schema error at %s: %s", e.Path, e.Message)
}

// NewSchemaError creates a new schema error
func NewSchemaError(path, nodeType, message string) error {
	return &SchemaError{Path: path, NodeType: nodeType, Message: message}
}

// NumberingFormatError reports a numbering level whose format kind is not
// recognized. Rendering falls back to decimal.
type NumberingFormatError struct {
	ListID string
	Level  int
	Format string
}

func (e *NumberingFormatError) Error() string {
	return fmt.Sprintf("numbering format error for list %s level %d: unrecognized format %q", e.ListID, e.Level, e.Format)
}

// VaultKeyMismatch reports a vaulted fragment whose key no longer resolves to
// a node in the tree being exported. It is never returned to callers.
type VaultKeyMismatch struct {
	Key string
}

func (e *VaultKeyMismatch) Error() string {
	return fmt.Sprintf("vault key %q has no live target", e.Key)
}

// ExportError wraps a failure while writing the output container.
type ExportError struct {
	Op    string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error during %s: %v", e.Op, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{errors: make([]error, 0)}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsContainerError checks if an error is, or wraps, a container error
func IsContainerError(err error) bool {
	var target *ContainerError
	return errors.As(err, &target)
}

// IsSchemaError checks if an error is, or wraps, a schema error
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsNumberingFormatError checks if an error is, or wraps, a numbering format error
func IsNumberingFormatError(err error) bool {
	var target *NumberingFormatError
	return errors.As(err, &target)
}

// IsExportError checks if an error is, or wraps, an export error
func IsExportError(err error) bool {
	var target *ExportError
	return errors.As(err, &target)
}
