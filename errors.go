package marzipan

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaErrorKey is the reserved field name under which schema-level
// (cross-field) validation failures are collected.
const SchemaErrorKey = "_schema"

// FieldError records a single conversion or validation failure.
type FieldError struct {
	Field   string   // Field name, or SchemaErrorKey for cross-field failures.
	Index   int      // Element index in many mode; -1 otherwise.
	Path    []string // Enclosing nested field names, outermost first.
	Message string
	Cause   error // Optional: underlying error.
}

// ErrorBag is an ordered collection of field errors that implements error.
// The zero value is usable; an empty bag means success.
type ErrorBag []FieldError

// Error summarizes the first few entries.
func (b ErrorBag) Error() string {
	if len(b) == 0 {
		return ""
	}
	const maxShown = 3
	sb := &strings.Builder{}
	n := len(b)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		fe := b[i]
		fmt.Fprintf(sb, "%s: %s", fe.key(), fe.Message)
	}
	if n > lim {
		fmt.Fprintf(sb, "; ... (total %d)", n)
	}
	return sb.String()
}

func (fe FieldError) key() string {
	if len(fe.Path) == 0 {
		return fe.Field
	}
	return strings.Join(fe.Path, ".") + "." + fe.Field
}

// Empty reports whether the bag holds no errors.
func (b ErrorBag) Empty() bool { return len(b) == 0 }

// Has reports whether any entry targets the given top-level field name.
func (b ErrorBag) Has(field string) bool {
	for _, fe := range b {
		if fe.Field == field && len(fe.Path) == 0 {
			return true
		}
		if len(fe.Path) > 0 && fe.Path[0] == field {
			return true
		}
	}
	return false
}

// Field returns the messages recorded for a top-level field, in order.
func (b ErrorBag) Field(name string) []string {
	var out []string
	for _, fe := range b {
		if fe.Field == name && len(fe.Path) == 0 && fe.Index < 0 {
			out = append(out, fe.Message)
		}
	}
	return out
}

// At returns the errors recorded for one element of a many-mode run.
func (b ErrorBag) At(index int) ErrorBag {
	var out ErrorBag
	for _, fe := range b {
		if fe.Index == index {
			fe2 := fe
			fe2.Index = -1
			out = append(out, fe2)
		}
	}
	return out
}

// ByIndex groups many-mode errors by element index. Only indices with at
// least one error appear.
func (b ErrorBag) ByIndex() map[int]ErrorBag {
	out := map[int]ErrorBag{}
	for _, fe := range b {
		if fe.Index < 0 {
			continue
		}
		fe2 := fe
		fe2.Index = -1
		out[fe.Index] = append(out[fe.Index], fe2)
	}
	return out
}

// AsMap renders the envelope shape for a single-record run: field name to
// list of messages, with nested schema failures as nested maps.
func (b ErrorBag) AsMap() map[string]any {
	out := map[string]any{}
	for _, fe := range b {
		m := out
		for _, seg := range fe.Path {
			child, ok := m[seg].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[seg] = child
			}
			m = child
		}
		msgs, _ := m[fe.Field].([]string)
		m[fe.Field] = append(msgs, fe.Message)
	}
	return out
}

// AppendErrors appends entries to the destination, initializing the bag when
// needed.
func AppendErrors(dst ErrorBag, more ...FieldError) ErrorBag {
	if dst == nil {
		dst = ErrorBag{}
	}
	return append(dst, more...)
}

// AsErrorBag extracts an ErrorBag from an error using errors.As internally.
func AsErrorBag(err error) (ErrorBag, bool) {
	if err == nil {
		return nil, false
	}
	var b ErrorBag
	if errors.As(err, &b) {
		return b, true
	}
	return nil, false
}

// rebase nests child errors under the given field name, preserving order.
func rebase(child ErrorBag, field string, index int) ErrorBag {
	out := make(ErrorBag, 0, len(child))
	for _, fe := range child {
		fe.Path = append([]string{field}, fe.Path...)
		fe.Index = index
		out = append(out, fe)
	}
	return out
}

// ---- taxonomy ----

// ConversionError reports a single-field, single-value coercion or lexical
// validation failure.
type ConversionError struct {
	FieldName string
	Message   string
	Cause     error
}

func (e *ConversionError) Error() string { return e.Message }
func (e *ConversionError) Unwrap() error { return e.Cause }

// Convf builds a ConversionError with a formatted message.
func Convf(format string, args ...any) *ConversionError {
	return &ConversionError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError is raised by field or schema validators that want to carry
// their own message and, optionally, target a specific field.
type ValidationError struct {
	Message   string
	FieldName string // Optional: attach to this field instead of SchemaErrorKey.
}

func (e *ValidationError) Error() string { return e.Message }

// DefinitionError reports a structurally invalid schema. Definition errors
// are always raised, never collected: they indicate programmer error.
type DefinitionError struct{ msg string }

func (e *DefinitionError) Error() string { return e.msg }

func definitionErrorf(format string, args ...any) *DefinitionError {
	return &DefinitionError{msg: fmt.Sprintf(format, args...)}
}

// Definitionf builds a DefinitionError. Field implementations outside this
// package use it to report structural misuse of a declaration.
func Definitionf(format string, args ...any) *DefinitionError {
	return definitionErrorf(format, args...)
}

// MarshallingError wraps the errors accumulated by a strict-mode Dump. The
// first underlying cause is available through Unwrap.
type MarshallingError struct {
	Errors ErrorBag
	cause  error
}

func (e *MarshallingError) Error() string {
	return "marshalling failed: " + e.Errors.Error()
}

func (e *MarshallingError) Unwrap() error { return e.cause }

// UnmarshallingError wraps the errors accumulated by a strict-mode Load.
type UnmarshallingError struct {
	Errors ErrorBag
	cause  error
}

func (e *UnmarshallingError) Error() string {
	return "unmarshalling failed: " + e.Errors.Error()
}

func (e *UnmarshallingError) Unwrap() error { return e.cause }

func firstCause(b ErrorBag) error {
	for _, fe := range b {
		if fe.Cause != nil {
			return fe.Cause
		}
	}
	if len(b) > 0 {
		return errors.New(b[0].Message)
	}
	return nil
}
