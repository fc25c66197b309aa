package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConvert  Phase = "convert"  // engine value <-> host value
	PhaseRegistry Phase = "registry" // handle lookup
	PhaseTransfer Phase = "transfer" // pixel and buffer copies
	PhaseDispatch Phase = "dispatch" // entry point resolution
	PhaseEngine   Phase = "engine"   // engine-reported failures
	PhaseInit     Phase = "init"     // bridge and engine startup
	PhaseMessage  Phase = "message"  // message channel decoding
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseRuntime  Phase = "runtime"  // wasm host module
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOwnership      Kind = "ownership"
	KindEngine         Kind = "engine"
	KindMissingMethod  Kind = "missing_method"
	KindAllocation     Kind = "allocation"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	// Engine errors carry the cause text as Detail already.
	if e.Cause != nil && e.Cause.Error() != e.Detail {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnsupportedType creates an error for a host value with no engine counterpart
func UnsupportedType(path []string, v any) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: fmt.Sprintf("%T", v),
		Detail: "unsupported value type",
		Value:  v,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// Ownership creates an error for releasing a value through the wrong path
func Ownership(detail string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindOwnership,
		Detail: detail,
	}
}

// Missing creates a registry miss for a handle of the given category
func Missing(category string, handle uint32) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s handle %d not found", category, handle),
		Value:  handle,
	}
}

// Engine wraps an engine-reported failure, keeping the engine's message verbatim
func Engine(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindEngine,
		Path:   []string{op},
		Detail: cause.Error(),
		Cause:  cause,
	}
}

// Init creates an initialization failure; the instance stays unusable
func Init(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindEngine,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingMethodsError is returned when the host context lacks required methods
type MissingMethodsError struct {
	Context string
	Methods []string
}

// NewMissingMethodsError creates an error for the given host context kind
func NewMissingMethodsError(context string, methods []string) *MissingMethodsError {
	return &MissingMethodsError{
		Context: context,
		Methods: append([]string(nil), methods...),
	}
}

func (e *MissingMethodsError) Error() string {
	if len(e.Methods) == 0 {
		return "[init] missing_method: no methods specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s context is missing %d method(s):", e.Context, len(e.Methods)))
	for _, m := range e.Methods {
		b.WriteString("\n  - ")
		b.WriteString(m)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingMethodsError) Is(target error) bool {
	_, ok := target.(*MissingMethodsError)
	return ok
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
