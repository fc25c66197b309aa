// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the value path, the Go type involved, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindUnsupported).
//		Path("options", "volume").
//		GoType("chan int").
//		Detail("unsupported value type").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Missing("texture", 7)
//	err := errors.Engine("set_property", engineErr)
//
// Engine errors keep the engine's own message as Detail and the engine error
// as Cause, so errors.As recovers the numeric status.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
