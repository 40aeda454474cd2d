// Package rendererr defines the renderer's error taxonomy.
//
// All errors the renderer core returns to a caller are (or wrap) an
// *Error with one of the Kind values below. Programmer-error
// preconditions — nil parameters, calling the renderer out of order —
// are not represented here; those panic at the call site instead, in
// the style the rest of this module uses for caller bugs.
package rendererr

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// InvalidData means a parameter violated a documented invariant:
	// a range, a parity requirement, or a dependency that must already
	// be loaded.
	InvalidData Kind = iota
	// NotFound means a named asset was referenced but is not loaded.
	NotFound
	// AlreadyExists means an insertion targeted a path already present
	// in the registry.
	AlreadyExists
	// GraphicsAPIError means the GPU/driver reported an error. These
	// are fatal: they indicate a programmer error in the renderer
	// rather than a recoverable condition.
	GraphicsAPIError
	// SwapchainOutOfDate means the presentation surface was
	// invalidated (resize, DPI change) and must be rebuilt before the
	// next present can succeed. Non-fatal.
	SwapchainOutOfDate
)

func (k Kind) String() string {
	switch k {
	case InvalidData:
		return "InvalidData"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case GraphicsAPIError:
		return "GraphicsAPIError"
	case SwapchainOutOfDate:
		return "SwapchainOutOfDate"
	default:
		return "Unknown"
	}
}

// Error is the renderer's structured error type. Backend is only
// populated for GraphicsAPIError.
type Error struct {
	Kind    Kind
	Backend string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Backend, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, rendererr.InvalidData) style checks are not available
// directly — callers compare Kind via errors.As instead. Is exists so
// a bare Kind sentinel comparison (errors.Is(err, SomeKindError)) also
// works against a constructed Error of the same kind with no message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// InvalidDataf builds an InvalidData error from a format string.
func InvalidDataf(format string, args ...any) *Error {
	return &Error{Kind: InvalidData, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error from a format string.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExistsf builds an AlreadyExists error from a format string.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Kind: AlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// GraphicsAPIErrorf builds a GraphicsAPIError wrapping cause, tagged
// with the backend name that produced it.
func GraphicsAPIErrorf(backend string, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    GraphicsAPIError,
		Backend: backend,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// SwapchainOutOfDateErr is the shared SwapchainOutOfDate value; it
// carries no per-call detail so callers may reuse a single instance.
var SwapchainOutOfDateErr = &Error{Kind: SwapchainOutOfDate, Message: "swapchain is out of date and must be rebuilt"}
