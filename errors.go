package e57

import "fmt"

// ErrorKind classifies the broad category of an Error.
type ErrorKind int

const (
	// KindIO is an underlying read/seek failure.
	KindIO ErrorKind = iota
	// KindInvalidFile is a structural violation of the file format.
	KindInvalidFile
	// KindUnimplemented is a recognized but unsupported construct.
	KindUnimplemented
	// KindInternal is an invariant the decoder should have guaranteed.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidFile:
		return "invalid_file"
	case KindUnimplemented:
		return "unimplemented"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Reason enumerates the named InvalidFile sub-kinds.
type Reason string

const (
	ReasonCRCMismatch        Reason = "crc_mismatch"
	ReasonPrototypeMismatch  Reason = "prototype_mismatch"
	ReasonInvertedRange      Reason = "inverted_range"
	ReasonRangeTooLarge      Reason = "range_too_large"
	ReasonPrematureEnd       Reason = "premature_end"
	ReasonMalformedHeader    Reason = "malformed_header"
	ReasonMalformedDirectory Reason = "malformed_directory"
)

// Error is the user-visible failure type for this module: a Kind, an
// optional finer Reason, a human-readable context line, and the underlying
// cause if any.
type Error struct {
	Kind    ErrorKind
	Reason  Reason // only meaningful when Kind == KindInvalidFile
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s (%s): %v", e.Context, e.Kind, e.Reason, e.Err)
		}
		return fmt.Sprintf("%s: %s (%s)", e.Context, e.Kind, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Context, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func ioErr(context string, cause error) error {
	return &Error{Kind: KindIO, Context: context, Err: cause}
}

func invalidFile(reason Reason, context string) error {
	return &Error{Kind: KindInvalidFile, Reason: reason, Context: context}
}

func invalidFileWrap(reason Reason, context string, cause error) error {
	return &Error{Kind: KindInvalidFile, Reason: reason, Context: context, Err: cause}
}

func unimplemented(context string) error {
	return &Error{Kind: KindUnimplemented, Context: context}
}

func internalErr(context string) error {
	return &Error{Kind: KindInternal, Context: context}
}

// reasoner is implemented by lower-level packages (pointcloud, section,
// internal/paged) that can't construct an *Error directly without an
// import cycle; wrapFromReason recovers the intended InvalidFile sub-kind.
type reasoner interface {
	InvalidFileReason() string
}

// unimplementer is implemented by lower-level errors that represent a
// recognized-but-unsupported construct (e.g. an Index or Ignored packet)
// rather than a malformed file; wrapFromReason surfaces these as
// KindUnimplemented instead of falling back to KindIO.
type unimplementer interface {
	UnimplementedFeature() string
}

// wrapFromReason wraps a lower-level error as an *Error, preserving its
// InvalidFile sub-reason when the error implements reasoner, surfacing it as
// KindUnimplemented when it implements unimplementer, and otherwise treating
// it as an opaque IO failure.
func wrapFromReason(context string, cause error) error {
	if u, ok := cause.(unimplementer); ok {
		return unimplemented(context + ": " + u.UnimplementedFeature())
	}
	if r, ok := cause.(reasoner); ok {
		return invalidFileWrap(Reason(r.InvalidFileReason()), context, cause)
	}
	return ioErr(context, cause)
}
