package hooklib

// Error kinds returned by registration, resolution and configuration. They
// are wrapped with context; use errors.Cause to compare.
type Error int

const (
	_ Error = iota
	// The timing is neither Pre nor Post.
	InvalidTimingError
	// A target identifier is empty or not a dotted path of identifiers.
	MalformedTargetError
	// The callback does not have the shape required by its timing.
	CallbackTypeError
	// The repeat-suppression policy has a non-positive threshold.
	InvalidThresholdError
	// The target identifier does not name a function field of the root.
	TargetNotFoundError
	// The parameter schema of a target does not match its signature.
	SchemaError
	// The root handed to New is not a pointer to a struct.
	InvalidRootError
	// The output channel is not one of the accepted values.
	InvalidOutputError
)

func (e Error) Error() string {
	switch e {
	case InvalidTimingError:
		return "invalid hint timing"
	case MalformedTargetError:
		return "malformed target identifier"
	case CallbackTypeError:
		return "unexpected callback type"
	case InvalidThresholdError:
		return "invalid repeat threshold"
	case TargetNotFoundError:
		return "target not found"
	case SchemaError:
		return "invalid parameter schema"
	case InvalidRootError:
		return "invalid instrumentation root"
	case InvalidOutputError:
		return "invalid output channel"
	default:
		return "unknown"
	}
}

// Static assertion that `Error` implements interface `error`
var _ error = Error(0)
