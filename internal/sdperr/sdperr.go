// Package sdperr is the error taxonomy of spec §7: a small Kind enum
// plus a wrapping Error type, following the sentinel-error style of
// pkg/drive/drive.go's ErrNotSupported/ErrDeviceNotSupported rather
// than a hierarchy of custom error types.
package sdperr

import "fmt"

// Kind classifies why an operation failed, independent of the
// human-readable message, so the Driver can map it to an exit code
// and decide propagation (spec §7's "propagation policy").
type Kind int

const (
	KindNone Kind = iota
	KindSyntax
	KindContradict
	KindNotFound
	KindMalformed
	KindTransportInvalidOp
	KindTransportIllegalRequest
	KindTransportPageControlNotSupported
	KindTransportNotReady
	KindTransportUnitAttention
	KindTransportAbortedCommand
	KindIO
	KindMemory
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindContradict:
		return "contradict"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	case KindTransportInvalidOp:
		return "transport_invalid_op"
	case KindTransportIllegalRequest:
		return "transport_illegal_request"
	case KindTransportPageControlNotSupported:
		return "transport_page_control_not_supported"
	case KindTransportNotReady:
		return "transport_not_ready"
	case KindTransportUnitAttention:
		return "transport_unit_attention"
	case KindTransportAbortedCommand:
		return "transport_aborted_command"
	case KindIO:
		return "io"
	case KindMemory:
		return "memory"
	default:
		return "none"
	}
}

// ExitCode maps a Kind to the process exit code the Driver returns,
// following spec §6's "positive values taken from the transport
// library's category constants" without hardcoding sg3_utils' exact
// numbers (this is a from-scratch implementation, not a wire-compatible
// reimplementation of them).
func (k Kind) ExitCode() int {
	switch k {
	case KindNone:
		return 0
	case KindSyntax, KindContradict:
		return 1
	case KindNotFound:
		return 2
	case KindMalformed:
		return 3
	case KindTransportInvalidOp:
		return 4
	case KindTransportIllegalRequest:
		return 5
	case KindTransportNotReady:
		return 6
	case KindTransportUnitAttention:
		return 7
	case KindTransportAbortedCommand:
		return 8
	case KindIO:
		return 9
	case KindMemory:
		return 10
	default:
		return 1
	}
}

// Error wraps an underlying cause with a Kind and an operation label
// ("MODE SENSE(10)", "MODE SELECT(6)") for the single diagnostic line
// spec §7 requires on failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error wrapping err; Unwrap exposes it so errors.Is/As
// keep working against the original sentinel.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err if it is (or wraps) an
// *Error, else KindNone.
func KindOf(err error) Kind {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind
	}
	return KindNone
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
