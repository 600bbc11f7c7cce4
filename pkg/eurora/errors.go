// Package eurora holds cross-cutting types shared by every Eurora core
// package: the error-kind taxonomy and nothing else. Keeping it tiny avoids
// an import-cycle magnet.
package eurora

import "errors"

// Kind classifies an error for callers that need to decide whether to retry,
// log-and-continue, or surface to a user. It mirrors the seven error kinds
// the core distinguishes; it is not a replacement for Go's normal wrapped
// errors and should be attached with WithKind, not returned bare.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindTransport
	KindProtocol
	KindStrategy
	KindStorage
	KindCrypto
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindStrategy:
		return "strategy"
	case KindStorage:
		return "storage"
	case KindCrypto:
		return "crypto"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// kindError wraps an underlying error with a Kind, preserving Unwrap so
// errors.Is/As keep working against sentinels beneath it.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.kind.String() + ": " + e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind tags err with a Kind for classification at a service boundary.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf extracts the Kind attached by WithKind, or KindUnknown if none.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// ErrDecryptFailed is the single generic crypto-kind error returned by the
// Secret Store on any decrypt failure (wrong key or corruption). Callers
// must not be able to distinguish the two cases from the error alone.
var ErrDecryptFailed = errors.New("failed to decrypt secret store (wrong key or corrupted file)")

// ErrAlreadyInitialized is returned by components with once-per-process
// initialization (the Secret Store's Init) on a second init. The Strategy
// Registry's Initialize is idempotent and does not return it.
var ErrAlreadyInitialized = errors.New("already initialized")

// ErrNotFound indicates a queried handle, activity, or asset does not exist.
// Reads treat this as "return zero value", never an error; only deletes of
// things expected to exist surface it.
var ErrNotFound = errors.New("not found")
