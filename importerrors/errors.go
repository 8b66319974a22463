// Package importerrors defines the error taxonomy from spec.md §7: a
// small set of sentinel errors identifying the *kind* of failure, so
// callers can decide on recovery (reject, log-and-continue, roll back)
// without parsing error strings.
package importerrors

import "errors"

// Kind classifies a failure per the seven kinds enumerated in §7.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindLookupMiss       Kind = "lookup_miss"
	KindAdapterTransient Kind = "adapter_transient"
	KindAdapterCapability Kind = "adapter_capability"
	KindPersistence      Kind = "persistence"
	KindCancellation     Kind = "cancellation"
	KindConfiguration    Kind = "configuration"
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	// ErrInvalidInput: empty identifier, empty media types, unknown
	// media type, path outside source base. Recovery: reject at the
	// API boundary, return false, no state change.
	ErrInvalidInput = errors.New("import: invalid input")

	// ErrNotFound: unknown source/import id. Recovery: return false or
	// an empty result.
	ErrNotFound = errors.New("import: not found")

	// ErrAdapterTransient: importer or observer call returned false.
	// Recovery: log at warn/error, continue with other media
	// types/imports where possible.
	ErrAdapterTransient = errors.New("import: adapter call failed")

	// ErrAdapterCapability: a writeback was requested but the adapter
	// declares the capability missing. Recovery: silently no-op,
	// return false to the caller.
	ErrAdapterCapability = errors.New("import: adapter lacks capability")

	// ErrPersistence: repository or handler failure mid-transaction.
	// Recovery: roll back the task's transaction, skip the remaining
	// media types of the affected bucket, continue the pipeline.
	ErrPersistence = errors.New("import: persistence failure")

	// ErrCancelled: user- or manager-requested stop. Recovery: task
	// returns false with no further state change.
	ErrCancelled = errors.New("import: cancelled")

	// ErrConfiguration: malformed Settings XML. Recovery: reject the
	// load, keep previous Settings, surface the error.
	ErrConfiguration = errors.New("import: invalid configuration")
)

// KindOf reports the Kind of err, matching against the sentinel errors
// above via errors.Is. Returns "" if err does not match a known kind.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindLookupMiss
	case errors.Is(err, ErrAdapterTransient):
		return KindAdapterTransient
	case errors.Is(err, ErrAdapterCapability):
		return KindAdapterCapability
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrCancelled):
		return KindCancellation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return ""
	}
}
