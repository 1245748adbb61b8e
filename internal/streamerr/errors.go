// Package streamerr defines the typed error kinds used across the catalog,
// transcode, session and control layers, matching the error taxonomy in
// spec.md §7 (malformed input, resource missing, I/O failure, policy
// violation, external process failure).
package streamerr

import "errors"

// Sentinel errors. Callers compare with errors.Is; wrapping preserves the
// sentinel through %w so request-scoped context can be attached without
// losing the kind.
var (
	// ErrMalformedName is returned by the format registry when a filename
	// does not match the filename grammar in spec.md §6. It is never fatal:
	// callers log and skip the offending file.
	ErrMalformedName = errors.New("malformed filename")

	// ErrNotFound is returned when a requested title/resolution/container
	// combination is not present in the catalog.
	ErrNotFound = errors.New("video not found")

	// ErrBusy is returned when a session attempts a second concurrent
	// stream; the existing stream is left untouched.
	ErrBusy = errors.New("session already streaming")

	// ErrSourceMissing is returned when a transcode job's source file (or a
	// stream's target file) has disappeared from disk between planning and
	// execution.
	ErrSourceMissing = errors.New("source file missing")

	// ErrSessionUnknown is returned when a client_id presented by a peer
	// does not match any registered session.
	ErrSessionUnknown = errors.New("unknown session")

	// ErrPeerMismatch is returned by disconnect when the observed peer
	// address does not match the address recorded at connect time.
	ErrPeerMismatch = errors.New("peer address mismatch")

	// ErrBadRequest is returned for unparseable or unknown control messages.
	ErrBadRequest = errors.New("bad request")
)

// OpError annotates a sentinel with the operation and subject that failed,
// the way a caller would want it logged: "op on subject: kind".
type OpError struct {
	Op      string
	Subject string
	Err     error
}

func (e *OpError) Error() string {
	if e.Subject == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Subject + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// Wrap builds an OpError around one of the sentinels above.
func Wrap(op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Subject: subject, Err: err}
}
