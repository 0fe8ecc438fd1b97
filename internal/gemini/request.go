package gemini

import "github.com/google/uuid"

// Callbacks delivers request lifecycle notifications. Updated may fire from
// the network goroutine at any rate; the consumer is expected to coalesce.
// Finished fires exactly once, after the final Updated.
type Callbacks struct {
	Updated  func(id uuid.UUID)
	Finished func(id uuid.UUID)
}

// Request is one in-flight network exchange. At most one Request is owned
// per document session; notifications for a superseded request are
// identity-checked against ID and discarded.
type Request interface {
	// ID is the request's identity token, stable for its lifetime.
	ID() uuid.UUID

	// URL is the target the request was submitted for.
	URL() string

	// Cancel aborts the exchange. Safe to call at any time, including after
	// completion; no callbacks fire after Cancel returns.
	Cancel()

	// Finished reports whether the exchange has completed (successfully or
	// not). The body no longer changes once finished.
	Finished() bool

	// Status returns the parsed status code, or StatusNone until the
	// response header has arrived.
	Status() StatusCode

	// LockResponse returns the response under a read guard. The release
	// function must be called before returning control to the event loop;
	// the network goroutine does not append body bytes while it is held.
	LockResponse() (*Response, func())

	// CertificateInfo returns certificate metadata captured from the
	// connection, zero until the handshake completes.
	CertificateInfo() CertInfo
}

// Fetcher starts network exchanges. The production implementation is
// Client; tests substitute a scripted fake.
type Fetcher interface {
	Fetch(url string, cb Callbacks) Request
}
