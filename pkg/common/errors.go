package common

import "github.com/cockroachdb/errors"

var (
	// ErrExtraction covers any model-call failure or non-conforming model
	// output. Always recoverable at the per-message level.
	ErrExtraction = errors.New("extraction failed")

	// ErrMailboxAuth means the token is missing, expired or rejected.
	// Fatal to the current sync; the held token is cleared.
	ErrMailboxAuth = errors.New("mailbox authorization failed")

	// ErrMailboxFetch is a network or provider error during listing.
	// Per-message detail errors are absorbed and never carry this.
	ErrMailboxFetch = errors.New("mailbox fetch failed")

	// ErrPersistence is a storage write failure. Surfaced as a warning,
	// never silently dropped.
	ErrPersistence = errors.New("persistence failed")

	// ErrSyncInProgress rejects a second sync while one is running.
	ErrSyncInProgress = errors.New("sync already in progress")
)
