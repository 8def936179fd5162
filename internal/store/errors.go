package store

import (
	"fmt"

	"github.com/seoaudit/engine/pkg/failure"
)

// StoreErrorCause names the Cause field of a StoreError, following the
// teacher's storage.StorageErrorCause table.
type StoreErrorCause string

const (
	CauseWriteFailure  StoreErrorCause = "write failed"
	CauseReadFailure   StoreErrorCause = "read failed"
	CauseHashFailure   StoreErrorCause = "hash computation failed"
	CauseDecodeFailure StoreErrorCause = "decode failed"
)

// StoreError is JSONFileStore's failure.ClassifiedError, mirroring the
// teacher's StorageError: a Cause for observability plus a Retryable
// bit a caller can act on without string-matching the message.
type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
	Path      string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %s", e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
