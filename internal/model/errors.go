package model

import (
	"errors"
	"fmt"
)

// DraftTooLargeError reports a draft exceeding the configured maximum
type DraftTooLargeError struct {
	Size  int
	Limit int
}

func (e *DraftTooLargeError) Error() string {
	return fmt.Sprintf("draft too large: %d bytes (limit %d)", e.Size, e.Limit)
}

// ExtractionFailedError reports that claim decomposition failed after all
// retry attempts
type ExtractionFailedError struct {
	Attempts int
	Err      error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("claim extraction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// CorpusUnavailableError reports that the corpus could not be searched or
// read. It is fatal to the run: "could not search" must never degrade to
// "searched and found nothing".
type CorpusUnavailableError struct {
	Op  string // "open", "search", "read_lines"
	Err error
}

func (e *CorpusUnavailableError) Error() string {
	return fmt.Sprintf("corpus unavailable during %s: %v", e.Op, e.Err)
}

func (e *CorpusUnavailableError) Unwrap() error { return e.Err }

// IsCorpusUnavailable reports whether err wraps a CorpusUnavailableError
func IsCorpusUnavailable(err error) bool {
	var ce *CorpusUnavailableError
	return errors.As(err, &ce)
}

// ErrVerificationCancelled reports cooperative cancellation of a run. No
// partial answer is produced for a cancelled run.
var ErrVerificationCancelled = errors.New("verification cancelled")
