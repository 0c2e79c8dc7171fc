package export

import (
	"errors"
	"fmt"
)

// Returned by Exporter.Open when the project doesn't exist. No archive work is done.
var ErrProjectNotFound = errors.New("export: project not found")

// Error raised while writing an archive, after streaming may already have begun.
// Callers can only report it by terminating the stream.
type StreamError struct {
	// Display name of the entry being written. Empty when finalizing.
	Entry string
	// Step that failed: "open", "header", "copy" or "finalize".
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("export: %s archive: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export: %s entry %q: %v", e.Op, e.Entry, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
