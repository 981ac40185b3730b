// Package selection chooses which content records fit on a one-page resume.
package selection

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-packer/internal/types"
)

// ErrMalformedRecord is the sentinel matched by every MalformedRecordError
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports the first record that makes a batch unrankable.
// Index is the position within the collection of the given Kind.
type MalformedRecordError struct {
	Kind   types.Kind
	Index  int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record %d: %s: %s", e.Kind, e.Index, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// CostModelError represents an unusable cost configuration
type CostModelError struct {
	Message string
}

func (e *CostModelError) Error() string {
	return fmt.Sprintf("invalid cost model: %s", e.Message)
}
