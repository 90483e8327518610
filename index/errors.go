package index

import (
	"errors"
	"fmt"
)

var (
	ErrSequencing   = errors.New("labels are not in consecutive order")
	ErrClassRange   = errors.New("class id exceeds the output dimension")
	ErrPrecision    = errors.New("class id does not fit the class id storage type")
	ErrDuplicateKey = errors.New("duplicate utterance key")
	ErrUnknownKey   = errors.New("unknown key")
	ErrOutOfRange   = errors.New("out of range")
)

// IngestError reports which utterance, and which of its segments,
// aborted index construction.
type IngestError struct {
	Source  string // label file the utterance came from, if known
	Key     string
	Segment int // -1 when the error is not tied to a segment
	Err     error
}

func (e *IngestError) Error() string {
	msg := fmt.Sprintf("utterance %q", e.Key)
	if e.Segment >= 0 {
		msg += fmt.Sprintf(" segment %d", e.Segment)
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *IngestError) Unwrap() error { return e.Err }
