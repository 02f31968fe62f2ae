package model

import (
	"errors"
	"fmt"
)

// Error taxonomy of a batch run. Only ErrInputNotFound is fatal; the rest
// skip one record and the batch continues. "No candidate" is not an error.
var (
	// ErrInputNotFound indicates the BOM file (or catalog dir) is missing or unreadable.
	ErrInputNotFound = errors.New("input not found")

	// ErrUnparsableRecord indicates a record whose values could not be decoded.
	ErrUnparsableRecord = errors.New("unparsable record")

	// ErrMissingIdentifier indicates a record without an order code or manufacturer.
	ErrMissingIdentifier = errors.New("missing identifier")

	// ErrUnknownKind indicates the component kind could not be determined.
	ErrUnknownKind = errors.New("unknown component kind")

	// ErrUnsupportedFile indicates an input file format we cannot read.
	ErrUnsupportedFile = errors.New("unsupported file")
)

// RecordError ties a per-record failure to where it came from.
type RecordError struct {
	Source    string // file name
	Index     int    // 1-based record or row number
	OrderCode string
	Err       error
}

func (e *RecordError) Error() string {
	if e.OrderCode != "" {
		return fmt.Sprintf("%s #%d (%s): %v", e.Source, e.Index, e.OrderCode, e.Err)
	}
	return fmt.Sprintf("%s #%d: %v", e.Source, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
