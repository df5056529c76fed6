package diagnostic

import (
	"context"
	"errors"
)

// ErrPersistence wraps storage failures so callers can distinguish a failed
// save (after a successful classification) from other errors.
var ErrPersistence = errors.New("diagnostic persistence failed")

type Repository interface {
	Create(ctx context.Context, d *Diagnostic) error
	List(ctx context.Context) ([]*Diagnostic, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Diagnostic, error)
}
