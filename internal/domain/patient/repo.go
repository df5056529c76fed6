package patient

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no patient matches the lookup.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicateID is returned when a clinic identifier is already taken.
	ErrDuplicateID = errors.New("patient identifier already exists")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	// Lookup matches the term against the clinic identifier or the exact
	// patient name, returning ErrNotFound on a miss.
	Lookup(ctx context.Context, term string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
}
