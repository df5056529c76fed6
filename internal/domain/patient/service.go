package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true, "unknown": true,
}

// Register creates a new patient after validating required fields and
// checking the clinic identifier is not already in use. Identifier, name,
// age, gender, and medical history are all required.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	p.PatientID = strings.TrimSpace(p.PatientID)
	p.Name = strings.TrimSpace(p.Name)
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	p.MedicalHistory = strings.TrimSpace(p.MedicalHistory)

	if p.PatientID == "" {
		return fmt.Errorf("patientID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("age must be between 0 and 150")
	}
	if p.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	if p.MedicalHistory == "" {
		return fmt.Errorf("medicalHistory is required")
	}

	if _, err := s.repo.GetByPatientID(ctx, p.PatientID); err == nil {
		return ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	return s.repo.GetByPatientID(ctx, patientID)
}

// Lookup resolves a search term to a single patient by clinic identifier
// or exact name.
func (s *Service) Lookup(ctx context.Context, term string) (*Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrNotFound
	}
	return s.repo.Lookup(ctx, term)
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}
