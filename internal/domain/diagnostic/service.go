package diagnostic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/retinascan/retinascan/internal/domain/patient"
	"github.com/retinascan/retinascan/internal/platform/inference"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record persists one classification outcome for a patient, assigning a
// unique diagnosis identifier.
func (s *Service) Record(ctx context.Context, p *patient.Patient, res *inference.Result, doctorName, imageID string) (*Diagnostic, error) {
	if p == nil {
		return nil, fmt.Errorf("patient is required")
	}
	if res == nil {
		return nil, fmt.Errorf("classification result is required")
	}

	d := &Diagnostic{
		DiagnosisID:     "diag-" + uuid.New().String(),
		ImageID:         imageID,
		Result:          res.PredictedClass,
		ConfidenceScore: res.ConfidenceScore,
		HeatmapPath:     res.Heatmap,
		DoctorName:      doctorName,
		PatientName:     p.Name,
		PatientID:       p.PatientID,
		DateDiagnosed:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*Diagnostic, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Diagnostic, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
