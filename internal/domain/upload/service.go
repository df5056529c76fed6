// Package upload orchestrates the upload-and-diagnose workflow: resolve the
// patient, classify the stored image, record the outcome, and always remove
// the transient upload.
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retinascan/retinascan/internal/domain/diagnostic"
	"github.com/retinascan/retinascan/internal/domain/patient"
	"github.com/retinascan/retinascan/internal/platform/imagestore"
	"github.com/retinascan/retinascan/internal/platform/inference"
)

// PatientResolver resolves a clinic identifier to a patient record.
type PatientResolver interface {
	GetByPatientID(ctx context.Context, patientID string) (*patient.Patient, error)
}

// Recorder persists classification outcomes.
type Recorder interface {
	Record(ctx context.Context, p *patient.Patient, res *inference.Result, doctorName, imageID string) (*diagnostic.Diagnostic, error)
}

// Outcome is the result of one completed diagnose workflow.
type Outcome struct {
	Diagnostic *diagnostic.Diagnostic
	Patient    *patient.Patient
}

type Service struct {
	patients   PatientResolver
	classifier inference.Classifier
	recorder   Recorder
	logger     zerolog.Logger
}

func NewService(patients PatientResolver, classifier inference.Classifier, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		patients:   patients,
		classifier: classifier,
		recorder:   recorder,
		logger:     logger,
	}
}

// Diagnose runs the full workflow for one uploaded image. The service takes
// ownership of img and releases it on every path, success or failure. The
// patient is resolved before the classifier is invoked, so an unknown
// identifier never costs an inference call.
func (s *Service) Diagnose(ctx context.Context, patientID string, img *imagestore.StoredImage, doctorName string) (*Outcome, error) {
	defer func() {
		if err := img.Release(); err != nil {
			s.logger.Warn().Err(err).Str("image_id", img.ID).Msg("failed to remove uploaded image")
		}
	}()

	p, err := s.patients.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve patient %s: %w", patientID, err)
	}

	data, err := img.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}

	res, err := s.classifier.Classify(ctx, data)
	if err != nil {
		var infErr *inference.Error
		if errors.As(err, &infErr) {
			s.logger.Error().
				Str("image_id", img.ID).
				Str("patient_id", p.PatientID).
				Bool("retryable", infErr.Retryable).
				Str("detail", infErr.Detail).
				Msg("inference failed")
		}
		return nil, err
	}

	d, err := s.recorder.Record(ctx, p, res, doctorName, img.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("image_id", img.ID).
			Str("patient_id", p.PatientID).
			Msg("failed to record diagnostic")
		return nil, err
	}

	s.logger.Info().
		Str("diagnosis_id", d.DiagnosisID).
		Str("patient_id", p.PatientID).
		Str("result", d.Result).
		Msg("diagnostic recorded")

	return &Outcome{Diagnostic: d, Patient: p}, nil
}
