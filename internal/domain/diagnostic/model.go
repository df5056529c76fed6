package diagnostic

import (
	"time"

	"github.com/google/uuid"
)

// Diagnostic is one recorded classification outcome. DiagnosisID is the
// externally visible identifier ("diag-" prefix plus a UUID); ImageID ties
// the record back to the upload that produced it.
type Diagnostic struct {
	ID              uuid.UUID `json:"id"`
	DiagnosisID     string    `json:"diagnosisID"`
	ImageID         string    `json:"imageID"`
	Result          string    `json:"result"`
	ConfidenceScore float64   `json:"confidenceScore"`
	HeatmapPath     string    `json:"heatmapPath,omitempty"`
	DoctorName      string    `json:"doctorName"`
	PatientName     string    `json:"patientName"`
	PatientID       string    `json:"patientID"`
	DateDiagnosed   time.Time `json:"dateDiagnosed"`
}
