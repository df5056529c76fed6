package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic patient record. PatientID is the human-assigned
// clinic identifier (e.g. "P-100") and is unique; ID is the internal key.
type Patient struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      string     `json:"patientID"`
	Name           string     `json:"name"`
	Age            int        `json:"age"`
	Gender         string     `json:"gender"`
	MedicalHistory string     `json:"medicalHistory"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
