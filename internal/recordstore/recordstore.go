package recordstore

import (
	"context"
	"time"

	"hemam-service/internal/models"
)

// Store is the boundary to the patient/doctor record system. Lookups for
// unknown ids report response.ErrNotFound rather than failing hard; the
// engine only ever reads references and writes the next-appointment field.
type Store interface {
	GetPatient(ctx context.Context, patientID string) (*models.Patient, error)
	GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error)
	// SetPatientNextAppointment updates the one patient field the engine owns;
	// a nil date clears it.
	SetPatientNextAppointment(ctx context.Context, patientID string, date *time.Time) error
}
