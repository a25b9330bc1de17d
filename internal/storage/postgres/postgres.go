package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"hemam-service/internal/models"
	"hemam-service/pkg/response"
)

// Storage is the postgres-backed patient/doctor record store. The scheduling
// engine only reads references from it and writes next_appointment.
type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) GetPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	const op = "storage.postgres.GetPatient"

	var patient models.Patient

	err := s.db.QueryRowContext(ctx,
		`SELECT patient_id, name, phone, email, doctor_id, last_visit, next_appointment
		 FROM patients WHERE patient_id=$1`, patientID).
		Scan(&patient.PatientID, &patient.Name, &patient.Phone, &patient.Email,
			&patient.DoctorID, &patient.LastVisit, &patient.NextAppointment)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &patient, nil
}

func (s *Storage) GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	const op = "storage.postgres.GetDoctor"

	var doctor models.Doctor

	err := s.db.QueryRowContext(ctx,
		`SELECT doctor_id, name, specialty FROM doctors WHERE doctor_id=$1`, doctorID).
		Scan(&doctor.DoctorID, &doctor.Name, &doctor.Specialty)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &doctor, nil
}

func (s *Storage) SetPatientNextAppointment(ctx context.Context, patientID string, date *time.Time) error {
	const op = "storage.postgres.SetPatientNextAppointment"

	res, err := s.db.ExecContext(ctx,
		`UPDATE patients SET next_appointment=$1 WHERE patient_id=$2`, date, patientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
