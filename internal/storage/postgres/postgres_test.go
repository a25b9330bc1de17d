package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemam-service/pkg/response"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Storage{db: db}, mock
}

func TestGetPatient(t *testing.T) {
	storage, mock := newMockStorage(t)

	next := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"patient_id", "name", "phone", "email", "doctor_id", "last_visit", "next_appointment",
	}).AddRow("pat-1", "Ahmed", "+9665xxxxxxx", nil, "doc-1", nil, next)

	mock.ExpectQuery(`SELECT patient_id, name, phone, email, doctor_id, last_visit, next_appointment`).
		WithArgs("pat-1").
		WillReturnRows(rows)

	patient, err := storage.GetPatient(context.Background(), "pat-1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", patient.Name)
	require.NotNil(t, patient.NextAppointment)
	assert.Equal(t, next, *patient.NextAppointment)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPatientNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT patient_id`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{
			"patient_id", "name", "phone", "email", "doctor_id", "last_visit", "next_appointment",
		}))

	_, err := storage.GetPatient(context.Background(), "ghost")
	assert.ErrorIs(t, err, response.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDoctor(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT doctor_id, name, specialty FROM doctors`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"doctor_id", "name", "specialty"}).
			AddRow("doc-1", "Dr. Sara", "physio"))

	doctor, err := storage.GetDoctor(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sara", doctor.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPatientNextAppointment(t *testing.T) {
	storage, mock := newMockStorage(t)

	next := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE patients SET next_appointment`).
		WithArgs(next, "pat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.SetPatientNextAppointment(context.Background(), "pat-1", &next)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPatientNextAppointmentClears(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec(`UPDATE patients SET next_appointment`).
		WithArgs(nil, "pat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.SetPatientNextAppointment(context.Background(), "pat-1", nil)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPatientNextAppointmentNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	next := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE patients SET next_appointment`).
		WithArgs(next, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.SetPatientNextAppointment(context.Background(), "ghost", &next)
	assert.ErrorIs(t, err, response.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
