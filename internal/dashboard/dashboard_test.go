package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemam-service/internal/calendar"
	"hemam-service/internal/models"
	"hemam-service/pkg/response"
)

type fakeRecords struct {
	doctors map[string]*models.Doctor
	err     error
}

func (f *fakeRecords) GetPatient(_ context.Context, _ string) (*models.Patient, error) {
	return nil, response.ErrNotFound
}

func (f *fakeRecords) GetDoctor(_ context.Context, doctorID string) (*models.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	doctor, ok := f.doctors[doctorID]
	if !ok {
		return nil, response.ErrNotFound
	}
	return doctor, nil
}

func (f *fakeRecords) SetPatientNextAppointment(_ context.Context, _ string, _ *time.Time) error {
	return response.ErrNotFound
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slot(day time.Time, start string, available bool, patientID *string) models.ScheduleSlot {
	return models.ScheduleSlot{
		DoctorID:  "doc-1",
		Date:      day,
		StartTime: start,
		EndTime:   start[:2] + ":59",
		Available: available,
		PatientID: patientID,
		Kind:      models.SlotTreatment,
	}
}

func TestGetDoctorDashboard(t *testing.T) {
	slots := calendar.NewStore()
	records := &fakeRecords{doctors: map[string]*models.Doctor{
		"doc-1": {DoctorID: "doc-1", Name: "Dr. Sara", Specialty: "physio"},
	}}
	aggregator := NewAggregator(slots, records)

	today := date(2024, 1, 10)
	patientID := "pat-1"

	// Booked and free today, booked in 5 days, free future slot and a booked
	// past slot; only the booked future slot counts as upcoming.
	slots.ReplaceSchedule("doc-1", []models.ScheduleSlot{
		slot(today, "09:00", false, &patientID),
		slot(today, "10:00", true, nil),
		slot(date(2024, 1, 15), "09:00", false, &patientID),
		slot(date(2024, 1, 16), "09:00", true, nil),
		slot(date(2024, 1, 5), "09:00", false, &patientID),
	})

	dash, err := aggregator.GetDoctorDashboard(context.Background(), "doc-1", today)
	require.NoError(t, err)

	require.NotNil(t, dash.Doctor)
	assert.Equal(t, "Dr. Sara", dash.Doctor.Name)

	require.Len(t, dash.TodayAppointments, 2)
	assert.Equal(t, "09:00", dash.TodayAppointments[0].StartTime)
	assert.Equal(t, "10:00", dash.TodayAppointments[1].StartTime)

	require.Len(t, dash.UpcomingAppointments, 1)
	assert.Equal(t, date(2024, 1, 15), dash.UpcomingAppointments[0].Date)
}

func TestGetDoctorDashboardUnknownDoctor(t *testing.T) {
	aggregator := NewAggregator(calendar.NewStore(), &fakeRecords{})

	dash, err := aggregator.GetDoctorDashboard(context.Background(), "ghost", date(2024, 1, 10))
	require.NoError(t, err)
	assert.Nil(t, dash.Doctor)
	assert.Empty(t, dash.TodayAppointments)
	assert.Empty(t, dash.UpcomingAppointments)
}

func TestGetDoctorDashboardRecordStoreFailure(t *testing.T) {
	aggregator := NewAggregator(calendar.NewStore(), &fakeRecords{err: context.DeadlineExceeded})

	_, err := aggregator.GetDoctorDashboard(context.Background(), "doc-1", date(2024, 1, 10))
	assert.ErrorIs(t, err, response.ErrRecordStore)
}
