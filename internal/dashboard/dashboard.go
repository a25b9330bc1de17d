package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hemam-service/internal/calendar"
	"hemam-service/internal/models"
	"hemam-service/internal/recordstore"
	"hemam-service/internal/timeutil"
	"hemam-service/pkg/response"
)

// DoctorDashboard is the read-only day view for one doctor.
type DoctorDashboard struct {
	Doctor               *models.Doctor
	TodayAppointments    []models.ScheduleSlot
	UpcomingAppointments []models.ScheduleSlot
}

// Aggregator composes the slot store and the record store. It mutates nothing
// and keeps no cache; every call recomputes from the slot store.
type Aggregator struct {
	slots   *calendar.Store
	records recordstore.Store
}

func NewAggregator(slots *calendar.Store, records recordstore.Store) *Aggregator {
	return &Aggregator{slots: slots, records: records}
}

// GetDoctorDashboard returns today's slots and the booked future slots for the
// doctor. An unknown doctor yields a nil Doctor, not an error.
func (a *Aggregator) GetDoctorDashboard(ctx context.Context, doctorID string, today time.Time) (DoctorDashboard, error) {
	const op = "dashboard.Aggregator.GetDoctorDashboard"

	var dash DoctorDashboard

	doctor, err := a.records.GetDoctor(ctx, doctorID)
	if err != nil && !errors.Is(err, response.ErrNotFound) {
		return dash, fmt.Errorf("%s: %w: %w", op, response.ErrRecordStore, err)
	}
	dash.Doctor = doctor

	todayDate := timeutil.TruncateToDate(today, today.Location())
	for _, slot := range a.slots.All(doctorID) {
		switch {
		case timeutil.SameDate(slot.Date, todayDate):
			dash.TodayAppointments = append(dash.TodayAppointments, slot)
		case slot.Date.After(todayDate) && !slot.Available:
			dash.UpcomingAppointments = append(dash.UpcomingAppointments, slot)
		}
	}

	return dash, nil
}
