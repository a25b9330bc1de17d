package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hemam-service/internal/models"
	"hemam-service/internal/recordstore"
	"hemam-service/internal/timeutil"
	"hemam-service/pkg/response"
)

// defaultDurationMinutes is applied when a recurring request leaves the
// duration unset.
const defaultDurationMinutes = 60

// Scheduler enforces the booking invariants on top of the slot Store and keeps
// the record store's next-appointment field in step with bookings.
type Scheduler struct {
	slots   *Store
	records recordstore.Store
}

func NewScheduler(slots *Store, records recordstore.Store) *Scheduler {
	return &Scheduler{slots: slots, records: records}
}

// BookAppointment claims the slot for the patient. A missing or already-taken
// slot is a normal outcome (ok=false, no error). When the claim succeeds the
// patient's next appointment is updated in the record store; a record-store
// failure after the claim is surfaced alongside ok=true so callers can alert,
// the booking itself stands.
func (s *Scheduler) BookAppointment(ctx context.Context, patientID, doctorID string, date time.Time, startTime string) (bool, error) {
	const op = "calendar.Scheduler.BookAppointment"

	if patientID == "" || doctorID == "" {
		return false, fmt.Errorf("%s: %w", op, response.ErrInvalidInput)
	}
	if _, _, err := timeutil.ParseClock(startTime); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, ok := s.slots.Claim(doctorID, date, startTime, patientID)
	if !ok {
		return false, nil
	}

	next := timeutil.TruncateToDate(date, date.Location())
	if err := s.records.SetPatientNextAppointment(ctx, patientID, &next); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return true, nil
		}
		return true, fmt.Errorf("%s: %w: %w", op, response.ErrRecordStore, err)
	}

	return true, nil
}

// CancelAppointment releases a booked slot back to available and clears the
// patient's next appointment when it pointed at the cancelled date. The freed
// slot (as it was booked) is returned so callers can drop queued reminders.
func (s *Scheduler) CancelAppointment(ctx context.Context, doctorID string, date time.Time, startTime string) (models.ScheduleSlot, bool, error) {
	const op = "calendar.Scheduler.CancelAppointment"

	if _, _, err := timeutil.ParseClock(startTime); err != nil {
		return models.ScheduleSlot{}, false, fmt.Errorf("%s: %w", op, err)
	}

	booked, ok := s.slots.Release(doctorID, date, startTime)
	if !ok {
		return models.ScheduleSlot{}, false, nil
	}

	if booked.PatientID == nil {
		return booked, true, nil
	}

	patient, err := s.records.GetPatient(ctx, *booked.PatientID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return booked, true, nil
		}
		return booked, true, fmt.Errorf("%s: %w: %w", op, response.ErrRecordStore, err)
	}

	if patient.NextAppointment != nil && timeutil.SameDate(*patient.NextAppointment, booked.Date) {
		if err := s.records.SetPatientNextAppointment(ctx, *booked.PatientID, nil); err != nil && !errors.Is(err, response.ErrNotFound) {
			return booked, true, fmt.Errorf("%s: %w: %w", op, response.ErrRecordStore, err)
		}
	}

	return booked, true, nil
}

// CreateRecurringAppointment expands the request into treatment slots, one per
// cadence step from StartDate through EndDate inclusive, each pre-assigned to
// the patient. Slots whose identity is already occupied are skipped, never
// overwritten. Validation happens before any slot is written.
func (s *Scheduler) CreateRecurringAppointment(ctx context.Context, req models.RecurringSeriesRequest) (created, skipped int, err error) {
	const op = "calendar.Scheduler.CreateRecurringAppointment"

	if req.DoctorID == "" || req.PatientID == "" {
		return 0, 0, fmt.Errorf("%s: %w", op, response.ErrInvalidInput)
	}

	switch req.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	default:
		return 0, 0, fmt.Errorf("%s: frequency %q: %w", op, req.Frequency, response.ErrInvalidInput)
	}

	start := timeutil.TruncateToDate(req.StartDate, req.StartDate.Location())
	end := timeutil.TruncateToDate(req.EndDate, req.EndDate.Location())
	if end.Before(start) {
		return 0, 0, fmt.Errorf("%s: end_date before start_date: %w", op, response.ErrInvalidInput)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}

	endTime, dayOffset, err := timeutil.CalculateEndTime(req.StartTime, duration)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if dayOffset > 0 {
		return 0, 0, fmt.Errorf("%s: slot crosses midnight: %w", op, response.ErrInvalidInput)
	}

	patientID := req.PatientID
	for current := start; !current.After(end); current = advance(current, req.Frequency) {
		slot := models.ScheduleSlot{
			DoctorID:  req.DoctorID,
			Date:      current,
			StartTime: req.StartTime,
			EndTime:   endTime,
			Available: false,
			PatientID: &patientID,
			Kind:      models.SlotTreatment,
		}

		if insertErr := s.slots.Insert(slot); insertErr != nil {
			if errors.Is(insertErr, response.ErrSlotConflict) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("%s: %w", op, insertErr)
		}
		created++
	}

	return created, skipped, nil
}

func advance(date time.Time, freq models.Frequency) time.Time {
	switch freq {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	default:
		return date.AddDate(0, 1, 0)
	}
}
