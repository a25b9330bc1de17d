package service

import (
	"context"
	"fmt"
	"time"

	"hemam-service/api"
	"hemam-service/internal/calendar"
	"hemam-service/internal/dashboard"
	"hemam-service/internal/lock"
	"hemam-service/internal/messaging"
	"hemam-service/internal/models"
	"hemam-service/internal/observability/metrics"
	"hemam-service/internal/timeutil"
	"hemam-service/pkg/response"
)

const bookingLockTTL = 10 * time.Second

// Service is the orchestration façade the HTTP handlers talk to. It owns the
// cross-instance slot lock and the DTO boundary; the invariants themselves
// live in the calendar and messaging packages.
type Service struct {
	slots      *calendar.Store
	scheduler  *calendar.Scheduler
	queue      *messaging.Queue
	templates  *messaging.TemplateRegistry
	aggregator *dashboard.Aggregator
	locker     lock.Locker
	metrics    *metrics.EngineMetrics
	now        func() time.Time
}

func NewService(
	slots *calendar.Store,
	scheduler *calendar.Scheduler,
	queue *messaging.Queue,
	templates *messaging.TemplateRegistry,
	aggregator *dashboard.Aggregator,
	locker lock.Locker,
	m *metrics.EngineMetrics,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		slots:      slots,
		scheduler:  scheduler,
		queue:      queue,
		templates:  templates,
		aggregator: aggregator,
		locker:     locker,
		metrics:    m,
		now:        now,
	}
}

// Schedule

func (s *Service) GetSchedule(ctx context.Context, doctorID, dateStr string, availableOnly bool) ([]api.Slot, error) {
	const op = "service.GetSchedule"

	date, err := time.Parse(timeutil.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrInvalidInput)
	}

	var slots []models.ScheduleSlot
	if availableOnly {
		slots = s.slots.GetAvailableSlots(doctorID, date)
	} else {
		slots = s.slots.GetSchedule(doctorID, date)
	}

	return toSlotDTOs(slots), nil
}

// ReplaceSchedule bulk-provisions a doctor's calendar. Every payload slot is
// validated before the store is touched; a booked slot without a patient would
// break the calendar invariants and is rejected.
func (s *Service) ReplaceSchedule(ctx context.Context, doctorID string, req *api.ScheduleReplaceRequest) (int, error) {
	const op = "service.ReplaceSchedule"

	slots := make([]models.ScheduleSlot, 0, len(req.Slots))
	for _, payload := range req.Slots {
		slot, err := fromSlotDTO(doctorID, payload)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		slots = append(slots, slot)
	}

	s.slots.ReplaceSchedule(doctorID, slots)
	return len(slots), nil
}

// Bookings

func (s *Service) BookAppointment(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.BookAppointment"

	date, err := time.Parse(timeutil.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrInvalidInput)
	}

	lockKey := fmt.Sprintf("slot:%s:%s:%s", req.DoctorID, req.Date, req.StartTime)

	locked, err := s.locker.Lock(ctx, lockKey, bookingLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	booked, err := s.scheduler.BookAppointment(ctx, req.PatientID, req.DoctorID, date, req.StartTime)
	if err != nil {
		if booked {
			// The slot is claimed; the record-store failure still reaches
			// the caller so the automation layer can retry or alert.
			s.metrics.ObserveBooking("booked")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !booked {
		s.metrics.ObserveBooking("unavailable")
	} else {
		s.metrics.ObserveBooking("booked")
	}

	return &api.BookingResponse{
		Booked:    booked,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		StartTime: req.StartTime,
		PatientID: req.PatientID,
	}, nil
}

// CancelAppointment frees a booked slot and drops the patient's still-unsent
// reminders scheduled ahead of the cancelled appointment.
func (s *Service) CancelAppointment(ctx context.Context, req *api.CancelRequest) (*api.CancelResponse, error) {
	const op = "service.CancelAppointment"

	date, err := time.Parse(timeutil.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrInvalidInput)
	}

	booked, freed, err := s.scheduler.CancelAppointment(ctx, req.DoctorID, date, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !freed {
		return &api.CancelResponse{Freed: false}, nil
	}

	resp := &api.CancelResponse{Freed: true, PatientID: booked.PatientID}
	if booked.PatientID != nil {
		hh, mm, clockErr := timeutil.ParseClock(booked.StartTime)
		if clockErr == nil {
			appointmentAt := booked.Date.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
			resp.RemindersCancelled = s.queue.CancelPending(*booked.PatientID, appointmentAt)
		}
	}

	return resp, nil
}

// Recurring series

func (s *Service) CreateRecurringAppointment(ctx context.Context, req *api.RecurringRequest) (*api.RecurringResponse, error) {
	const op = "service.CreateRecurringAppointment"

	startDate, err := time.Parse(timeutil.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start_date: %w", op, response.ErrInvalidInput)
	}

	endDate, err := time.Parse(timeutil.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid end_date: %w", op, response.ErrInvalidInput)
	}

	created, skipped, err := s.scheduler.CreateRecurringAppointment(ctx, models.RecurringSeriesRequest{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		StartDate:       startDate,
		EndDate:         endDate,
		Frequency:       models.Frequency(req.Frequency),
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ObserveRecurring(created, skipped)

	return &api.RecurringResponse{Created: created, Skipped: skipped}, nil
}

// Messaging

func (s *Service) ScheduleMessage(ctx context.Context, req *api.MessageRequest) (*api.MessageResponse, error) {
	const op = "service.ScheduleMessage"

	scheduledTime, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid scheduled_time: %w", op, response.ErrInvalidInput)
	}

	content := req.Content
	if req.TemplateID != nil {
		template, ok := s.templates.Get(*req.TemplateID)
		if !ok {
			return nil, fmt.Errorf("%s: template: %w", op, response.ErrNotFound)
		}
		content = template.Content
	}
	if content == "" {
		return nil, fmt.Errorf("%s: empty content: %w", op, response.ErrInvalidInput)
	}

	channel := models.Channel(req.Channel)
	switch channel {
	case "", models.ChannelWhatsApp, models.ChannelEmail, models.ChannelSMS:
	default:
		return nil, fmt.Errorf("%s: channel %q: %w", op, req.Channel, response.ErrInvalidInput)
	}

	id := s.queue.ScheduleMessage(req.Recipient, content, scheduledTime, channel, req.PatientID)
	s.metrics.ObserveScheduled(string(channel))

	return &api.MessageResponse{MessageID: id, ScheduledTime: scheduledTime}, nil
}

func (s *Service) ScheduleAppointmentReminder(ctx context.Context, req *api.ReminderRequest) (*api.MessageResponse, error) {
	const op = "service.ScheduleAppointmentReminder"

	appointmentTime, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid appointment_time: %w", op, response.ErrInvalidInput)
	}

	id := s.queue.ScheduleAppointmentReminder(req.PatientID, appointmentTime)
	s.metrics.ObserveScheduled(string(models.ChannelWhatsApp))

	return &api.MessageResponse{
		MessageID:     id,
		ScheduledTime: appointmentTime.Add(-messaging.ReminderOffset),
	}, nil
}

func (s *Service) NotifyFamilyMember(ctx context.Context, req *api.FamilyNotifyRequest) (*api.MessageResponse, error) {
	id := s.queue.NotifyFamilyMember(req.FamilyMemberID, req.Content, req.PatientID)
	s.metrics.ObserveScheduled(string(models.ChannelWhatsApp))

	return &api.MessageResponse{MessageID: id, ScheduledTime: s.now()}, nil
}

func (s *Service) AddTemplate(ctx context.Context, req *api.TemplateRequest) (*api.TemplateResponse, error) {
	const op = "service.AddTemplate"

	if req.Content == "" || req.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidInput)
	}

	id := s.templates.Add(models.MessageTemplate{
		Name:    req.Name,
		Kind:    models.TemplateKind(req.Kind),
		Content: req.Content,
	})

	return &api.TemplateResponse{TemplateID: id}, nil
}

// Dashboard

func (s *Service) GetDoctorDashboard(ctx context.Context, doctorID string) (*api.DashboardResponse, error) {
	const op = "service.GetDoctorDashboard"

	dash, err := s.aggregator.GetDoctorDashboard(ctx, doctorID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &api.DashboardResponse{
		TodayAppointments:    toSlotDTOs(dash.TodayAppointments),
		UpcomingAppointments: toSlotDTOs(dash.UpcomingAppointments),
	}
	if dash.Doctor != nil {
		resp.Doctor = &api.DoctorInfo{
			DoctorID:  dash.Doctor.DoctorID,
			Name:      dash.Doctor.Name,
			Specialty: dash.Doctor.Specialty,
		}
	}

	return resp, nil
}

// DTO conversion

func toSlotDTOs(slots []models.ScheduleSlot) []api.Slot {
	result := make([]api.Slot, 0, len(slots))
	for _, slot := range slots {
		result = append(result, api.Slot{
			DoctorID:  slot.DoctorID,
			Date:      timeutil.DateKey(slot.Date),
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Available: slot.Available,
			PatientID: slot.PatientID,
			Kind:      string(slot.Kind),
		})
	}
	return result
}

func fromSlotDTO(doctorID string, payload api.Slot) (models.ScheduleSlot, error) {
	const op = "service.fromSlotDTO"

	date, err := time.Parse(timeutil.DateLayout, payload.Date)
	if err != nil {
		return models.ScheduleSlot{}, fmt.Errorf("%s: invalid date: %w", op, response.ErrInvalidInput)
	}

	if _, _, err := timeutil.ParseClock(payload.StartTime); err != nil {
		return models.ScheduleSlot{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, _, err := timeutil.ParseClock(payload.EndTime); err != nil {
		return models.ScheduleSlot{}, fmt.Errorf("%s: %w", op, err)
	}

	kind := models.SlotKind(payload.Kind)
	switch kind {
	case models.SlotAssessment, models.SlotTreatment, models.SlotFollowUp, models.SlotBreak:
	default:
		return models.ScheduleSlot{}, fmt.Errorf("%s: kind %q: %w", op, payload.Kind, response.ErrInvalidInput)
	}

	if !payload.Available && payload.PatientID == nil && kind != models.SlotBreak {
		return models.ScheduleSlot{}, fmt.Errorf("%s: booked slot without patient: %w", op, response.ErrInvalidInput)
	}

	return models.ScheduleSlot{
		DoctorID:  doctorID,
		Date:      date,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Available: payload.Available,
		PatientID: payload.PatientID,
		Kind:      kind,
	}, nil
}
