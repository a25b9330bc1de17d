package api

import "time"

type Slot struct {
	DoctorID  string  `json:"doctor_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Available bool    `json:"available"`
	PatientID *string `json:"patient_id,omitempty"`
	Kind      string  `json:"kind"`
}

type ScheduleReplaceRequest struct {
	Slots []Slot `json:"slots"`
}

type BookingRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type BookingResponse struct {
	Booked    bool   `json:"booked"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	PatientID string `json:"patient_id"`
}

type CancelRequest struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

type CancelResponse struct {
	Freed              bool    `json:"freed"`
	PatientID          *string `json:"patient_id,omitempty"`
	RemindersCancelled int     `json:"reminders_cancelled"`
}

type RecurringRequest struct {
	DoctorID        string `json:"doctor_id"`
	PatientID       string `json:"patient_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Frequency       string `json:"frequency"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type RecurringResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type MessageRequest struct {
	Recipient     string  `json:"recipient"`
	Content       string  `json:"content,omitempty"`
	TemplateID    *string `json:"template_id,omitempty"`
	ScheduledTime string  `json:"scheduled_time"`
	Channel       string  `json:"channel,omitempty"`
	PatientID     *string `json:"patient_id,omitempty"`
}

type MessageResponse struct {
	MessageID     string    `json:"message_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

type ReminderRequest struct {
	PatientID       string `json:"patient_id"`
	AppointmentTime string `json:"appointment_time"`
}

type FamilyNotifyRequest struct {
	FamilyMemberID string `json:"family_member_id"`
	PatientID      string `json:"patient_id"`
	Content        string `json:"content"`
}

type TemplateRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

type TemplateResponse struct {
	TemplateID string `json:"template_id"`
}

type DoctorInfo struct {
	DoctorID  string `json:"doctor_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type DashboardResponse struct {
	Doctor               *DoctorInfo `json:"doctor,omitempty"`
	TodayAppointments    []Slot      `json:"today_appointments"`
	UpcomingAppointments []Slot      `json:"upcoming_appointments"`
}
