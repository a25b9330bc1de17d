package models

import "time"

type SlotKind string

const (
	SlotAssessment SlotKind = "assessment"
	SlotTreatment  SlotKind = "treatment"
	SlotFollowUp   SlotKind = "followup"
	SlotBreak      SlotKind = "break"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
)

// ScheduleSlot is one bookable window in a doctor's calendar.
// Identity is (DoctorID, Date, StartTime); Date carries no time-of-day part,
// StartTime/EndTime are "HH:MM" clock strings.
type ScheduleSlot struct {
	DoctorID  string    `db:"doctor_id"`
	Date      time.Time `db:"slot_date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Available bool      `db:"available"`
	PatientID *string   `db:"patient_id"`
	Kind      SlotKind  `db:"kind"`
}

// RecurringSeriesRequest is consumed once by the scheduler to expand a series
// of treatment slots; the request itself is never persisted.
type RecurringSeriesRequest struct {
	DoctorID        string
	PatientID       string
	StartDate       time.Time
	EndDate         time.Time // inclusive
	Frequency       Frequency
	StartTime       string
	DurationMinutes int
}

type Message struct {
	ID            string
	Recipient     string
	Channel       Channel
	Content       string
	ScheduledTime time.Time
	Sent          bool
	PatientID     *string
}

type TemplateKind string

const (
	TemplateMotivational TemplateKind = "motivational"
	TemplateReminder     TemplateKind = "reminder"
	TemplateEducational  TemplateKind = "educational"
	TemplateFollowUp     TemplateKind = "follow_up"
)

type MessageTemplate struct {
	ID      string
	Name    string
	Kind    TemplateKind
	Content string
}

type Patient struct {
	PatientID       string     `db:"patient_id"`
	Name            string     `db:"name"`
	Phone           string     `db:"phone"`
	Email           *string    `db:"email"`
	DoctorID        *string    `db:"doctor_id"`
	LastVisit       *time.Time `db:"last_visit"`
	NextAppointment *time.Time `db:"next_appointment"`
}

type Doctor struct {
	DoctorID  string `db:"doctor_id"`
	Name      string `db:"name"`
	Specialty string `db:"specialty"`
}

type FamilyMember struct {
	FamilyMemberID string `db:"family_member_id"`
	PatientID      string `db:"patient_id"`
	Name           string `db:"name"`
	Relationship   string `db:"relationship"`
	Phone          string `db:"phone"`
	Notifications  bool   `db:"notifications"`
}
