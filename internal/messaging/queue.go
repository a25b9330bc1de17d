package messaging

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"hemam-service/internal/models"
)

// ReminderTemplate is the fixed appointment-reminder text sent over whatsapp.
const ReminderTemplate = "تذكير: لديك موعد غداً في مركز الهمم. ننتظرك!"

// ReminderOffset is how long before the appointment the reminder fires.
const ReminderOffset = 24 * time.Hour

// Queue holds pending outbound messages. Claiming is the only state
// transition: a message flips sent exactly once, inside the queue mutex, so
// overlapping drain cycles partition the due set disjointly.
type Queue struct {
	mu       sync.Mutex
	messages []*models.Message
	now      func() time.Time
}

// NewQueue builds a queue around the given clock; a nil clock means time.Now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now}
}

// ScheduleMessage appends an unsent message and returns its id immediately;
// nothing is dispatched until a drain cycle claims it.
func (q *Queue) ScheduleMessage(recipient, content string, scheduledTime time.Time, channel models.Channel, patientID *string) string {
	if channel == "" {
		channel = models.ChannelWhatsApp
	}

	msg := &models.Message{
		ID:            uuid.NewString(),
		Recipient:     recipient,
		Channel:       channel,
		Content:       content,
		ScheduledTime: scheduledTime,
		Sent:          false,
		PatientID:     patientID,
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.messages = append(q.messages, msg)
	return msg.ID
}

// ScheduleAppointmentReminder queues the standard whatsapp reminder 24 hours
// ahead of the appointment.
func (q *Queue) ScheduleAppointmentReminder(patientID string, appointmentTime time.Time) string {
	return q.ScheduleMessage(patientID, ReminderTemplate, appointmentTime.Add(-ReminderOffset), models.ChannelWhatsApp, &patientID)
}

func (q *Queue) ScheduleMotivationalMessage(patientID, content string, scheduledTime time.Time) string {
	return q.ScheduleMessage(patientID, content, scheduledTime, models.ChannelWhatsApp, &patientID)
}

// NotifyFamilyMember queues a message for the next drain cycle.
func (q *Queue) NotifyFamilyMember(familyMemberID, content, patientID string) string {
	return q.ScheduleMessage(familyMemberID, content, q.now(), models.ChannelWhatsApp, &patientID)
}

// ProcessDue claims every unsent message whose scheduled time has arrived and
// returns the claimed batch. The check and the sent flip happen under one
// lock, so no message ever appears in two batches; once claimed a message is
// never re-offered.
func (q *Queue) ProcessDue(now time.Time) []models.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	var claimed []models.Message
	for _, msg := range q.messages {
		if msg.Sent || msg.ScheduledTime.After(now) {
			continue
		}
		msg.Sent = true
		claimed = append(claimed, *msg)
	}

	return claimed
}

// CancelPending drops unsent messages addressed to the patient and scheduled
// strictly before the cutoff. Claimed messages are never recalled. Returns the
// number of messages dropped.
func (q *Queue) CancelPending(patientID string, before time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.messages[:0]
	dropped := 0
	for _, msg := range q.messages {
		if !msg.Sent && msg.PatientID != nil && *msg.PatientID == patientID && msg.ScheduledTime.Before(before) {
			dropped++
			continue
		}
		kept = append(kept, msg)
	}
	q.messages = kept

	return dropped
}

// Get returns a copy of the message with the given id.
func (q *Queue) Get(id string) (models.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, msg := range q.messages {
		if msg.ID == id {
			return *msg, true
		}
	}
	return models.Message{}, false
}

// PendingCount reports how many messages are still unclaimed.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, msg := range q.messages {
		if !msg.Sent {
			count++
		}
	}
	return count
}
