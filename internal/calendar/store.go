package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"hemam-service/internal/models"
	"hemam-service/internal/timeutil"
	"hemam-service/pkg/response"
)

// Store is the single source of truth for per-doctor calendars. All reads and
// writes go through one mutex, so check-then-set sequences (Claim, Insert,
// Release) are single critical sections.
type Store struct {
	mu        sync.RWMutex
	schedules map[string]map[string]models.ScheduleSlot
}

func NewStore() *Store {
	return &Store{
		schedules: make(map[string]map[string]models.ScheduleSlot),
	}
}

func slotKey(date time.Time, startTime string) string {
	return timeutil.DateKey(date) + "T" + startTime
}

func normalize(slot models.ScheduleSlot) models.ScheduleSlot {
	slot.Date = timeutil.TruncateToDate(slot.Date, slot.Date.Location())
	return slot
}

// GetSchedule returns every slot for the doctor on the given date, ordered by
// start time. Unknown doctors yield an empty slice.
func (s *Store) GetSchedule(doctorID string, date time.Time) []models.ScheduleSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.ScheduleSlot
	for _, slot := range s.schedules[doctorID] {
		if timeutil.SameDate(slot.Date, date) {
			result = append(result, slot)
		}
	}

	sortSlots(result)
	return result
}

// GetAvailableSlots returns the free subset of GetSchedule.
func (s *Store) GetAvailableSlots(doctorID string, date time.Time) []models.ScheduleSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.ScheduleSlot
	for _, slot := range s.schedules[doctorID] {
		if slot.Available && timeutil.SameDate(slot.Date, date) {
			result = append(result, slot)
		}
	}

	sortSlots(result)
	return result
}

// All returns a snapshot of the doctor's whole calendar, ordered by date then
// start time. Used by the dashboard aggregator.
func (s *Store) All(doctorID string) []models.ScheduleSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ScheduleSlot, 0, len(s.schedules[doctorID]))
	for _, slot := range s.schedules[doctorID] {
		result = append(result, slot)
	}

	sortSlots(result)
	return result
}

// ReplaceSchedule bulk-sets a doctor's calendar. It overwrites, it does not
// merge; provisioning callers own any merge semantics.
func (s *Store) ReplaceSchedule(doctorID string, slots []models.ScheduleSlot) {
	byKey := make(map[string]models.ScheduleSlot, len(slots))
	for _, slot := range slots {
		slot = normalize(slot)
		slot.DoctorID = doctorID
		byKey[slotKey(slot.Date, slot.StartTime)] = slot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules[doctorID] = byKey
}

// Upsert inserts a slot or replaces the existing one at the same
// (doctorID, date, startTime) identity.
func (s *Store) Upsert(slot models.ScheduleSlot) error {
	const op = "calendar.Store.Upsert"

	slot = normalize(slot)
	if slot.DoctorID == "" || slot.StartTime == "" {
		return fmt.Errorf("%s: %w", op, response.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(slot)
	return nil
}

// Insert adds a slot only if no slot exists at its identity; a collision is
// reported as ErrSlotConflict and the existing slot is left untouched.
func (s *Store) Insert(slot models.ScheduleSlot) error {
	const op = "calendar.Store.Insert"

	slot = normalize(slot)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schedules[slot.DoctorID][slotKey(slot.Date, slot.StartTime)]; exists {
		return fmt.Errorf("%s: %s %s: %w", op, timeutil.DateKey(slot.Date), slot.StartTime, response.ErrSlotConflict)
	}

	s.put(slot)
	return nil
}

// Claim atomically books the slot for the patient. It returns ok=false when
// the slot is absent or already taken; exactly one of any set of concurrent
// claimers for the same identity observes ok=true.
func (s *Store) Claim(doctorID string, date time.Time, startTime, patientID string) (models.ScheduleSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(date, startTime)
	slot, exists := s.schedules[doctorID][key]
	if !exists || !slot.Available || slot.Kind == models.SlotBreak {
		return models.ScheduleSlot{}, false
	}

	slot.Available = false
	slot.PatientID = &patientID
	s.schedules[doctorID][key] = slot

	return slot, true
}

// Release atomically frees a booked slot, returning the slot as it was before
// the release. Absent or already-free slots yield ok=false.
func (s *Store) Release(doctorID string, date time.Time, startTime string) (models.ScheduleSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(date, startTime)
	slot, exists := s.schedules[doctorID][key]
	if !exists || slot.Available {
		return models.ScheduleSlot{}, false
	}

	booked := slot
	slot.Available = true
	slot.PatientID = nil
	s.schedules[doctorID][key] = slot

	return booked, true
}

// put assumes s.mu is held.
func (s *Store) put(slot models.ScheduleSlot) {
	if s.schedules[slot.DoctorID] == nil {
		s.schedules[slot.DoctorID] = make(map[string]models.ScheduleSlot)
	}
	s.schedules[slot.DoctorID][slotKey(slot.Date, slot.StartTime)] = slot
}

func sortSlots(slots []models.ScheduleSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !timeutil.SameDate(slots[i].Date, slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}
