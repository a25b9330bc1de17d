package calendar

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemam-service/internal/models"
	"hemam-service/pkg/response"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func freeSlot(doctorID string, day time.Time, start, end string) models.ScheduleSlot {
	return models.ScheduleSlot{
		DoctorID:  doctorID,
		Date:      day,
		StartTime: start,
		EndTime:   end,
		Available: true,
		Kind:      models.SlotTreatment,
	}
}

func TestGetScheduleOrdersByStartTime(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	store.ReplaceSchedule("doc-1", []models.ScheduleSlot{
		freeSlot("doc-1", day, "14:00", "15:00"),
		freeSlot("doc-1", day, "09:00", "10:00"),
		freeSlot("doc-1", day, "11:00", "12:00"),
		freeSlot("doc-1", date(2024, 1, 11), "08:00", "09:00"),
	})

	slots := store.GetSchedule("doc-1", day)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "11:00", slots[1].StartTime)
	assert.Equal(t, "14:00", slots[2].StartTime)
}

func TestGetScheduleUnknownDoctor(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.GetSchedule("nobody", date(2024, 1, 10)))
}

func TestGetAvailableSlotsFiltersBooked(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	store.ReplaceSchedule("doc-1", []models.ScheduleSlot{
		freeSlot("doc-1", day, "09:00", "10:00"),
		freeSlot("doc-1", day, "10:00", "11:00"),
	})

	_, ok := store.Claim("doc-1", day, "09:00", "pat-1")
	require.True(t, ok)

	available := store.GetAvailableSlots("doc-1", day)
	require.Len(t, available, 1)
	assert.Equal(t, "10:00", available[0].StartTime)
}

func TestReplaceScheduleOverwrites(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	store.ReplaceSchedule("doc-1", []models.ScheduleSlot{
		freeSlot("doc-1", day, "09:00", "10:00"),
	})
	store.ReplaceSchedule("doc-1", []models.ScheduleSlot{
		freeSlot("doc-1", day, "15:00", "16:00"),
	})

	slots := store.GetSchedule("doc-1", day)
	require.Len(t, slots, 1)
	assert.Equal(t, "15:00", slots[0].StartTime)
}

func TestInsertReportsConflict(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	require.NoError(t, store.Insert(freeSlot("doc-1", day, "09:00", "10:00")))

	err := store.Insert(freeSlot("doc-1", day, "09:00", "10:00"))
	assert.ErrorIs(t, err, response.ErrSlotConflict)

	// Same clock on another date is a different identity.
	require.NoError(t, store.Insert(freeSlot("doc-1", date(2024, 1, 11), "09:00", "10:00")))
}

func TestUpsertReplacesExisting(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	require.NoError(t, store.Upsert(freeSlot("doc-1", day, "09:00", "10:00")))

	updated := freeSlot("doc-1", day, "09:00", "10:00")
	updated.Kind = models.SlotAssessment
	require.NoError(t, store.Upsert(updated))

	slots := store.GetSchedule("doc-1", day)
	require.Len(t, slots, 1)
	assert.Equal(t, models.SlotAssessment, slots[0].Kind)
}

func TestClaimAndRelease(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)
	require.NoError(t, store.Insert(freeSlot("doc-1", day, "09:00", "10:00")))

	slot, ok := store.Claim("doc-1", day, "09:00", "pat-1")
	require.True(t, ok)
	assert.False(t, slot.Available)
	require.NotNil(t, slot.PatientID)
	assert.Equal(t, "pat-1", *slot.PatientID)

	// A booked slot always carries its patient.
	for _, s := range store.GetSchedule("doc-1", day) {
		if !s.Available {
			assert.NotNil(t, s.PatientID)
		}
	}

	_, ok = store.Claim("doc-1", day, "09:00", "pat-2")
	assert.False(t, ok)

	booked, ok := store.Release("doc-1", day, "09:00")
	require.True(t, ok)
	require.NotNil(t, booked.PatientID)
	assert.Equal(t, "pat-1", *booked.PatientID)

	_, ok = store.Release("doc-1", day, "09:00")
	assert.False(t, ok)

	_, ok = store.Claim("doc-1", day, "09:00", "pat-2")
	assert.True(t, ok)
}

func TestClaimRefusesBreakSlots(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)

	slot := freeSlot("doc-1", day, "12:00", "13:00")
	slot.Kind = models.SlotBreak
	require.NoError(t, store.Insert(slot))

	_, ok := store.Claim("doc-1", day, "12:00", "pat-1")
	assert.False(t, ok)
}

func TestConcurrentClaimBooksExactlyOnce(t *testing.T) {
	store := NewStore()
	day := date(2024, 1, 10)
	require.NoError(t, store.Insert(freeSlot("doc-1", day, "09:00", "10:00")))

	const bookers = 32

	var wg sync.WaitGroup
	results := make(chan bool, bookers)

	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, ok := store.Claim("doc-1", day, "09:00", fmt.Sprintf("pat-%d", n))
			results <- ok
		}(i)
	}

	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}
