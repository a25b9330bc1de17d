package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters for the scheduling and messaging flows.
type EngineMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	recurringSlots  *prometheus.CounterVec
	messagesTotal   *prometheus.CounterVec
	dispatchedTotal *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hemam",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		recurringSlots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hemam",
			Subsystem: "scheduling",
			Name:      "recurring_slots_total",
			Help:      "Slots produced by recurring expansion",
		}, []string{"outcome"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hemam",
			Subsystem: "messaging",
			Name:      "scheduled_total",
			Help:      "Messages placed on the queue",
		}, []string{"channel"}),
		dispatchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hemam",
			Subsystem: "messaging",
			Name:      "dispatched_total",
			Help:      "Claimed messages handed to the dispatcher",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.recurringSlots, m.messagesTotal, m.dispatchedTotal)
	return m
}

func (m *EngineMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveRecurring(created, skipped int) {
	if m == nil {
		return
	}
	m.recurringSlots.WithLabelValues("created").Add(float64(created))
	m.recurringSlots.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *EngineMetrics) ObserveScheduled(channel string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(channel).Inc()
}

func (m *EngineMetrics) ObserveDispatched(channel, status string) {
	if m == nil {
		return
	}
	m.dispatchedTotal.WithLabelValues(channel, status).Inc()
}
