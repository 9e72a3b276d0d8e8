package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds the payment-domain counters.
type BusinessMetrics struct {
	UsernamesClaimedTotal    prometheus.Counter
	PaymentsCreatedTotal     *prometheus.CounterVec
	PaymentsCompletedTotal   *prometheus.CounterVec
	PaymentsFailedTotal      *prometheus.CounterVec
	RequestsCreatedTotal     prometheus.Counter
	RequestTransitionsTotal  *prometheus.CounterVec
	ReactionsAddedTotal      prometheus.Counter
	SplitParticipantsTotal   *prometheus.CounterVec
	NotificationsSentTotal   *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics initializes the business-level metrics.
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		UsernamesClaimedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_usernames_claimed_total",
			Help: "The total number of username claims (inserts and re-claims)",
		}),
		PaymentsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_payments_created_total",
			Help: "The total number of pending transactions created",
		}, []string{"token"}),
		PaymentsCompletedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_payments_completed_total",
			Help: "The total number of finalized transactions",
		}, []string{"token"}),
		PaymentsFailedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_payments_failed_total",
			Help: "The total number of failed transactions",
		}, []string{"token"}),
		RequestsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_requests_created_total",
			Help: "The total number of payment requests created",
		}),
		RequestTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_request_transitions_total",
			Help: "Payment request transitions by terminal status",
		}, []string{"status"}),
		ReactionsAddedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_reactions_added_total",
			Help: "The total number of reactions stored (duplicates excluded)",
		}),
		SplitParticipantsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_split_participants_total",
			Help: "Split-bill participants by outcome",
		}, []string{"outcome"}),
		NotificationsSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_notifications_sent_total",
			Help: "Notification deliveries by outcome",
		}, []string{"outcome"}),
	}
}
