package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stkPushRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirage_stk_push_requests_total",
			Help: "STK push requests by outcome",
		},
		[]string{"result"},
	)

	callbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirage_mpesa_callbacks_total",
			Help: "Payment callbacks received by outcome",
		},
		[]string{"result"},
	)

	gatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirage_gateway_request_duration_seconds",
			Help:    "Duration of calls to the M-Pesa gateway",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	seatTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirage_seat_transitions_total",
			Help: "Seats moved to a new status",
		},
		[]string{"status"},
	)

	confirmationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirage_confirmation_emails_total",
			Help: "Payment confirmation emails by outcome",
		},
		[]string{"result"},
	)
)

// Result labels.
const (
	ResultOK        = "ok"
	ResultInvalid   = "invalid"
	ResultThrottled = "throttled"
	ResultError     = "error"
	ResultCompleted = "completed"
	ResultFailed    = "failed"
	ResultDuplicate = "duplicate"
)

func RecordPush(result string) {
	stkPushRequests.WithLabelValues(result).Inc()
}

func RecordCallback(result string) {
	callbacks.WithLabelValues(result).Inc()
}

// ObserveGateway records how long a gateway call took, e.g.
// defer monitoring.ObserveGateway("oauth", time.Now()).
func ObserveGateway(call string, start time.Time) {
	gatewayDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}

func RecordSeats(status string, n int64) {
	if n <= 0 {
		return
	}
	seatTransitions.WithLabelValues(status).Add(float64(n))
}

func RecordEmail(result string) {
	confirmationEmails.WithLabelValues(result).Inc()
}
