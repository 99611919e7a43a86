package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "myflix_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "myflix_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	FavoriteMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_favorite_mutations_total",
			Help: "Favorite list mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	UserRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_user_registrations_total",
			Help: "User registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "myflix_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)

// RecordAPIRequest records a finished request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFavoriteMutation counts an add/remove favorite call. outcome is "ok" or an error class.
func RecordFavoriteMutation(operation, outcome string) {
	FavoriteMutations.WithLabelValues(operation, outcome).Inc()
}

func RecordRegistration(outcome string) {
	UserRegistrations.WithLabelValues(outcome).Inc()
}

func RecordRateLimited(route string) {
	RateLimited.WithLabelValues(route).Inc()
}
