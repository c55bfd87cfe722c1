package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bharat_yatra_bookings_created_total",
		Help: "Bookings persisted, by package tier",
	}, []string{"package_type"})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bharat_yatra_bookings_cancelled_total",
		Help: "Bookings cancelled by their owner",
	})
	BookingRefCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bharat_yatra_booking_ref_collisions_total",
		Help: "Booking reference unique violations that triggered a retry",
	})
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bharat_yatra_reviews_created_total",
		Help: "Reviews persisted",
	})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bharat_yatra_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Instrument records request latency labelled with the matched chi route pattern
// rather than the raw path.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
