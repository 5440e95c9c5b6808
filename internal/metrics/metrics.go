package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	TransitionInvited    = "invited"
	TransitionRevoked    = "revoked"
	TransitionCompleted  = "completed"
	TransitionApproved   = "approved"
	TransitionOffboarded = "offboarded"
)

var (
	// OnboardingTransitionsTotal counts every successful lifecycle transition.
	OnboardingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrm",
			Name:      "onboarding_transitions_total",
			Help:      "Total number of invitation and employee status transitions",
		},
		[]string{"transition"},
	)

	// DocumentUploadBytes measures onboarding document sizes.
	DocumentUploadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrm",
			Name:      "document_upload_bytes",
			Help:      "Size of onboarding documents stored in object storage",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 10),
		},
		[]string{"kind"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrm",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry once per process.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OnboardingTransitionsTotal,
			DocumentUploadBytes,
			HTTPRequestDurationSeconds,
		)
	})
}

func RecordTransition(transition string) {
	OnboardingTransitionsTotal.WithLabelValues(transition).Inc()
}

func RecordUpload(kind string, size int64) {
	DocumentUploadBytes.WithLabelValues(kind).Observe(float64(size))
}

// Middleware records request latency using the route template, not the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDurationSeconds.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
