package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizSessionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_sessions_created_total",
			Help: "Quiz sessions created, by quiz type",
		},
		[]string{"quiz_type"},
	)

	QuizAnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_graded_total",
			Help: "Answers graded, by question type and outcome",
		},
		[]string{"question_type", "correct"},
	)

	QuizAssemblyFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_assembly_failures_total",
			Help: "Quiz creations that produced no session",
		},
		[]string{"quiz_type", "reason"},
	)

	ActiveSessions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quiz_active_sessions",
			Help: "In-memory sessions currently held",
		},
		[]string{"kind"},
	)

	QuestionsImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "question_bank_imported_total",
			Help: "Questions inserted by bank imports",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuizSessionsCreated)
		prometheus.MustRegister(QuizAnswersGraded)
		prometheus.MustRegister(QuizAssemblyFailures)
		prometheus.MustRegister(ActiveSessions)
		prometheus.MustRegister(QuestionsImported)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
