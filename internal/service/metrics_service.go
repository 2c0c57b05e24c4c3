package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// MetricsService owns the Prometheus registry of the planner.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	semestersCreated   prometheus.Counter
	instancesGenerated prometheus.Counter
	attendanceMarks    *prometheus.CounterVec
	rejectedMarks      *prometheus.CounterVec
	dayRiskLevels      *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database work by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	semestersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_semesters_created_total",
		Help: "Semesters set up",
	})

	instancesGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_class_instances_generated_total",
		Help: "Class instances materialised from weekly templates",
	})

	attendanceMarks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_attendance_marks_total",
		Help: "Attendance marks accepted, by status",
	}, []string{"status"})

	rejectedMarks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_attendance_marks_rejected_total",
		Help: "Attendance marks rejected, by reason",
	}, []string{"reason"})

	dayRiskLevels := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_day_risk_level_total",
		Help: "Today views served, by aggregated risk level",
	}, []string{"level"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration, semestersCreated, instancesGenerated, attendanceMarks, rejectedMarks, dayRiskLevels, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
		semestersCreated:   semestersCreated,
		instancesGenerated: instancesGenerated,
		attendanceMarks:    attendanceMarks,
		rejectedMarks:      rejectedMarks,
		dayRiskLevels:      dayRiskLevels,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration of a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database timing under a label.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordSemesterCreated counts a semester set up together with its generated batch.
func (m *MetricsService) RecordSemesterCreated(instances int) {
	if m == nil {
		return
	}
	m.semestersCreated.Inc()
	m.instancesGenerated.Add(float64(instances))
}

// RecordAttendanceMark counts an accepted mark.
func (m *MetricsService) RecordAttendanceMark(status models.AttendanceStatus) {
	if m == nil {
		return
	}
	m.attendanceMarks.WithLabelValues(string(status)).Inc()
}

// RecordRejectedMark counts a refused mark.
func (m *MetricsService) RecordRejectedMark(reason string) {
	if m == nil {
		return
	}
	m.rejectedMarks.WithLabelValues(reason).Inc()
}

// RecordDayRisk counts a served today view by its risk level; "NONE" when absent.
func (m *MetricsService) RecordDayRisk(risk *models.RiskSummary) {
	if m == nil {
		return
	}
	level := "NONE"
	if risk != nil {
		level = string(risk.Level)
	}
	m.dayRiskLevels.WithLabelValues(level).Inc()
}
