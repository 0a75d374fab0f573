package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus.
type Collector struct {
	queriesProcessed *prometheus.CounterVec
	queryDuration    *prometheus.HistogramVec
	tasksExecuted    *prometheus.CounterVec
	taskDuration     *prometheus.HistogramVec
	plannerFallbacks prometheus.Counter
	deadlocks        prometheus.Counter
	cacheBuilds      *prometheus.CounterVec
	cacheItems       prometheus.Gauge
	cacheBuildTime   *prometheus.HistogramVec
	embeddingBatches *prometheus.CounterVec
	embeddedTexts    *prometheus.CounterVec
	similarityTime   *prometheus.HistogramVec
}

// NewCollector creates a new Prometheus metrics collector.
func NewCollector() *Collector {
	return &Collector{
		queriesProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naqo_queries_processed_total",
				Help: "Total number of queries processed",
			},
			[]string{"status"},
		),
		queryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "naqo_query_duration_seconds",
				Help:    "End-to-end query processing duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		tasksExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naqo_tasks_executed_total",
				Help: "Total number of plan tasks executed",
			},
			[]string{"task_type", "status"},
		),
		taskDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "naqo_task_duration_seconds",
				Help:    "Task execution duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"task_type"},
		),
		plannerFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "naqo_planner_fallbacks_total",
				Help: "Total number of times the default plan replaced planner output",
			},
		),
		deadlocks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "naqo_plan_deadlocks_total",
				Help: "Total number of plans aborted with no ready tasks",
			},
		),
		cacheBuilds: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naqo_cache_builds_total",
				Help: "Total number of embedding cache build attempts",
			},
			[]string{"status"},
		),
		cacheItems: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "naqo_cache_items",
				Help: "Number of vectors in the current embedding cache",
			},
		),
		cacheBuildTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "naqo_cache_build_duration_seconds",
				Help:    "Embedding cache build duration in seconds",
				Buckets: []float64{0.1, 1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),
		embeddingBatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naqo_embedding_batches_total",
				Help: "Total number of embedding batch requests",
			},
			[]string{"status"},
		),
		embeddedTexts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naqo_embedded_texts_total",
				Help: "Total number of texts sent for embedding",
			},
			[]string{"status"},
		),
		similarityTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "naqo_similarity_query_duration_seconds",
				Help:    "Similarity search duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),
	}
}

// RecordQueryProcessed records one finished ProcessQuery call.
func (c *Collector) RecordQueryProcessed(status string, duration time.Duration) {
	c.queriesProcessed.WithLabelValues(status).Inc()
	c.queryDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordTaskExecuted records one task dispatch.
func (c *Collector) RecordTaskExecuted(taskType, status string, duration time.Duration) {
	c.tasksExecuted.WithLabelValues(taskType, status).Inc()
	c.taskDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}

// RecordPlannerFallback records one use of the default plan.
func (c *Collector) RecordPlannerFallback() {
	c.plannerFallbacks.Inc()
}

// RecordDeadlock records one plan aborted for lack of ready tasks.
func (c *Collector) RecordDeadlock() {
	c.deadlocks.Inc()
}

// RecordCacheBuild records one embedding cache build attempt.
func (c *Collector) RecordCacheBuild(status string, items int, duration time.Duration) {
	c.cacheBuilds.WithLabelValues(status).Inc()
	c.cacheBuildTime.WithLabelValues(status).Observe(duration.Seconds())
	if status != "failed" {
		c.cacheItems.Set(float64(items))
	}
}

// RecordEmbeddingBatch records one embedding batch request.
func (c *Collector) RecordEmbeddingBatch(status string, size int) {
	c.embeddingBatches.WithLabelValues(status).Inc()
	c.embeddedTexts.WithLabelValues(status).Add(float64(size))
}

// RecordSimilarityQuery records one similarity search.
func (c *Collector) RecordSimilarityQuery(kind string, duration time.Duration) {
	c.similarityTime.WithLabelValues(kind).Observe(duration.Seconds())
}
