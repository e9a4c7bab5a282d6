package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "outblog"

// Metrics exposes publishing counters on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	postsSynced       prometheus.Counter
	articlesPublished *prometheus.CounterVec
	publishFailures   *prometheus.CounterVec
	articlesDemoted   prometheus.Counter
}

// New creates the collectors and registers them with Go runtime metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		postsSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_synced_total",
			Help:      "Posts upserted from Outblog.",
		}),
		articlesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_published_total",
			Help:      "Articles created on Shopify, by publish mode.",
		}, []string{"mode"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Failed article creations, by error kind.",
		}, []string{"kind"}),
		articlesDemoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_demoted_total",
			Help:      "Posts reset to draft because their article was gone.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.postsSynced,
		m.articlesPublished,
		m.publishFailures,
		m.articlesDemoted,
	)
	return m
}

func (m *Metrics) PostsSynced(n int) {
	m.postsSynced.Add(float64(n))
}

func (m *Metrics) ArticlePublished(mode string) {
	m.articlesPublished.WithLabelValues(mode).Inc()
}

func (m *Metrics) PublishFailed(kind string) {
	m.publishFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ArticlesDemoted(n int) {
	m.articlesDemoted.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
