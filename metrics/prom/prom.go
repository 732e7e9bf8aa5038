// Package prom adapts cache.MetricsHook to Prometheus counters and gauges.
package prom

import (
	"strconv"

	"github.com/dendrondb/lrucache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.MetricsHook. Safe for concurrent use; all
// Prometheus metric types are goroutine-safe.
type Adapter struct {
	inserts  *prometheus.CounterVec
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	evicts   *prometheus.CounterVec
	usage    *prometheus.GaugeVec
	capacity *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "inserts_total",
			Help:        "Entries inserted, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "lookup_hits_total",
			Help:        "Lookups that found the key, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "lookup_misses_total",
			Help:        "Lookups that did not find the key, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
		evicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictions_total",
			Help:        "Entries evicted, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
		usage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_usage",
			Help:        "Current charge usage, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_capacity",
			Help:        "Configured charge capacity, by shard",
			ConstLabels: constLabels,
		}, []string{"shard"}),
	}
	reg.MustRegister(a.inserts, a.hits, a.misses, a.evicts, a.usage, a.capacity)
	return a
}

func (a *Adapter) Insert(shard int, usage, capacity uint64) {
	label := strconv.Itoa(shard)
	a.inserts.WithLabelValues(label).Inc()
	a.usage.WithLabelValues(label).Set(float64(usage))
	a.capacity.WithLabelValues(label).Set(float64(capacity))
}

func (a *Adapter) Hit(shard int) { a.hits.WithLabelValues(strconv.Itoa(shard)).Inc() }

func (a *Adapter) Miss(shard int) { a.misses.WithLabelValues(strconv.Itoa(shard)).Inc() }

func (a *Adapter) Evict(shard int, usage, capacity uint64) {
	label := strconv.Itoa(shard)
	a.evicts.WithLabelValues(label).Inc()
	a.usage.WithLabelValues(label).Set(float64(usage))
	a.capacity.WithLabelValues(label).Set(float64(capacity))
}

var _ cache.MetricsHook = (*Adapter)(nil)
