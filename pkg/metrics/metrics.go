/*
Package metrics 定义 storefront 的 Prometheus 指标：HTTP 请求与工作单元提交。
所有 Record 方法对 nil *Metrics 安全，未启用指标时直接忽略。
*/
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	commits        *prometheus.CounterVec
	commitRows     *prometheus.CounterVec
	commitDuration *prometheus.HistogramVec
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on registerer. Registering twice returns the
// already registered collectors.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Metrics{
		httpRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}),
		commits: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_uow_commits_total",
			Help: "Unit of work commits by backend and result",
		}, []string{"backend", "result"}),
		commitRows: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_uow_rows_affected_total",
			Help: "Rows affected by committed units of work",
		}, []string{"backend"}),
		commitDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_uow_commit_duration_seconds",
			Help:    "Duration of unit of work commits in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"backend"}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

// RecordHTTPRequest 记录一次 HTTP 请求。route 使用路由模板而不是原始路径，避免标签基数膨胀。
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) InFlightStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) InFlightFinished() {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
}

// RecordCommit 记录一次工作单元提交。
func (m *Metrics) RecordCommit(backend string, rows int64, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	switch {
	case err != nil:
		result = "failure"
	case rows <= 0:
		result = "empty"
	}
	m.commits.WithLabelValues(backend, result).Inc()
	m.commitDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err == nil && rows > 0 {
		m.commitRows.WithLabelValues(backend).Add(float64(rows))
	}
}
