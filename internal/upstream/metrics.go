package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipehub_upstream_requests_total",
		Help: "Upstream catalog requests by source and result (ok, status, error).",
	}, []string{"source", "result"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipehub_upstream_request_seconds",
		Help:    "Upstream catalog request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)
