package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	warmups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipehub_catalog_warmups_total",
		Help: "Catalog warm-up attempts by result.",
	}, []string{"result"})

	warmupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recipehub_catalog_warmup_seconds",
		Help:    "Time spent fetching and enriching the catalog.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
	})

	catalogRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "recipehub_catalog_records",
		Help: "Records held in the in-memory catalog by kind.",
	}, []string{"kind"})
)
