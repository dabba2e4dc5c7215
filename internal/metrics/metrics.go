package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

var (
	// ClientErrorsReported counts error reports received from clients via
	// the monitoring intake endpoint.
	ClientErrorsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_errors_reported_total",
			Help: "Error reports received from clients",
		},
		[]string{"source"},
	)

	// ClientMetricsReported counts metric payloads received from clients.
	ClientMetricsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_metrics_reported_total",
			Help: "Metric payloads received from clients",
		},
		[]string{"source"},
	)

	// UploadsProcessed counts blob uploads by outcome.
	UploadsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_processed_total",
			Help: "Image uploads by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(ClientErrorsReported, ClientMetricsReported, UploadsProcessed)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
