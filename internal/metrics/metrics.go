// Package metrics exposes Prometheus metrics for the client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snailsynk_requests_total",
		Help: "API requests by method and outcome.",
	}, []string{"method", "outcome"})

	pushEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snailsynk_push_events_total",
		Help: "Push events received by event name.",
	}, []string{"event"})

	pushReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snailsynk_push_reconnects_total",
		Help: "Push channel reconnect attempts.",
	})

	pollRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snailsynk_poll_refreshes_total",
		Help: "Polling-fallback refreshes by outcome.",
	}, []string{"outcome"})

	flashesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snailsynk_flashes_active",
		Help: "Currently displayed flash notifications.",
	})
)

// RecordRequest counts one API request.
func RecordRequest(method, outcome string) {
	requestsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordPushEvent counts one received push event.
func RecordPushEvent(event string) {
	pushEventsTotal.WithLabelValues(event).Inc()
}

// RecordPushReconnect counts one push channel reconnect attempt.
func RecordPushReconnect() {
	pushReconnectsTotal.Inc()
}

// RecordPollRefresh counts one polling refresh.
func RecordPollRefresh(outcome string) {
	pollRefreshesTotal.WithLabelValues(outcome).Inc()
}

// SetFlashesActive tracks the current flash count.
func SetFlashesActive(n int) {
	flashesActive.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
