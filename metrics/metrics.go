// Package metrics — Prometheus metrics for observability.
//
// Primary metrics the manager updates during operation:
//   - position_operations_total{op,result} — operations applied (result: ok|error)
//   - position_automation_triggers_total   — automated restores fired
//   - position_purchases_total{feature}    — confirmed mock purchases
//   - position_health_factor               — last observed health factor (gauge)
//   - position_feed_price                  — last polled price (gauge)
//
// Registered in init() and served at /metrics by the HTTP listener started
// from the orchestrator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mtxOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "position_operations_total",
			Help: "Position operations applied",
		},
		[]string{"op", "result"},
	)

	mtxAutomationTriggers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "position_automation_triggers_total",
			Help: "Automated health restores fired",
		},
	)

	mtxPurchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "position_purchases_total",
			Help: "Confirmed mock purchases",
		},
		[]string{"feature"},
	)

	mtxHealthFactor = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "position_health_factor",
			Help: "Last observed health factor",
		},
	)

	mtxFeedPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "position_feed_price",
			Help: "Last polled feed price",
		},
	)
)

func init() {
	prometheus.MustRegister(
		mtxOperations,
		mtxAutomationTriggers,
		mtxPurchases,
		mtxHealthFactor,
		mtxFeedPrice,
	)
}

// IncOperation counts one applied operation with its outcome.
func IncOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mtxOperations.WithLabelValues(op, result).Inc()
}

// IncAutomationTrigger counts one automated restore.
func IncAutomationTrigger() {
	mtxAutomationTriggers.Inc()
}

// IncPurchase counts one confirmed purchase for a feature.
func IncPurchase(feature string) {
	mtxPurchases.WithLabelValues(feature).Inc()
}

// SetHealthFactor records the latest health factor.
func SetHealthFactor(hf uint64) {
	mtxHealthFactor.Set(float64(hf))
}

// SetFeedPrice records the latest polled price.
func SetFeedPrice(price uint64) {
	mtxFeedPrice.Set(float64(price))
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
