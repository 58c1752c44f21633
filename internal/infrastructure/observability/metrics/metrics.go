// Package metrics registers the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanhub_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fanhub_http_request_duration_seconds",
		Help:    "HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	CartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanhub_cart_mutations_total",
		Help: "Cart mutations by operation",
	}, []string{"op"})
	ActiveCarts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fanhub_active_carts",
		Help: "Carts currently held in memory",
	})
	VendorRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanhub_vendor_requests_total",
		Help: "Print-on-demand vendor requests by outcome",
	}, []string{"endpoint", "outcome"})
	VendorRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanhub_vendor_retries_total",
		Help: "Print-on-demand vendor retry attempts",
	}, []string{"endpoint"})
	FanLevels = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanhub_fan_level_computations_total",
		Help: "Engagement computations by resulting fan level",
	}, []string{"level"})
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fanhub_feed_clients",
		Help: "Connected live feed websocket clients",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration,
		CartMutations, ActiveCarts,
		VendorRequests, VendorRetries,
		FanLevels, FeedClients,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

// IncCartMutation counts a cart operation such as add, update or remove.
func IncCartMutation(op string) { CartMutations.WithLabelValues(op).Inc() }

// IncVendorRequest counts a vendor call by outcome (ok, error).
func IncVendorRequest(endpoint, outcome string) {
	VendorRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncVendorRetry increments the retry counter for an endpoint.
func IncVendorRetry(endpoint string) { VendorRetries.WithLabelValues(endpoint).Inc() }

// ObserveFanLevel counts a computed fan level.
func ObserveFanLevel(level int) { FanLevels.WithLabelValues(strconv.Itoa(level)).Inc() }
