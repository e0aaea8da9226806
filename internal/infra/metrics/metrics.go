package metrics

import (
	"strconv"
	"time"

	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartspend",
		Name:      "purchase_ops_total",
		Help:      "Purchase operations by op and result kind.",
	}, []string{"op", "result"})

	purchaseOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartspend",
		Name:      "purchase_op_duration_seconds",
		Help:      "Duration of purchase operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartspend",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})
)

// ObservePurchaseOp records one finished purchase operation.
func ObservePurchaseOp(op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = string(apperr.KindOf(err))
	}
	purchaseOps.WithLabelValues(op, result).Inc()
	purchaseOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func ObserveHTTP(method, route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
